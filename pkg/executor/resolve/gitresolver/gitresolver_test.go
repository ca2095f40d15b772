// Copyright 2025 KrakLabs
//
// SPDX-License-Identifier: AGPL-3.0-or-later

package gitresolver

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	git "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	_ "github.com/go-git/go-git/v5/plumbing/transport/file"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kraklabs/blaze/pkg/executor"
	"github.com/kraklabs/blaze/pkg/executor/resolve"
)

// seedRepo creates a local non-bare repository at dir with one commit
// containing a package.json, tagged "v1.0.0".
func seedRepo(t *testing.T, dir string) {
	t.Helper()
	repo, err := git.PlainInit(dir, false)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "package.json"), []byte(`{"name":"seed"}`), 0o644))

	wt, err := repo.Worktree()
	require.NoError(t, err)
	_, err = wt.Add("package.json")
	require.NoError(t, err)

	sig := &object.Signature{Name: "test", Email: "test@example.com", When: time.Unix(0, 0)}
	hash, err := wt.Commit("seed", &git.CommitOptions{Author: sig})
	require.NoError(t, err)

	_, err = repo.CreateTag("v1.0.0", hash, nil)
	require.NoError(t, err)
}

func commitFile(t *testing.T, dir, rel, content, message string) {
	t.Helper()
	repo, err := git.PlainOpen(dir)
	require.NoError(t, err)
	require.NoError(t, os.MkdirAll(filepath.Dir(filepath.Join(dir, rel)), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, rel), []byte(content), 0o644))

	wt, err := repo.Worktree()
	require.NoError(t, err)
	_, err = wt.Add(rel)
	require.NoError(t, err)

	sig := &object.Signature{Name: "test", Email: "test@example.com", When: time.Now()}
	_, err = wt.Commit(message, &git.CommitOptions{Author: sig})
	require.NoError(t, err)
}

// TestResolvePinnedTag covers S3: resolving with a Tag pin clones and
// detaches HEAD at the tagged commit.
func TestResolvePinnedTag(t *testing.T) {
	remote := t.TempDir()
	seedRepo(t, remote)

	workspace := t.TempDir()
	e := NewBare(&executor.GitOptions{Checkout: executor.TagPin("v1.0.0")})

	rc := resolve.Context{Workspace: workspace, PackageID: 42}
	res, err := e.Resolve(context.Background(), remote, rc)
	require.NoError(t, err)

	assert.Equal(t, executor.KindNode, res.LoadMetadata.Kind)

	var state RepositoryState
	require.NoError(t, state.ValueDecode(res.State))

	repo, err := git.PlainOpen(state.RepositoryPath)
	require.NoError(t, err)
	head, err := repo.Head()
	require.NoError(t, err)

	tagRef, err := repo.Tag("v1.0.0")
	require.NoError(t, err)
	assert.Equal(t, tagRef.Hash(), head.Hash())
}

// TestResolvePinnedBranchSetsSymbolicHead covers the Branch row of spec
// §4.7's pin-dispatch table: HEAD must end up symbolic to the
// remote-tracking ref origin/<name>, not a fabricated local branch.
func TestResolvePinnedBranchSetsSymbolicHead(t *testing.T) {
	remote := t.TempDir()
	seedRepo(t, remote)

	workspace := t.TempDir()
	e := NewBare(&executor.GitOptions{Checkout: executor.BranchPin("master")})
	rc := resolve.Context{Workspace: workspace, PackageID: 11}

	res, err := e.Resolve(context.Background(), remote, rc)
	require.NoError(t, err)

	var state RepositoryState
	require.NoError(t, state.ValueDecode(res.State))

	repo, err := git.PlainOpen(state.RepositoryPath)
	require.NoError(t, err)

	headRef, err := repo.Reference(plumbing.HEAD, false)
	require.NoError(t, err)
	assert.Equal(t, plumbing.SymbolicReference, headRef.Type())
	assert.Equal(t, plumbing.NewRemoteReferenceName("origin", "master"), headRef.Target())
}

// TestUpdatePullsForwardOnNewCommit covers S4: a pulling branch-pinned
// reference fast-forwards HEAD when the remote has moved.
func TestUpdatePullsForwardOnNewCommit(t *testing.T) {
	remote := t.TempDir()
	seedRepo(t, remote)

	workspace := t.TempDir()
	e := NewBare(&executor.GitOptions{Checkout: executor.BranchPin("master"), Pull: true})
	rc := resolve.Context{Workspace: workspace, PackageID: 7}

	res, err := e.Resolve(context.Background(), remote, rc)
	require.NoError(t, err)

	update, err := e.Update(context.Background(), remote, rc, res.State)
	require.NoError(t, err)
	assert.Equal(t, resolve.VerdictKeep, update.Verdict, "nothing changed upstream yet")

	commitFile(t, remote, "src/index.js", "console.log(1)", "add source")

	update, err = e.Update(context.Background(), remote, rc, res.State)
	require.NoError(t, err)
	require.Equal(t, resolve.VerdictUpdate, update.Verdict)
	assert.Nil(t, update.NewState, "git backends reuse the persisted repository_path state verbatim")
}

// TestUpdateWithoutPullAlwaysKeeps checks options.pull == false short-circuits
// before any fetch happens.
func TestUpdateWithoutPullAlwaysKeeps(t *testing.T) {
	remote := t.TempDir()
	seedRepo(t, remote)

	workspace := t.TempDir()
	e := NewBare(&executor.GitOptions{Checkout: executor.BranchPin("master"), Pull: false})
	rc := resolve.Context{Workspace: workspace, PackageID: 9}

	res, err := e.Resolve(context.Background(), remote, rc)
	require.NoError(t, err)

	commitFile(t, remote, "src/index.js", "console.log(1)", "add source")

	update, err := e.Update(context.Background(), remote, rc, res.State)
	require.NoError(t, err)
	assert.Equal(t, resolve.VerdictKeep, update.Verdict)
}

// TestResolveIsIdempotent covers invariant #9: resolving the same reference
// twice in a row (stale clone directory already present) succeeds both
// times and records the same repository state.
func TestResolveIsIdempotent(t *testing.T) {
	remote := t.TempDir()
	seedRepo(t, remote)

	workspace := t.TempDir()
	e := NewBare(&executor.GitOptions{Checkout: executor.TagPin("v1.0.0")})
	rc := resolve.Context{Workspace: workspace, PackageID: 3}

	first, err := e.Resolve(context.Background(), remote, rc)
	require.NoError(t, err)
	second, err := e.Resolve(context.Background(), remote, rc)
	require.NoError(t, err)

	assert.True(t, first.State.Equal(second.State))
}
