// Copyright 2025 KrakLabs
//
// SPDX-License-Identifier: AGPL-3.0-or-later

package fsresolver

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kraklabs/blaze/pkg/executor"
	"github.com/kraklabs/blaze/pkg/executor/resolve"
)

func writeFile(t *testing.T, root, rel, content string) {
	t.Helper()
	full := filepath.Join(root, rel)
	require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o755))
	require.NoError(t, os.WriteFile(full, []byte(content), 0o644))
}

// TestResolveNoWatch covers S1: resolving a package.json directory with no
// configured watch infers Node and captures package.json in the state.
func TestResolveNoWatch(t *testing.T) {
	workspace := t.TempDir()
	writeFile(t, workspace, "tools/foo/package.json", `{"name":"foo"}`)

	r := New(&executor.FileSystemOptions{})
	res, err := r.Resolve(context.Background(), "file://./tools/foo", resolve.Context{Workspace: workspace})
	require.NoError(t, err)

	assert.Equal(t, executor.KindNode, res.LoadMetadata.Kind)
	assert.Equal(t, filepath.Join(workspace, "tools/foo"), res.LoadMetadata.Src)

	files, ok := res.State.At("files")
	require.True(t, ok)
	fileMap, isObj := files.AsObject()
	require.True(t, isObj)
	_, hasPkg := fileMap["package.json"]
	require.True(t, hasPkg)
}

func TestResolveRejectsNonDirectory(t *testing.T) {
	workspace := t.TempDir()
	writeFile(t, workspace, "not-a-dir.txt", "x")

	r := New(&executor.FileSystemOptions{})
	_, err := r.Resolve(context.Background(), "file://./not-a-dir.txt", resolve.Context{Workspace: workspace})
	assert.ErrorContains(t, err, "is not a directory")
}

// TestUpdateOnChangesScenario covers S2: no change keeps, a touch that
// leaves content unchanged keeps (Mixed behavior), a real edit updates.
func TestUpdateOnChangesScenario(t *testing.T) {
	workspace := t.TempDir()
	writeFile(t, workspace, "tools/foo/package.json", `{"name":"foo"}`)
	writeFile(t, workspace, "tools/foo/src/index.js", "console.log(1)")

	r := New(&executor.FileSystemOptions{RebuildStrategy: executor.RebuildOnChanges})
	rc := resolve.Context{Workspace: workspace}
	res, err := r.Resolve(context.Background(), "file://./tools/foo", rc)
	require.NoError(t, err)

	update, err := r.Update(context.Background(), "file://./tools/foo", rc, res.State)
	require.NoError(t, err)
	assert.Equal(t, resolve.VerdictKeep, update.Verdict, "no change must Keep")

	future := time.Now().Add(time.Hour)
	require.NoError(t, os.Chtimes(filepath.Join(workspace, "tools/foo/src/index.js"), future, future))
	update, err = r.Update(context.Background(), "file://./tools/foo", rc, res.State)
	require.NoError(t, err)
	assert.Equal(t, resolve.VerdictKeep, update.Verdict, "touch without content change must Keep under Mixed")

	writeFile(t, workspace, "tools/foo/src/index.js", "console.log(2)")
	update, err = r.Update(context.Background(), "file://./tools/foo", rc, res.State)
	require.NoError(t, err)
	assert.Equal(t, resolve.VerdictUpdate, update.Verdict, "content edit must Update")
}

func TestUpdateHonorsConfiguredKind(t *testing.T) {
	workspace := t.TempDir()
	writeFile(t, workspace, "tools/foo/package.json", `{"name":"foo"}`)

	r := New(&executor.FileSystemOptions{Kind: executor.KindRust, RebuildStrategy: executor.RebuildAlways})
	rc := resolve.Context{Workspace: workspace}
	res, err := r.Resolve(context.Background(), "file://./tools/foo", rc)
	require.NoError(t, err)
	assert.Equal(t, executor.KindRust, res.LoadMetadata.Kind)

	update, err := r.Update(context.Background(), "file://./tools/foo", rc, res.State)
	require.NoError(t, err)
	require.Equal(t, resolve.VerdictUpdate, update.Verdict)
	assert.Equal(t, executor.KindRust, update.ReloadWithMetadata.Kind, "an explicit kind must survive update, not just resolve")
}

func TestUpdateRebuildNoneAlwaysKeeps(t *testing.T) {
	workspace := t.TempDir()
	writeFile(t, workspace, "tools/foo/package.json", `{}`)

	r := New(&executor.FileSystemOptions{})
	rc := resolve.Context{Workspace: workspace}
	res, err := r.Resolve(context.Background(), "file://./tools/foo", rc)
	require.NoError(t, err)

	writeFile(t, workspace, "tools/foo/new.txt", "new")
	update, err := r.Update(context.Background(), "file://./tools/foo", rc, res.State)
	require.NoError(t, err)
	assert.Equal(t, resolve.VerdictKeep, update.Verdict, "no rebuild strategy always keeps regardless of changes")
}
