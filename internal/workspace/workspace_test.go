// Copyright 2025 KrakLabs
//
// SPDX-License-Identifier: AGPL-3.0-or-later

package workspace

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kraklabs/blaze/pkg/executor"
	"github.com/kraklabs/blaze/pkg/executor/resolve"
)

func TestRunResolvesThenUpdates(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "tools/foo"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "tools/foo/package.json"), []byte(`{}`), 0o644))

	ref := executor.NewCustomReference("file://./tools/foo", executor.NewLocalFileSystem(executor.FileSystemOptions{
		RebuildStrategy: executor.RebuildOnChanges,
	}))

	first, err := Run(context.Background(), root, RunOptions{Name: "foo", Reference: ref}, GlobalOptions{})
	require.NoError(t, err)
	assert.Equal(t, executor.KindNode, first.LoadMetadata.Kind)

	second, err := Run(context.Background(), root, RunOptions{Name: "foo", Reference: ref}, GlobalOptions{})
	require.NoError(t, err)
	assert.Equal(t, resolve.VerdictKeep, second.Verdict, "no filesystem changes between runs must Keep")
}

func TestRunPersistsStateAcrossWorkspaceInstances(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "tools/foo"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "tools/foo/package.json"), []byte(`{}`), 0o644))

	ref := executor.NewCustomReference("file://./tools/foo", executor.NewLocalFileSystem(executor.FileSystemOptions{}))

	ws1, err := New(root, GlobalOptions{})
	require.NoError(t, err)
	_, err = ws1.Run(context.Background(), RunOptions{Name: "foo", Reference: ref})
	require.NoError(t, err)

	ws2, err := New(root, GlobalOptions{})
	require.NoError(t, err)
	result, err := ws2.Run(context.Background(), RunOptions{Name: "foo", Reference: ref})
	require.NoError(t, err)
	assert.Equal(t, resolve.VerdictKeep, result.Verdict, "a fresh Workspace instance must see the persisted state")
}
