// Copyright 2025 KrakLabs
//
// SPDX-License-Identifier: AGPL-3.0-or-later

package packageid

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kraklabs/blaze/pkg/executor"
)

func TestStableAcrossOperationalFields(t *testing.T) {
	base := executor.NewCustomReference("https://example.com/repo.git", executor.NewGit(executor.GitOptions{
		Checkout: executor.BranchPin("main"),
		Pull:     false,
	}))
	pulling := executor.NewCustomReference("https://example.com/repo.git", executor.NewGit(executor.GitOptions{
		Checkout: executor.BranchPin("main"),
		Pull:     true,
	}))

	idBase, err := Compute(base)
	require.NoError(t, err)
	idPulling, err := Compute(pulling)
	require.NoError(t, err)

	assert.Equal(t, idBase, idPulling, "pull toggle must not affect package id (S6)")
}

func TestDiscriminatesOnIdentityFields(t *testing.T) {
	main := executor.NewCustomReference("https://example.com/repo.git", executor.NewGit(executor.GitOptions{
		Checkout: executor.BranchPin("main"),
	}))
	dev := executor.NewCustomReference("https://example.com/repo.git", executor.NewGit(executor.GitOptions{
		Checkout: executor.BranchPin("dev"),
	}))

	idMain, err := Compute(main)
	require.NoError(t, err)
	idDev, err := Compute(dev)
	require.NoError(t, err)

	assert.NotEqual(t, idMain, idDev)
}

func TestLocalFileSystemHashesURLOnly(t *testing.T) {
	a := executor.NewCustomReference("file://./tools/foo", executor.NewLocalFileSystem(executor.FileSystemOptions{
		RebuildStrategy: executor.RebuildAlways,
	}))
	b := executor.NewCustomReference("file://./tools/foo", executor.NewLocalFileSystem(executor.FileSystemOptions{
		RebuildStrategy: executor.RebuildNone,
	}))

	idA, err := Compute(a)
	require.NoError(t, err)
	idB, err := Compute(b)
	require.NoError(t, err)
	assert.Equal(t, idA, idB, "rebuild strategy must not affect package id")
}

func TestDeterministicAcrossCalls(t *testing.T) {
	ref := executor.NewStandardReference("file://./tools/foo")
	first, err := Compute(ref)
	require.NoError(t, err)
	for i := 0; i < 5; i++ {
		again, err := Compute(ref)
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}
