// Copyright 2025 KrakLabs
//
// SPDX-License-Identifier: AGPL-3.0-or-later

package kindinfer

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kraklabs/blaze/pkg/executor"
)

func TestInferByManifestPriority(t *testing.T) {
	tests := []struct {
		name     string
		manifest string
		want     executor.Kind
	}{
		{"node", "package.json", executor.KindNode},
		{"rust", "Cargo.toml", executor.KindRust},
		{"kotlin gradle kts", "build.gradle.kts", executor.KindKotlin},
		{"kotlin gradle groovy", "build.gradle", executor.KindKotlin},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			require.NoError(t, os.WriteFile(filepath.Join(dir, tt.manifest), []byte("{}"), 0o644))
			got, err := Infer(dir)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestInferFailsWithNoKnownManifest(t *testing.T) {
	dir := t.TempDir()
	_, err := Infer(dir)
	assert.Error(t, err)
}

func TestResolvePrefersConfiguredKind(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "package.json"), []byte("{}"), 0o644))

	got, err := Resolve(executor.KindRust, dir)
	require.NoError(t, err)
	assert.Equal(t, executor.KindRust, got, "an explicit kind always wins over inference")
}

func TestResolveFallsBackToInference(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "Cargo.toml"), []byte(""), 0o644))

	got, err := Resolve(executor.KindUnknown, dir)
	require.NoError(t, err)
	assert.Equal(t, executor.KindRust, got)
}
