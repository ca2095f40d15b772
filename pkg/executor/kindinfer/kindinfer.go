// Copyright 2025 KrakLabs
//
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package kindinfer classifies a source directory as one of the known
// executor kinds by its shallow contents (spec §4.4).
package kindinfer

import (
	"os"
	"path/filepath"

	"github.com/kraklabs/blaze/pkg/executor"
	"github.com/kraklabs/blaze/pkg/executor/resolveerr"
)

// manifestPriority is the fixed priority order in which well-known
// manifests are examined. The first match wins.
var manifestPriority = []struct {
	file string
	kind executor.Kind
}{
	{"package.json", executor.KindNode},
	{"Cargo.toml", executor.KindRust},
	{"build.gradle.kts", executor.KindKotlin},
	{"build.gradle", executor.KindKotlin},
}

// Infer examines dir's shallow contents against manifestPriority and
// returns the corresponding Kind, or a KindInference error if no known
// manifest is present.
func Infer(dir string) (executor.Kind, error) {
	for _, candidate := range manifestPriority {
		if fileExists(filepath.Join(dir, candidate.file)) {
			return candidate.kind, nil
		}
	}
	return executor.KindUnknown, resolveerr.CouldNotInferKind(dir)
}

// Resolve returns configured if it is non-empty (explicit kind always wins,
// invariant #10), otherwise falls back to Infer(dir).
func Resolve(configured executor.Kind, dir string) (executor.Kind, error) {
	if configured != executor.KindUnknown {
		return configured, nil
	}
	return Infer(dir)
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
