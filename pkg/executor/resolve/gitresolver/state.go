// Copyright 2025 KrakLabs
//
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package gitresolver implements the bare, HTTP, and SSH Git backends
// (spec §4.7) on top of go-git. A single headless Engine carries the
// clone/fetch/checkout state machine; the three variants differ in which
// transport.AuthMethod they inject, and the HTTP variant also installs a
// header-injecting transport client when custom headers are configured.
package gitresolver

import (
	"fmt"
	"path/filepath"

	"github.com/kraklabs/blaze/pkg/value"
)

// RepositoryState is the persisted state every git backend stores: the
// absolute path of the local clone under the workspace's repository cache.
type RepositoryState struct {
	RepositoryPath string
}

func (s RepositoryState) ValueEncode() (value.Value, error) {
	return value.Object(map[string]value.Value{
		"repository_path": value.String(s.RepositoryPath),
	}), nil
}

func (s *RepositoryState) ValueDecode(v value.Value) error {
	obj, ok := v.AsObject()
	if !ok {
		return decodeErrorf("expected object, got %s", v.Kind())
	}
	path, ok := obj["repository_path"]
	if !ok {
		return decodeErrorf("missing repository_path")
	}
	str, ok := path.AsString()
	if !ok {
		return decodeErrorf("repository_path must be a string")
	}
	s.RepositoryPath = str
	return nil
}

// sourcePath returns the load metadata src: the repository root, joined
// with the configured subpath when one is set.
func (s RepositoryState) sourcePath(subpath string) string {
	if subpath == "" {
		return s.RepositoryPath
	}
	return filepath.Join(s.RepositoryPath, subpath)
}

func decodeErrorf(format string, args ...any) error {
	return fmt.Errorf("gitresolver: "+format, args...)
}
