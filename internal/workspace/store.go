// Copyright 2025 KrakLabs
//
// SPDX-License-Identifier: AGPL-3.0-or-later

package workspace

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/kraklabs/blaze/pkg/value"
)

// StateStore persists the opaque per-package Value state spec §6 describes
// ("State blobs are opaque Value trees keyed by package id in a
// higher-layer store") as one YAML file per package id under
// <root>/.blaze/state/. This is that higher-layer store's minimal
// reference implementation — a real orchestrator may back it with
// something else entirely, but it must honor the same "the core treats
// directory missing as absent" and "never peek or mutate" rules.
type StateStore struct {
	dir string
}

func NewStateStore(root string) *StateStore {
	return &StateStore{dir: filepath.Join(root, ".blaze", "state")}
}

func (s *StateStore) path(packageID uint64) string {
	return filepath.Join(s.dir, strconv.FormatUint(packageID, 10)+".yaml")
}

// Load returns (state, true, nil) when prior state exists, (zero, false,
// nil) when it does not — "absent" is not an error.
func (s *StateStore) Load(packageID uint64) (value.Value, bool, error) {
	raw, err := os.ReadFile(s.path(packageID))
	if err != nil {
		if os.IsNotExist(err) {
			return value.Value{}, false, nil
		}
		return value.Value{}, false, fmt.Errorf("reading state for package %d: %w", packageID, err)
	}

	var v value.Value
	if err := yaml.Unmarshal(raw, &v); err != nil {
		return value.Value{}, false, fmt.Errorf("decoding state for package %d: %w", packageID, err)
	}
	return v, true, nil
}

// Save persists v as the backend's opaque state for packageID, replacing
// whatever was previously stored.
func (s *StateStore) Save(packageID uint64, v value.Value) error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("creating state directory: %w", err)
	}

	out, err := yaml.Marshal(v)
	if err != nil {
		return fmt.Errorf("encoding state for package %d: %w", packageID, err)
	}
	if err := os.WriteFile(s.path(packageID), out, 0o644); err != nil {
		return fmt.Errorf("writing state for package %d: %w", packageID, err)
	}
	return nil
}

func statDir(path string) (bool, error) {
	info, err := os.Stat(path)
	if err != nil {
		return false, fmt.Errorf("stat %s: %w", path, err)
	}
	return info.IsDir(), nil
}
