// Copyright 2025 KrakLabs
//
// SPDX-License-Identifier: AGPL-3.0-or-later

package filetracker

import (
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/cespare/xxhash/v2"
)

// FileAttrs is one entry's metadata: size, modification time in
// nanoseconds, and — when the matching Matcher's Behavior requires it — a
// content fingerprint. Behavior is carried alongside so Merge can apply the
// right comparison rule per entry even when different matchers with
// different behaviors cover the same MatchedFiles set.
type FileAttrs struct {
	Size         int64
	ModTimeNanos int64
	Fingerprint  string
	Behavior     Behavior
}

// MatchedFiles maps a relative path (relative to the matcher's Root) to its
// attributes, as produced by a single Snapshot call.
type MatchedFiles map[string]FileAttrs

// Snapshot walks every matcher's root, keeping files whose relative path
// matches the include glob and none of the exclude globs, and returns their
// attributes. Matchers are applied independently; a path reachable through
// more than one matcher takes the attributes of the last matcher that
// covers it.
func Snapshot(matchers []Matcher) (MatchedFiles, error) {
	out := MatchedFiles{}
	for _, m := range matchers {
		if err := snapshotOne(m, out); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func snapshotOne(m Matcher, out MatchedFiles) error {
	root := m.Root
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return fmt.Errorf("walking %s: %w", path, err)
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return fmt.Errorf("relativizing %s against %s: %w", path, root, err)
		}
		rel = filepath.ToSlash(rel)

		matched, err := doublestar.Match(m.IncludeGlob, rel)
		if err != nil {
			return fmt.Errorf("invalid include glob %q: %w", m.IncludeGlob, err)
		}
		if !matched {
			return nil
		}
		for _, ex := range m.ExcludeGlobs {
			excluded, err := doublestar.Match(ex, rel)
			if err != nil {
				return fmt.Errorf("invalid exclude glob %q: %w", ex, err)
			}
			if excluded {
				return nil
			}
		}

		info, err := d.Info()
		if err != nil {
			return fmt.Errorf("stat %s: %w", path, err)
		}

		attrs := FileAttrs{
			Size:         info.Size(),
			ModTimeNanos: info.ModTime().UnixNano(),
			Behavior:     m.Behavior,
		}
		if m.Behavior.needsFingerprint() {
			fp, err := fingerprint(path)
			if err != nil {
				return fmt.Errorf("fingerprinting %s: %w", path, err)
			}
			attrs.Fingerprint = fp
		}
		out[rel] = attrs
		return nil
	})
}

// fingerprint returns a stable, non-cryptographic digest of a file's bytes,
// formatted as a fixed-width hex string.
func fingerprint(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h := xxhash.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}
	return fmt.Sprintf("%016x", h.Sum64()), nil
}
