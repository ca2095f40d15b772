// Copyright 2025 KrakLabs
//
// SPDX-License-Identifier: AGPL-3.0-or-later

package filetracker

import (
	"fmt"
	"sort"

	"github.com/kraklabs/blaze/pkg/value"
)

// MatchedFilesState is the persisted form of a snapshot (spec §3): the
// "Matched files state" data model entry. It round-trips through pkg/value
// so a resolver can embed it opaquely inside its own backend state.
type MatchedFilesState struct {
	Files MatchedFiles
}

// FromFiles wraps a fresh snapshot as persistable state.
func FromFiles(files MatchedFiles) MatchedFilesState {
	return MatchedFilesState{Files: files}
}

func (s MatchedFilesState) ValueEncode() (value.Value, error) {
	files := map[string]value.Value{}
	for path, attrs := range s.Files {
		entry := map[string]value.Value{
			"size":       value.Signed(attrs.Size),
			"mtime_nanos": value.Signed(attrs.ModTimeNanos),
			"behavior":   value.Unsigned(uint64(attrs.Behavior)),
		}
		if attrs.Behavior.needsFingerprint() {
			entry["content_fingerprint"] = value.String(attrs.Fingerprint)
		}
		files[path] = value.Object(entry)
	}
	return value.Object(map[string]value.Value{"files": value.Object(files)}), nil
}

func (s *MatchedFilesState) ValueDecode(v value.Value) error {
	filesVal, ok := v.At("files")
	if !ok {
		return decodeErrorf("missing files field")
	}
	obj, ok := filesVal.AsObject()
	if !ok {
		return decodeErrorf("files must be an object")
	}
	out := MatchedFiles{}
	for path, entry := range obj {
		entryObj, ok := entry.AsObject()
		if !ok {
			return decodeErrorf("entry for %s must be an object", path)
		}
		var attrs FileAttrs
		if size, ok := entryObj["size"].AsSigned(); ok {
			attrs.Size = size
		}
		if mtime, ok := entryObj["mtime_nanos"].AsSigned(); ok {
			attrs.ModTimeNanos = mtime
		}
		if behavior, ok := entryObj["behavior"].AsUnsigned(); ok {
			attrs.Behavior = Behavior(behavior)
		}
		if fp, ok := entryObj["content_fingerprint"]; ok {
			attrs.Fingerprint, _ = fp.AsString()
		}
		out[path] = attrs
	}
	s.Files = out
	return nil
}

// ChangeKind discriminates the three ways a path can differ between two
// snapshots.
type ChangeKind int

const (
	Added ChangeKind = iota
	Removed
	Modified
)

func (k ChangeKind) String() string {
	switch k {
	case Added:
		return "added"
	case Removed:
		return "removed"
	case Modified:
		return "modified"
	default:
		return "unknown"
	}
}

// Change is one path's classification between a prior state and a fresh
// snapshot.
type Change struct {
	Kind ChangeKind
	Path string
}

// Merge diffs a persisted state against a fresh snapshot and returns the new
// state to persist plus the set of changes observed (spec §4.3). Merge is
// total and deterministic: identical inputs always produce an identical
// result, and an empty change set implies the new state is identical to the
// prior one.
func Merge(prior MatchedFilesState, fresh MatchedFiles) (MatchedFilesState, []Change) {
	var changes []Change
	next := MatchedFiles{}

	for path, freshAttrs := range fresh {
		priorAttrs, existed := prior.Files[path]
		if !existed {
			changes = append(changes, Change{Kind: Added, Path: path})
			next[path] = freshAttrs
			continue
		}
		if attrsDiffer(priorAttrs, freshAttrs) {
			changes = append(changes, Change{Kind: Modified, Path: path})
			next[path] = freshAttrs
			continue
		}
		next[path] = priorAttrs
	}
	for path := range prior.Files {
		if _, stillPresent := fresh[path]; !stillPresent {
			changes = append(changes, Change{Kind: Removed, Path: path})
		}
	}
	sort.Slice(changes, func(i, j int) bool { return changes[i].Path < changes[j].Path })

	return FromFiles(next), changes
}

func attrsDiffer(prior, fresh FileAttrs) bool {
	switch fresh.Behavior {
	case MetadataOnly:
		return prior.Size != fresh.Size || prior.ModTimeNanos != fresh.ModTimeNanos
	case ContentOnly:
		return prior.Fingerprint != fresh.Fingerprint
	case Mixed:
		if prior.Size == fresh.Size && prior.ModTimeNanos == fresh.ModTimeNanos {
			return false
		}
		return prior.Fingerprint != fresh.Fingerprint
	default:
		return prior.Size != fresh.Size || prior.ModTimeNanos != fresh.ModTimeNanos
	}
}

func decodeErrorf(format string, args ...any) error {
	return fmt.Errorf("filetracker: "+format, args...)
}
