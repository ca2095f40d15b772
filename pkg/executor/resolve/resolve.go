// Copyright 2025 KrakLabs
//
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package resolve defines the resolver contract shared by every location
// backend (spec §4.5) and the factory that dispatches a Location's variant
// to the backend registered for it (spec §4.8).
package resolve

import (
	"context"
	"log/slog"

	"github.com/kraklabs/blaze/pkg/executor"
	"github.com/kraklabs/blaze/pkg/value"
)

// Context carries what every backend needs beyond the reference URL itself:
// the workspace root for path-relative resolution, a logger, and the
// package id the higher layer derived for this reference.
type Context struct {
	Workspace string
	Logger    *slog.Logger
	PackageID uint64
}

// Log returns c.Logger, falling back to slog.Default() when unset.
func (c Context) Log() *slog.Logger {
	if c.Logger == nil {
		return slog.Default()
	}
	return c.Logger
}

// Resolution is what resolve returns when no prior state existed.
type Resolution struct {
	LoadMetadata executor.LoadMetadata
	State        value.Value
}

// Verdict discriminates the two outcomes update can return.
type Verdict int

const (
	VerdictKeep Verdict = iota
	VerdictUpdate
)

// Update is what update returns. A Keep verdict carries nothing further. An
// Update verdict always carries ReloadWithMetadata; NewState is nil when the
// backend wants the prior state reused verbatim (spec §4.5: "reload the
// source, but reuse the prior state").
type Update struct {
	Verdict            Verdict
	NewState           *value.Value
	ReloadWithMetadata executor.LoadMetadata
}

// Keep is the Update value every backend returns when nothing changed.
func Keep() Update { return Update{Verdict: VerdictKeep} }

// Reload builds an Update verdict that replaces state and signals a reload.
func Reload(newState *value.Value, metadata executor.LoadMetadata) Update {
	return Update{Verdict: VerdictUpdate, NewState: newState, ReloadWithMetadata: metadata}
}

// Resolver is the two-operation contract every location backend implements.
type Resolver interface {
	// Resolve is called when no persisted state exists for this package id.
	Resolve(ctx context.Context, url string, rc Context) (Resolution, error)
	// Update is called when persisted state exists; state is that backend's
	// own previously-encoded Value.
	Update(ctx context.Context, url string, rc Context, state value.Value) (Update, error)
}
