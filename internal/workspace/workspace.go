// Copyright 2025 KrakLabs
//
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package workspace implements the external interfaces spec.md §6 names but
// leaves unspecified: a Workspace root, WorkspaceGlobals carrying shared
// options, and a Run entrypoint that drives one resolve-or-update cycle for
// a named reference through pkg/executor/resolve's factory, persisting the
// backend's opaque state between calls.
package workspace

import (
	"context"
	"fmt"
	"log/slog"

	_ "github.com/kraklabs/blaze/pkg/executor/resolve/fsresolver"
	_ "github.com/kraklabs/blaze/pkg/executor/resolve/gitresolver"

	"github.com/kraklabs/blaze/pkg/executor"
	"github.com/kraklabs/blaze/pkg/executor/packageid"
	"github.com/kraklabs/blaze/pkg/executor/resolve"
)

// GlobalOptions carries the options shared across every Run invocation in a
// process: parallelism is the orchestrator's concern (§5: the core itself
// holds no shared mutable state), Logger is threaded down into every
// resolver call.
type GlobalOptions struct {
	Parallelism int
	Logger      *slog.Logger
}

func (g GlobalOptions) logger() *slog.Logger {
	if g.Logger == nil {
		return slog.Default()
	}
	return g.Logger
}

// Workspace is a root directory plus the shared globals every Run call
// against it needs. New validates that root exists and is a directory,
// mirroring the reference implementation's WorkspaceGlobals constructor.
type Workspace struct {
	Root    string
	Globals GlobalOptions
}

// New builds a Workspace, the Go equivalent of WorkspaceGlobals::new(root,
// GlobalOptions) (§6's only other named entrypoint besides run).
func New(root string, globals GlobalOptions) (*Workspace, error) {
	info, err := statDir(root)
	if err != nil {
		return nil, err
	}
	if !info {
		return nil, fmt.Errorf("workspace root %s is not a directory", root)
	}
	return &Workspace{Root: root, Globals: globals}, nil
}

// RunOptions names the single reference Run resolves or updates in this
// call. Whether prior state exists is read from the workspace's StateStore.
type RunOptions struct {
	Name      string
	Reference executor.Reference
}

// RunResult is what Run returns: the load metadata a caller hands to the
// next stage, plus the Verdict. A fresh resolve reports VerdictUpdate, the
// same as an update that reloads; on VerdictKeep, LoadMetadata is the zero
// value.
type RunResult struct {
	LoadMetadata executor.LoadMetadata
	Verdict      resolve.Verdict
}

// Run drives exactly one resolve-or-update cycle for opts.Reference: if no
// state is persisted for it yet, Resolve; otherwise Update, honoring
// whatever Verdict the backend returns and persisting NewState when given.
// This is the contract spec §6 names `run(root, RunOptions, GlobalOptions)`.
func Run(ctx context.Context, root string, opts RunOptions, globals GlobalOptions) (RunResult, error) {
	ws, err := New(root, globals)
	if err != nil {
		return RunResult{}, err
	}
	return ws.Run(ctx, opts)
}

// Run is the Workspace-bound form of the package-level Run, reusing an
// already-validated Workspace across many references.
func (w *Workspace) Run(ctx context.Context, opts RunOptions) (RunResult, error) {
	loc, err := opts.Reference.ResolvedLocation()
	if err != nil {
		return RunResult{}, err
	}

	id, err := packageid.Compute(opts.Reference)
	if err != nil {
		return RunResult{}, err
	}

	resolver, err := resolve.Dispatch(loc)
	if err != nil {
		return RunResult{}, err
	}

	store := NewStateStore(w.Root)
	rc := resolve.Context{Workspace: w.Root, Logger: w.Globals.logger(), PackageID: id}

	prior, ok, err := store.Load(id)
	if err != nil {
		return RunResult{}, err
	}

	if !ok {
		res, err := resolver.Resolve(ctx, opts.Reference.URL, rc)
		if err != nil {
			return RunResult{}, err
		}
		if err := store.Save(id, res.State); err != nil {
			return RunResult{}, err
		}
		return RunResult{LoadMetadata: res.LoadMetadata, Verdict: resolve.VerdictUpdate}, nil
	}

	update, err := resolver.Update(ctx, opts.Reference.URL, rc, prior)
	if err != nil {
		return RunResult{}, err
	}
	if update.Verdict == resolve.VerdictUpdate && update.NewState != nil {
		if err := store.Save(id, *update.NewState); err != nil {
			return RunResult{}, err
		}
	}

	loadMetadata := update.ReloadWithMetadata
	return RunResult{LoadMetadata: loadMetadata, Verdict: update.Verdict}, nil
}
