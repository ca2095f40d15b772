// Copyright 2025 KrakLabs
//
// SPDX-License-Identifier: AGPL-3.0-or-later

package resolve

import (
	"sync"

	"github.com/kraklabs/blaze/pkg/executor"
	"github.com/kraklabs/blaze/pkg/executor/resolveerr"
)

// Constructor builds a Resolver for one Location's variant-specific options.
type Constructor func(loc executor.Location) (Resolver, error)

var (
	registryMu sync.RWMutex
	registry   = map[executor.LocationVariant]Constructor{}
)

// Register associates a Constructor with a LocationVariant. Backend packages
// call this from an init() function so that blank-importing the backend
// package is enough to make it available through Dispatch — the same
// registration pattern database/sql uses for drivers, chosen here
// specifically to let the factory (this file) and every concrete backend
// (fsresolver, gitresolver) depend on this package without this package
// depending back on any of them.
func Register(variant executor.LocationVariant, ctor Constructor) {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry[variant] = ctor
}

// Dispatch builds the Resolver registered for loc's variant. Variants with
// no registered Constructor (tarball, npm, cargo in the current
// specification) return a structured Unsupported error rather than
// panicking — the fix spec.md §9 calls for in place of the original's
// unimplemented-placeholder panic.
func Dispatch(loc executor.Location) (Resolver, error) {
	registryMu.RLock()
	ctor, ok := registry[loc.Variant]
	registryMu.RUnlock()
	if !ok {
		return nil, resolveerr.Unsupported(loc.Variant.String())
	}
	return ctor(loc)
}
