// Copyright 2025 KrakLabs
//
// SPDX-License-Identifier: AGPL-3.0-or-later

package gitresolver

import (
	"github.com/kraklabs/blaze/pkg/executor"
	"github.com/kraklabs/blaze/pkg/executor/resolve"
)

func init() {
	resolve.Register(executor.LocationGit, func(loc executor.Location) (resolve.Resolver, error) {
		return NewBare(loc.Git), nil
	})
}

// NewBare builds the plain, unauthenticated Git backend (spec §4.7,
// Location::Git).
func NewBare(opts *executor.GitOptions) *Engine {
	if opts == nil {
		opts = &executor.GitOptions{}
	}
	return newEngine(opts.Checkout, opts.Kind, opts.Path, opts.Pull, noAuth)
}
