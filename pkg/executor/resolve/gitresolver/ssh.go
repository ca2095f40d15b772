// Copyright 2025 KrakLabs
//
// SPDX-License-Identifier: AGPL-3.0-or-later

package gitresolver

import (
	"github.com/kraklabs/blaze/pkg/executor"
	"github.com/kraklabs/blaze/pkg/executor/resolve"
)

func init() {
	resolve.Register(executor.LocationGitOverSSH, func(loc executor.Location) (resolve.Resolver, error) {
		return NewSSH(loc.GitSSH), nil
	})
}

// NewSSH builds the Git-over-SSH backend (spec §4.7, Location::GitOverSsh):
// a configured key file wins, otherwise credentials come from the running
// SSH agent.
func NewSSH(opts *executor.GitSSHOptions) *Engine {
	if opts == nil {
		opts = &executor.GitSSHOptions{}
	}
	return newEngine(opts.Checkout, opts.Kind, opts.Path, opts.Pull, sshAuth(opts.Auth))
}
