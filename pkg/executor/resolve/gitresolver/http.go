// Copyright 2025 KrakLabs
//
// SPDX-License-Identifier: AGPL-3.0-or-later

package gitresolver

import (
	transporthttp "github.com/go-git/go-git/v5/plumbing/transport/http"
	"github.com/go-git/go-git/v5/plumbing/transport/client"

	"github.com/kraklabs/blaze/pkg/executor"
	"github.com/kraklabs/blaze/pkg/executor/resolve"
)

func init() {
	resolve.Register(executor.LocationGitOverHTTP, func(loc executor.Location) (resolve.Resolver, error) {
		return NewHTTP(loc.GitHTTP), nil
	})
}

// NewHTTP builds the Git-over-HTTP backend (spec §4.7, Location::GitOverHttp).
// A token becomes a BasicAuth credential; configured headers are installed
// as the scheme's transport client, since go-git has no per-clone header
// hook.
func NewHTTP(opts *executor.GitHTTPOptions) *Engine {
	if opts == nil {
		opts = &executor.GitHTTPOptions{}
	}
	if httpClient := httpClientWithHeaders(opts.Headers); httpClient != nil {
		client.InstallProtocol("https", transporthttp.NewClient(httpClient))
		client.InstallProtocol("http", transporthttp.NewClient(httpClient))
	}
	return newEngine(opts.Checkout, opts.Kind, opts.Path, opts.Pull, httpAuth(opts.Auth))
}
