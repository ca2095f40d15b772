// Copyright 2025 KrakLabs
//
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package packageid derives a stable 64-bit identity for an executor
// reference (spec §4.2). Two references that differ only in operational
// fields (pull, rebuild strategy, watch patterns) must produce the same id;
// two references differing in any identity-bearing field must not collide
// except by the underlying hash's own negligible collision probability.
package packageid

import (
	"github.com/kraklabs/blaze/pkg/executor"
	"github.com/kraklabs/blaze/pkg/value"
)

// Compute derives the package id for ref. It resolves ref's Location (via
// scheme inference for Standard references), builds a Value containing only
// the identity-bearing fields for that variant per spec §4.2's table, and
// hashes it with pkg/value's fixed-seed xxhash-based Hash. Reusing the Value
// hasher rather than hand-rolling a second hash keeps exactly one "stable,
// non-cryptographic, fixed-seed hash" implementation in the module.
func Compute(ref executor.Reference) (uint64, error) {
	loc, err := ref.ResolvedLocation()
	if err != nil {
		return 0, err
	}

	fields := map[string]value.Value{"url": value.String(ref.URL)}

	switch loc.Variant {
	case executor.LocationLocalFileSystem:
		// url only.

	case executor.LocationGit:
		pin, err := loc.Git.Checkout.ValueEncode()
		if err != nil {
			return 0, err
		}
		fields["checkout"] = pin

	case executor.LocationGitOverHTTP:
		pin, err := loc.GitHTTP.Checkout.ValueEncode()
		if err != nil {
			return 0, err
		}
		fields["checkout"] = pin
		headers, err := value.Encode(loc.GitHTTP.Headers)
		if err != nil {
			return 0, err
		}
		fields["headers"] = headers
		auth, err := loc.GitHTTP.Auth.ValueEncode()
		if err != nil {
			return 0, err
		}
		fields["auth"] = auth

	case executor.LocationGitOverSSH:
		pin, err := loc.GitSSH.Checkout.ValueEncode()
		if err != nil {
			return 0, err
		}
		fields["checkout"] = pin
		auth, err := loc.GitSSH.Auth.ValueEncode()
		if err != nil {
			return 0, err
		}
		fields["auth"] = auth

	case executor.LocationTarballOverHTTP:
		headers, err := value.Encode(loc.Tarball.Headers)
		if err != nil {
			return 0, err
		}
		fields["headers"] = headers
		auth, err := loc.Tarball.Auth.ValueEncode()
		if err != nil {
			return 0, err
		}
		fields["auth"] = auth

	case executor.LocationNpm:
		fields["version"] = value.String(loc.Npm.Version)
		fields["token"] = value.String(loc.Npm.Token)

	case executor.LocationCargo:
		fields["version"] = value.String(loc.Cargo.Version)
		fields["token"] = value.String(loc.Cargo.Token)
	}

	return value.Object(fields).Hash(), nil
}
