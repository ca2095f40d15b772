// Copyright 2025 KrakLabs
//
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package executor defines the domain types shared across resolution:
// executor references, the closed set of location backends, and the load
// metadata a resolved executor exposes to the layer that actually runs it.
package executor

import "github.com/kraklabs/blaze/pkg/value"

// Kind is the closed set of executor runtimes the orchestrator knows how to
// load. It is inferred from a resolved directory's manifests (pkg/executor/
// kindinfer) or supplied explicitly in configuration, which always wins.
type Kind string

const (
	KindUnknown Kind = ""
	KindNode    Kind = "node"
	KindRust    Kind = "rust"
	KindKotlin  Kind = "kotlin"
)

func (k Kind) String() string { return string(k) }

// ValueEncode renders a Kind as a bare String, the unit-enum-variant shape.
func (k Kind) ValueEncode() (value.Value, error) {
	return value.String(string(k)), nil
}

// ValueDecode reads a Kind back from its bare-String encoding.
func (k *Kind) ValueDecode(v value.Value) error {
	s, ok := v.AsString()
	if !ok {
		return decodeErrorf("expected string, got %s", v.Kind())
	}
	*k = Kind(s)
	return nil
}

// LoadMetadata is the result of a successful resolve/update: the kind the
// executor should be loaded as, and the absolute filesystem root to load it
// from.
type LoadMetadata struct {
	Kind Kind
	Src  string
}
