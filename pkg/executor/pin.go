// Copyright 2025 KrakLabs
//
// SPDX-License-Identifier: AGPL-3.0-or-later

package executor

import "github.com/kraklabs/blaze/pkg/value"

// PinKind discriminates the three ways a Git checkout can be pinned.
type PinKind int

const (
	PinNone PinKind = iota
	PinBranch
	PinTag
	PinRevision
)

// CheckoutPin identifies a stable git position: a branch name, a tag name,
// or a revision expression. The zero value (PinNone) means "whatever the
// remote's default branch resolves to".
type CheckoutPin struct {
	Kind PinKind
	Name string
}

func BranchPin(name string) CheckoutPin   { return CheckoutPin{Kind: PinBranch, Name: name} }
func TagPin(name string) CheckoutPin      { return CheckoutPin{Kind: PinTag, Name: name} }
func RevisionPin(rev string) CheckoutPin  { return CheckoutPin{Kind: PinRevision, Name: rev} }
func NoPin() CheckoutPin                  { return CheckoutPin{Kind: PinNone} }

func (p CheckoutPin) IsNone() bool { return p.Kind == PinNone }

func (p CheckoutPin) String() string {
	switch p.Kind {
	case PinBranch:
		return "branch:" + p.Name
	case PinTag:
		return "tag:" + p.Name
	case PinRevision:
		return "rev:" + p.Name
	default:
		return "none"
	}
}

// ValueEncode renders the pin using the newtype-enum-variant shape, a
// single-key Object wrapping the pin's name: {"branch": "<name>"},
// {"tag": "<name>"} or {"revision": "<rev>"}. PinNone encodes as Null
// since it carries no identity contribution of its own.
func (p CheckoutPin) ValueEncode() (value.Value, error) {
	switch p.Kind {
	case PinNone:
		return value.Null(), nil
	case PinBranch:
		return value.Object(map[string]value.Value{"branch": value.String(p.Name)}), nil
	case PinTag:
		return value.Object(map[string]value.Value{"tag": value.String(p.Name)}), nil
	case PinRevision:
		return value.Object(map[string]value.Value{"revision": value.String(p.Name)}), nil
	default:
		return value.Value{}, decodeErrorf("unknown pin kind %d", p.Kind)
	}
}

func (p *CheckoutPin) ValueDecode(v value.Value) error {
	if v.IsNull() {
		*p = NoPin()
		return nil
	}
	obj, ok := v.AsObject()
	if !ok {
		return decodeErrorf("expected object or null, got %s", v.Kind())
	}
	if s, ok := obj["branch"]; ok {
		name, _ := s.AsString()
		*p = BranchPin(name)
		return nil
	}
	if s, ok := obj["tag"]; ok {
		name, _ := s.AsString()
		*p = TagPin(name)
		return nil
	}
	if s, ok := obj["revision"]; ok {
		name, _ := s.AsString()
		*p = RevisionPin(name)
		return nil
	}
	return decodeErrorf("unrecognized checkout pin shape")
}
