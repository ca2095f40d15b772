// Copyright 2025 KrakLabs
//
// SPDX-License-Identifier: AGPL-3.0-or-later

package executor

import "github.com/kraklabs/blaze/pkg/value"

// AuthDescriptor carries whatever identity-bearing credential material a
// transport needs. Exactly one of Token, SSHKeyPath, or SSHAgentSock is
// normally set; which fields are meaningful depends on the location variant
// that embeds this descriptor. Only the fields that actually discriminate
// identity feed the package id (see pkg/executor/packageid) — a credential
// that merely authenticates without changing what content is fetched (e.g.
// an SSH agent socket path, which varies per host) is deliberately excluded
// there even though it lives on this struct.
type AuthDescriptor struct {
	Token        string
	SSHKeyPath   string
	SSHAgentSock string
}

func (a AuthDescriptor) IsZero() bool {
	return a.Token == "" && a.SSHKeyPath == "" && a.SSHAgentSock == ""
}

func (a AuthDescriptor) ValueEncode() (value.Value, error) {
	return value.Object(map[string]value.Value{
		"token":        value.String(a.Token),
		"ssh_key_path": value.String(a.SSHKeyPath),
	}), nil
}
