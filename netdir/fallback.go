// Copyright (c) 2026 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package netdir

import (
	"fmt"
	"net/netip"
	"slices"

	"github.com/c4dt/arti/linkspec"
	"github.com/c4dt/arti/netdoc"
)

// FallbackDir is a directory cache that is known ahead of time and used to
// fetch directory information before any consensus is available.
type FallbackDir struct {
	rsa     netdoc.RSAIdentity
	ed      netdoc.Ed25519Identity
	orPorts []netip.AddrPort
}

var _ linkspec.ChanTarget = (*FallbackDir)(nil)

// NewFallbackDir returns a fallback directory with the provided identities
// and addresses.
func NewFallbackDir(rsa netdoc.RSAIdentity, ed netdoc.Ed25519Identity, orPorts ...netip.AddrPort) *FallbackDir {
	return &FallbackDir{
		rsa:     rsa,
		ed:      ed,
		orPorts: slices.Clone(orPorts),
	}
}

// Addrs returns the addresses at which the fallback accepts connections.
func (f *FallbackDir) Addrs() []netip.AddrPort {
	return f.orPorts
}

// Ed25519Identity returns the Ed25519 identity of the fallback.
func (f *FallbackDir) Ed25519Identity() netdoc.Ed25519Identity {
	return f.ed
}

// RSAIdentity returns the legacy RSA identity fingerprint of the fallback.
func (f *FallbackDir) RSAIdentity() netdoc.RSAIdentity {
	return f.rsa
}

// String returns the fallback as a human-readable string.
func (f *FallbackDir) String() string {
	return fmt.Sprintf("fallback %v", f.rsa)
}
