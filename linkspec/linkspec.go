// Copyright (c) 2026 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package linkspec describes relays in the terms needed to connect to them and
// extend circuits through them.
//
// It is shared by the code that selects relays, which exposes these
// interfaces, and the channel and circuit layers, which consume them.
package linkspec

import (
	"fmt"
	"net/netip"

	"github.com/c4dt/arti/netdoc"
)

// ChanTarget is a relay that a channel can be opened to.
type ChanTarget interface {
	// Addrs returns the addresses at which the relay accepts connections.
	Addrs() []netip.AddrPort

	// Ed25519Identity returns the relay's Ed25519 identity.
	Ed25519Identity() netdoc.Ed25519Identity

	// RSAIdentity returns the relay's legacy RSA identity fingerprint.
	RSAIdentity() netdoc.RSAIdentity
}

// CircTarget is a relay that a circuit can be extended to.
type CircTarget interface {
	ChanTarget

	// NtorOnionKey returns the key for the ntor handshake.
	NtorOnionKey() netdoc.NtorKey

	// Protovers returns the subprotocol versions the relay supports.
	Protovers() *netdoc.Protocols
}

// Kind identifies the type of a link specifier.  The values match the link
// specifier type codes of the EXTEND2 cell.
type Kind uint8

// These constants define the link specifier types.
const (
	KindOrPortV4  Kind = 0
	KindOrPortV6  Kind = 1
	KindRSAID     Kind = 2
	KindEd25519ID Kind = 3
)

// String returns the link specifier type as a human-readable string.
func (k Kind) String() string {
	switch k {
	case KindOrPortV4:
		return "orport-v4"
	case KindOrPortV6:
		return "orport-v6"
	case KindRSAID:
		return "rsa-id"
	case KindEd25519ID:
		return "ed25519-id"
	}
	return fmt.Sprintf("Unknown Kind (%d)", uint8(k))
}

// LinkSpec is one piece of information identifying or locating a relay when
// asking another relay to extend a circuit to it.  Only the field matching
// Kind is meaningful.
type LinkSpec struct {
	Kind     Kind
	AddrPort netip.AddrPort
	RSA      netdoc.RSAIdentity
	Ed25519  netdoc.Ed25519Identity
}

// String returns the link specifier as a human-readable string.
func (ls LinkSpec) String() string {
	switch ls.Kind {
	case KindOrPortV4, KindOrPortV6:
		return ls.Kind.String() + " " + ls.AddrPort.String()
	case KindRSAID:
		return ls.Kind.String() + " " + ls.RSA.String()
	case KindEd25519ID:
		return ls.Kind.String() + " " + ls.Ed25519.String()
	}
	return ls.Kind.String()
}

// LinkSpecsFor returns the link specifiers for a target: one per address,
// followed by its RSA and Ed25519 identities.
func LinkSpecsFor(t ChanTarget) []LinkSpec {
	addrs := t.Addrs()
	specs := make([]LinkSpec, 0, len(addrs)+2)
	for _, addr := range addrs {
		kind := KindOrPortV6
		if addr.Addr().Unmap().Is4() {
			kind = KindOrPortV4
		}
		specs = append(specs, LinkSpec{Kind: kind, AddrPort: addr})
	}
	specs = append(specs, LinkSpec{Kind: KindRSAID, RSA: t.RSAIdentity()})
	specs = append(specs, LinkSpec{Kind: KindEd25519ID, Ed25519: t.Ed25519Identity()})
	return specs
}
