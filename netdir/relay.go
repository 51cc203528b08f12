// Copyright (c) 2026 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package netdir

import (
	"fmt"
	"net/netip"

	"github.com/c4dt/arti/linkspec"
	"github.com/c4dt/arti/netdoc"
)

// minDirCacheSubver is the lowest DirCache subprotocol version a relay must
// support to serve microdescriptors and consensus diffs.
const minDirCacheSubver = 2

// uncheckedRelay is a relay listed in the consensus that may lack a
// microdescriptor or an agreed upon Ed25519 identity.
type uncheckedRelay struct {
	idx int
	rs  *netdoc.RouterStatus
	md  *netdoc.Microdesc
}

// isUsable returns whether the relay has everything needed to build circuits
// through it.
func (r uncheckedRelay) isUsable() bool {
	return r.md != nil && r.rs.Ed25519IDIsUsable()
}

// intoRelay returns the relay as a usable Relay when it is one.
func (r uncheckedRelay) intoRelay() (Relay, bool) {
	if !r.isUsable() {
		return Relay{}, false
	}
	return Relay(r), true
}

// Relay is a usable relay of a NetDir: it is listed in the consensus and its
// microdescriptor is present.  A Relay is only valid together with the NetDir
// it was obtained from.
type Relay struct {
	idx int
	rs  *netdoc.RouterStatus
	md  *netdoc.Microdesc
}

var _ linkspec.CircTarget = Relay{}

// RouterStatus returns the consensus entry of the relay.
func (r Relay) RouterStatus() *netdoc.RouterStatus {
	return r.rs
}

// Microdesc returns the microdescriptor of the relay.
func (r Relay) Microdesc() *netdoc.Microdesc {
	return r.md
}

// Addrs returns the addresses at which the relay accepts connections.
func (r Relay) Addrs() []netip.AddrPort {
	return r.rs.Addrs
}

// Ed25519Identity returns the Ed25519 identity of the relay.
func (r Relay) Ed25519Identity() netdoc.Ed25519Identity {
	return r.md.Ed25519ID
}

// RSAIdentity returns the legacy RSA identity fingerprint of the relay.
func (r Relay) RSAIdentity() netdoc.RSAIdentity {
	return r.rs.RSAIdentity
}

// NtorOnionKey returns the ntor onion key of the relay.
func (r Relay) NtorOnionKey() netdoc.NtorKey {
	return r.md.NtorKey
}

// Protovers returns the subprotocol versions the relay supports.
func (r Relay) Protovers() *netdoc.Protocols {
	return &r.rs.Protos
}

// SameRelay returns whether r and other have the same Ed25519 and RSA
// identities.
func (r Relay) SameRelay(other Relay) bool {
	return r.Ed25519Identity() == other.Ed25519Identity() &&
		r.RSAIdentity() == other.RSAIdentity()
}

// SupportsExitPort returns whether the relay is willing to exit to the
// provided IPv4 port.  Relays flagged as bad exits never are.
func (r Relay) SupportsExitPort(port uint16) bool {
	return !r.rs.IsFlaggedBadExit() && r.md.IPv4Policy.AllowsPort(port)
}

// IsDirCache returns whether the relay can be used to fetch directory
// information.
func (r Relay) IsDirCache() bool {
	return r.rs.IsFlaggedV2Dir() &&
		r.rs.Protos.SupportsSubver(netdoc.ProtoDirCache, minDirCacheSubver)
}

// String returns the relay as a human-readable string.
func (r Relay) String() string {
	return fmt.Sprintf("%s (%v)", r.rs.Nickname, r.rs.RSAIdentity)
}
