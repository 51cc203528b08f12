// Copyright (c) 2026 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package netdoc

import (
	"net/netip"
	"time"
)

// RelayFlags is a bit field of the status flags the consensus assigns to a
// relay.
type RelayFlags uint16

const (
	// FlagAuthority marks a directory authority.
	FlagAuthority RelayFlags = 1 << iota

	// FlagBadExit marks a relay that should not be used as an exit.
	FlagBadExit

	// FlagExit marks a relay that is suitable as an exit.
	FlagExit

	// FlagFast marks a relay that is suitable for high-bandwidth circuits.
	FlagFast

	// FlagGuard marks a relay that is suitable as an entry guard.
	FlagGuard

	// FlagHSDir marks a relay that is an onion service directory.
	FlagHSDir

	// FlagNoEdConsensus marks a relay whose Ed25519 identity the
	// authorities did not agree on.
	FlagNoEdConsensus

	// FlagRunning marks a relay that is currently reachable.
	FlagRunning

	// FlagStable marks a relay that is suitable for long-lived circuits.
	FlagStable

	// FlagStaleDesc marks a relay whose descriptor is out of date.
	FlagStaleDesc

	// FlagV2Dir marks a relay that serves directory information.
	FlagV2Dir

	// FlagValid marks a relay that has been validated.
	FlagValid
)

// RouterStatus is a single relay entry of a microdescriptor consensus.
type RouterStatus struct {
	// Nickname is the relay's self-chosen, non-unique name.
	Nickname string

	// RSAIdentity is the fingerprint of the relay's legacy identity key.
	RSAIdentity RSAIdentity

	// Addrs are the addresses and OR ports the relay listens on.
	Addrs []netip.AddrPort

	// MdDigest is the digest of the relay's microdescriptor.
	MdDigest MdDigest

	// Flags are the status flags assigned by the authorities.
	Flags RelayFlags

	// Weight is the relay's bandwidth weight.
	Weight RouterWeight

	// Protos are the subprotocol versions the relay advertises.
	Protos Protocols

	// Version is the software version the relay reports, if any.
	Version string
}

// IsFlagged returns whether all of the provided flags are set.
func (rs *RouterStatus) IsFlagged(flags RelayFlags) bool {
	return rs.Flags&flags == flags
}

// IsFlaggedBadExit returns whether the relay is marked as a bad exit.
func (rs *RouterStatus) IsFlaggedBadExit() bool {
	return rs.IsFlagged(FlagBadExit)
}

// IsFlaggedV2Dir returns whether the relay is marked as serving directory
// information.
func (rs *RouterStatus) IsFlaggedV2Dir() bool {
	return rs.IsFlagged(FlagV2Dir)
}

// Ed25519IDIsUsable returns whether the Ed25519 identity in the relay's
// microdescriptor can be trusted, which is the case unless the authorities
// failed to agree on it.
func (rs *RouterStatus) Ed25519IDIsUsable() bool {
	return !rs.IsFlagged(FlagNoEdConsensus)
}

// Microdesc is a relay's microdescriptor.
type Microdesc struct {
	// Digest is the SHA-256 digest of the document text.
	Digest MdDigest

	// Ed25519ID is the relay's Ed25519 identity key.
	Ed25519ID Ed25519Identity

	// NtorKey is the relay's curve25519 onion key.
	NtorKey NtorKey

	// IPv4Policy and IPv6Policy summarize the relay's exit policies.
	IPv4Policy PortPolicy
	IPv6Policy PortPolicy

	// Family lists the relays that declare themselves operated by the same
	// party.
	Family []RSAIdentity
}

// Consensus is a verified microdescriptor consensus.
type Consensus struct {
	// Flavor is the consensus flavor.
	Flavor ConsensusFlavor

	// ValidAfter, FreshUntil and ValidUntil bound the consensus lifetime.
	ValidAfter time.Time
	FreshUntil time.Time
	ValidUntil time.Time

	// Routers lists every relay in the consensus in document order.
	Routers []RouterStatus

	// Params are the network parameters voted on by the authorities.
	Params map[string]int32
}

// IsLive returns whether the consensus is within its validity interval at the
// provided time.
func (c *Consensus) IsLive(now time.Time) bool {
	return !now.Before(c.ValidAfter) && now.Before(c.ValidUntil)
}
