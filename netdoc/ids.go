// Copyright (c) 2026 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package netdoc

import (
	"encoding/base64"
	"encoding/hex"
	"strings"

	"golang.org/x/crypto/curve25519"
)

const (
	// MdDigestSize is the size of a microdescriptor digest (SHA-256).
	MdDigestSize = 32

	// RdDigestSize is the size of a router descriptor digest (SHA-1).
	RdDigestSize = 20

	// RSAIdentitySize is the size of a legacy RSA identity fingerprint.
	RSAIdentitySize = 20

	// Ed25519IdentitySize is the size of an Ed25519 identity key.
	Ed25519IdentitySize = 32
)

// MdDigest is the SHA-256 digest of a microdescriptor.  The consensus refers
// to the microdescriptor of each relay by this digest.
type MdDigest [MdDigestSize]byte

// String returns the digest as a hex string.
func (d MdDigest) String() string {
	return hex.EncodeToString(d[:])
}

// RdDigest is the SHA-1 digest of a full router descriptor.
type RdDigest [RdDigestSize]byte

// String returns the digest as a hex string.
func (d RdDigest) String() string {
	return hex.EncodeToString(d[:])
}

// RSAIdentity is the SHA-1 fingerprint of a relay's legacy RSA identity key.
type RSAIdentity [RSAIdentitySize]byte

// String returns the fingerprint in the conventional "$HEX" form.
func (id RSAIdentity) String() string {
	return "$" + strings.ToUpper(hex.EncodeToString(id[:]))
}

// Ed25519Identity is a relay's Ed25519 identity key.
type Ed25519Identity [Ed25519IdentitySize]byte

// String returns the identity as unpadded base64.
func (id Ed25519Identity) String() string {
	return base64.RawStdEncoding.EncodeToString(id[:])
}

// NtorKey is the curve25519 onion key a relay uses for the ntor circuit
// extension handshake.
type NtorKey [curve25519.PointSize]byte

// AuthCertKeyIDs identifies an authority certificate by the fingerprints of
// the authority's long-term identity key and its medium-term signing key.
type AuthCertKeyIDs struct {
	IDFingerprint RSAIdentity
	SKFingerprint RSAIdentity
}

// ConsensusFlavor identifies which variant of the consensus document is meant.
type ConsensusFlavor uint8

const (
	// FlavorMicrodesc is the consensus flavor that refers to relays by their
	// microdescriptor digests.
	FlavorMicrodesc ConsensusFlavor = iota

	// FlavorNs is the original consensus flavor that refers to relays by
	// their router descriptor digests.
	FlavorNs
)

// String returns the flavor name as used in directory requests.
func (f ConsensusFlavor) String() string {
	switch f {
	case FlavorMicrodesc:
		return "microdesc"
	case FlavorNs:
		return "ns"
	}
	return "unknown"
}
