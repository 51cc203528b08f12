// Copyright (c) 2026 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package docid

import (
	"fmt"

	"github.com/c4dt/arti/netdoc"
)

// DocKind identifies the kind of document a DocID or DocQuery refers to.
type DocKind uint8

// These constants define the document kinds.
const (
	KindLatestConsensus DocKind = iota
	KindAuthCert
	KindMicrodesc
	KindRouterdesc
)

// String returns the document kind as a human-readable string.
func (k DocKind) String() string {
	switch k {
	case KindLatestConsensus:
		return "consensus"
	case KindAuthCert:
		return "authcert"
	case KindMicrodesc:
		return "microdesc"
	case KindRouterdesc:
		return "routerdesc"
	}
	return fmt.Sprintf("Unknown DocKind (%d)", uint8(k))
}

// CacheUsage describes how a bootstrap attempt may use cached consensus
// documents.  It only affects lookups of the latest consensus.
type CacheUsage uint8

const (
	// CacheOnly means the attempt only uses the cache.  A pending consensus
	// must not be loaded, since there would be no way to find the rest of
	// the information needed to make it usable.
	CacheOnly CacheUsage = iota

	// CacheOkay means the attempt may use the cache or download.  The latest
	// cached consensus is wanted, whether it is pending or not.
	CacheOkay

	// MustDownload means the attempt is fetching a new consensus, so no
	// cached consensus is wanted at all.
	MustDownload
)

// String returns the cache usage as a human-readable string.
func (u CacheUsage) String() string {
	switch u {
	case CacheOnly:
		return "cache-only"
	case CacheOkay:
		return "cache-okay"
	case MustDownload:
		return "must-download"
	}
	return fmt.Sprintf("Unknown CacheUsage (%d)", uint8(u))
}

// DocID identifies a single document in enough detail to load it from storage
// or request it from a cache.  The zero value identifies the latest
// microdescriptor consensus with CacheOnly usage.
//
// DocID is comparable and may be used as a map key.
type DocID struct {
	kind       DocKind
	flavor     netdoc.ConsensusFlavor
	cacheUsage CacheUsage
	authCert   netdoc.AuthCertKeyIDs
	md         netdoc.MdDigest
	rd         netdoc.RdDigest
}

// LatestConsensus returns the identity of the most recent consensus of the
// given flavor, to be loaded according to usage.
func LatestConsensus(flavor netdoc.ConsensusFlavor, usage CacheUsage) DocID {
	return DocID{kind: KindLatestConsensus, flavor: flavor, cacheUsage: usage}
}

// AuthCert returns the identity of the authority certificate with the given
// key fingerprints.
func AuthCert(ids netdoc.AuthCertKeyIDs) DocID {
	return DocID{kind: KindAuthCert, authCert: ids}
}

// Microdesc returns the identity of the microdescriptor with the given
// digest.
func Microdesc(d netdoc.MdDigest) DocID {
	return DocID{kind: KindMicrodesc, md: d}
}

// Routerdesc returns the identity of the router descriptor with the given
// digest.
func Routerdesc(d netdoc.RdDigest) DocID {
	return DocID{kind: KindRouterdesc, rd: d}
}

// Kind returns the kind of document identified.
func (id DocID) Kind() DocKind {
	return id.kind
}

// ConsensusParams returns the flavor and cache usage of a consensus identity.
// The final return value is false for any other kind.
func (id DocID) ConsensusParams() (netdoc.ConsensusFlavor, CacheUsage, bool) {
	return id.flavor, id.cacheUsage, id.kind == KindLatestConsensus
}

// AuthCertKeyIDs returns the key fingerprints of an authority certificate
// identity.  The final return value is false for any other kind.
func (id DocID) AuthCertKeyIDs() (netdoc.AuthCertKeyIDs, bool) {
	return id.authCert, id.kind == KindAuthCert
}

// MdDigest returns the digest of a microdescriptor identity.  The final return
// value is false for any other kind.
func (id DocID) MdDigest() (netdoc.MdDigest, bool) {
	return id.md, id.kind == KindMicrodesc
}

// RdDigest returns the digest of a router descriptor identity.  The final
// return value is false for any other kind.
func (id DocID) RdDigest() (netdoc.RdDigest, bool) {
	return id.rd, id.kind == KindRouterdesc
}

// String returns the identity as a human-readable string.
func (id DocID) String() string {
	switch id.kind {
	case KindLatestConsensus:
		return fmt.Sprintf("latest %s consensus (%s)", id.flavor, id.cacheUsage)
	case KindAuthCert:
		return fmt.Sprintf("authcert %s/%s", id.authCert.IDFingerprint,
			id.authCert.SKFingerprint)
	case KindMicrodesc:
		return "microdesc " + id.md.String()
	case KindRouterdesc:
		return "routerdesc " + id.rd.String()
	}
	return id.kind.String()
}
