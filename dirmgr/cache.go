// Copyright (c) 2026 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package dirmgr

import (
	"github.com/c4dt/arti/netdoc"
	"github.com/decred/dcrd/container/lru"
)

// MicrodescCache holds recently received microdescriptors so successive
// bootstraps don't download them again.  The least recently used entries are
// evicted once the cache is full.
//
// It is safe for concurrent access.
type MicrodescCache struct {
	mds *lru.Map[netdoc.MdDigest, *netdoc.Microdesc]
}

// NewMicrodescCache returns an empty cache holding at most limit
// microdescriptors.  A limit of zero stores nothing.
func NewMicrodescCache(limit uint32) *MicrodescCache {
	return &MicrodescCache{
		mds: lru.NewMap[netdoc.MdDigest, *netdoc.Microdesc](limit),
	}
}

// Put stores md, replacing any entry with the same digest.
func (c *MicrodescCache) Put(md *netdoc.Microdesc) {
	if n := c.mds.Put(md.Digest, md); n > 0 {
		log.Tracef("Evicted %d microdescriptors from the cache", n)
	}
}

// Get returns the stored microdescriptor with the provided digest and marks
// it as recently used.
func (c *MicrodescCache) Get(digest netdoc.MdDigest) (*netdoc.Microdesc, bool) {
	return c.mds.Get(digest)
}

// Contains returns whether a microdescriptor with the provided digest is
// stored without marking it as recently used.
func (c *MicrodescCache) Contains(digest netdoc.MdDigest) bool {
	return c.mds.Exists(digest)
}

// Len returns the number of stored microdescriptors.
func (c *MicrodescCache) Len() uint32 {
	return c.mds.Len()
}
