// Copyright (c) 2026 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package docid

import (
	"fmt"
	"iter"

	"github.com/c4dt/arti/netdoc"
)

// DocQuery is a group of documents of the same kind that can be loaded or
// downloaded together.  A consensus query names a single flavor and cache
// usage; every other kind holds an ordered list of keys.
type DocQuery struct {
	kind       DocKind
	flavor     netdoc.ConsensusFlavor
	cacheUsage CacheUsage
	authCerts  []netdoc.AuthCertKeyIDs
	mds        []netdoc.MdDigest
	rds        []netdoc.RdDigest
}

// EmptyQueryFor returns a query with no members whose kind matches id.  For a
// consensus identity the query carries the flavor and cache usage of id.
func EmptyQueryFor(id DocID) *DocQuery {
	q := &DocQuery{kind: id.kind}
	if id.kind == KindLatestConsensus {
		q.flavor = id.flavor
		q.cacheUsage = id.cacheUsage
	}
	return q
}

// QueryFor returns a query holding exactly id.
func QueryFor(id DocID) *DocQuery {
	q := EmptyQueryFor(id)
	q.Push(id)
	return q
}

// Push adds id to the query.
//
// Queries are only ever built from identities of a single kind, so this
// function panics with an AssertError when the kind of id does not match the
// kind of the query.
func (q *DocQuery) Push(id DocID) {
	if id.kind != q.kind {
		panic(AssertError(fmt.Sprintf("pushed %s identity onto %s query",
			id.kind, q.kind)))
	}
	switch id.kind {
	case KindLatestConsensus:
		// A consensus query is fully described by its flavor and usage.
	case KindAuthCert:
		q.authCerts = append(q.authCerts, id.authCert)
	case KindMicrodesc:
		q.mds = append(q.mds, id.md)
	case KindRouterdesc:
		q.rds = append(q.rds, id.rd)
	}
}

// Kind returns the kind of documents in the query.
func (q *DocQuery) Kind() DocKind {
	return q.kind
}

// Len returns the number of documents the query asks for.  A consensus query
// always asks for exactly one.
func (q *DocQuery) Len() int {
	switch q.kind {
	case KindLatestConsensus:
		return 1
	case KindAuthCert:
		return len(q.authCerts)
	case KindMicrodesc:
		return len(q.mds)
	case KindRouterdesc:
		return len(q.rds)
	}
	return 0
}

// ConsensusParams returns the flavor and cache usage of a consensus query.
// The final return value is false for any other kind.
func (q *DocQuery) ConsensusParams() (netdoc.ConsensusFlavor, CacheUsage, bool) {
	return q.flavor, q.cacheUsage, q.kind == KindLatestConsensus
}

// AuthCerts returns the certificate key fingerprints in an authority
// certificate query, in the order they were added.
func (q *DocQuery) AuthCerts() []netdoc.AuthCertKeyIDs {
	return q.authCerts
}

// Microdescs returns the digests in a microdescriptor query, in the order they
// were added.
func (q *DocQuery) Microdescs() []netdoc.MdDigest {
	return q.mds
}

// Routerdescs returns the digests in a router descriptor query, in the order
// they were added.
func (q *DocQuery) Routerdescs() []netdoc.RdDigest {
	return q.rds
}

// DocIDs returns a sequence over the identity of every document in the query.
func (q *DocQuery) DocIDs() iter.Seq[DocID] {
	return func(yield func(DocID) bool) {
		switch q.kind {
		case KindLatestConsensus:
			yield(LatestConsensus(q.flavor, q.cacheUsage))
		case KindAuthCert:
			for _, ids := range q.authCerts {
				if !yield(AuthCert(ids)) {
					return
				}
			}
		case KindMicrodesc:
			for _, d := range q.mds {
				if !yield(Microdesc(d)) {
					return
				}
			}
		case KindRouterdesc:
			for _, d := range q.rds {
				if !yield(Routerdesc(d)) {
					return
				}
			}
		}
	}
}

// String returns a short human-readable summary of the query.
func (q *DocQuery) String() string {
	if q.kind == KindLatestConsensus {
		return fmt.Sprintf("latest %s consensus (%s)", q.flavor, q.cacheUsage)
	}
	noun := q.kind.String() + "s"
	if q.Len() == 1 {
		noun = q.kind.String()
	}
	return fmt.Sprintf("%d %s", q.Len(), noun)
}

// batchKey identifies the batch a DocID belongs to.  Identities with equal
// keys may share a query.
type batchKey struct {
	kind       DocKind
	flavor     netdoc.ConsensusFlavor
	cacheUsage CacheUsage
}

func batchKeyFor(id DocID) batchKey {
	k := batchKey{kind: id.kind}
	if id.kind == KindLatestConsensus {
		k.flavor = id.flavor
		k.cacheUsage = id.cacheUsage
	}
	return k
}

// Partition groups ids into the smallest set of homogeneous queries that hold
// every distinct identity exactly once, splitting any query that would exceed
// maxPerQuery members.  A maxPerQuery of zero or less means no limit.
//
// Queries are returned in the order their first member appears in ids, and
// members keep their relative order.
func Partition(ids []DocID, maxPerQuery int) []*DocQuery {
	seen := make(map[DocID]struct{}, len(ids))
	open := make(map[batchKey]*DocQuery)
	var queries []*DocQuery
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}

		key := batchKeyFor(id)
		q := open[key]
		if q == nil || (maxPerQuery > 0 && q.Len() >= maxPerQuery) {
			q = EmptyQueryFor(id)
			open[key] = q
			queries = append(queries, q)
		}
		q.Push(id)
	}
	return queries
}
