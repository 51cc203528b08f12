// Copyright (c) 2026 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package dirmgr

import (
	"github.com/c4dt/arti/docid"
	"github.com/c4dt/arti/netdoc"
)

// maxCertsPerRequest is the maximum number of authority certificates asked
// for in a single request.
const maxCertsPerRequest = 256

// ConsensusQuery returns the query for the latest consensus of the provided
// flavor.
func ConsensusQuery(flavor netdoc.ConsensusFlavor, usage docid.CacheUsage) *docid.DocQuery {
	return docid.QueryFor(docid.LatestConsensus(flavor, usage))
}

// CertQueries returns the queries for the provided authority certificates.
// Duplicates are only asked for once.
func CertQueries(ids []netdoc.AuthCertKeyIDs) []*docid.DocQuery {
	docIDs := make([]docid.DocID, 0, len(ids))
	for _, id := range ids {
		docIDs = append(docIDs, docid.AuthCert(id))
	}
	return docid.Partition(docIDs, maxCertsPerRequest)
}
