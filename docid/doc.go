// Copyright (c) 2026 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

/*
Package docid names individual directory documents and groups them into
batches that can be requested from a directory cache together.

A DocID identifies exactly one document: the latest consensus of a given
flavor, an authority certificate, a microdescriptor, or a router descriptor.
DocIDs are comparable, so they can be used directly as map keys to track which
documents are wanted, pending, or already present.

A DocQuery is a homogeneous batch of DocIDs of the same kind.  Batches are only
ever built internally from homogeneous sources, so adding a DocID of a
different kind to a batch is a programming error and panics.  Partition groups
an arbitrary list of wanted DocIDs into the smallest set of batches.
*/
package docid
