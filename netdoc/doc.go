// Copyright (c) 2026 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

/*
Package netdoc defines the structured records for the directory documents that
describe the relays of an anonymity network.

The records in this package are the already-parsed and already-validated form
of the documents a client fetches from directory caches: the consensus, which
lists every relay together with its status flags, weight, and the digest of
its microdescriptor, and the microdescriptors themselves, which carry the
keys and exit policy of each relay.  Parsing the textual wire format and
verifying consensus signatures happens before values of these types are
constructed, so every type here is a plain, immutable data holder.
*/
package netdoc
