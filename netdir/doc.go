// Copyright (c) 2026 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

/*
Package netdir provides a client's view of the relays on an anonymity network
and selects relays from it for building paths.

# Overview

A usable network directory combines a verified consensus, which lists every
relay, with the microdescriptor of each listed relay.  Microdescriptors are
fetched separately from untrusted caches, so the directory is assembled
incrementally:

  - NewPartialNetDir wraps a consensus, chooses how relays are weighted, and
    reserves one empty slot per microdescriptor digest the consensus refers
    to.
  - MissingMicrodescs reports which digests are still wanted.
  - AddMicrodesc fills the slot of a wanted digest.
  - UnwrapIfSufficient turns the partial directory into a NetDir once enough
    of the network's weighted bandwidth is covered by usable relays.

A NetDir is never modified after it is created, so it may be shared freely
between goroutines.  A PartialNetDir is not safe for concurrent access.

# Weighting

The consensus lists a bandwidth weight for each relay, which is either
measured by bandwidth authorities or merely self-reported.  The weighting
function is chosen once per consensus:

  - when no relay has a nonzero weight, every relay weighs 1
  - when no relay has a measured weight, self-reported weights are used
  - otherwise only measured weights count and relays without one weigh 0

# Selection

PickRelay chooses one usable relay at random with probability proportional to
a caller-supplied function of its weight.  It makes a single pass over the
relays and never materializes or sorts the candidates.  All randomness comes
from the provided io.Reader, so results are reproducible with a deterministic
source.

This package performs no I/O and never blocks.
*/
package netdir
