// Copyright (c) 2026 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package netdir

import (
	"io"
	"iter"

	"github.com/c4dt/arti/internal/uniform"
	"github.com/jrick/bitset"
)

// pickWeighted chooses one element of seq with probability proportional to its
// weight using a single pass of weighted reservoir sampling.  Elements of zero
// weight are never chosen.  It returns false when every weight is zero.
func pickWeighted[T any](rand io.Reader, seq iter.Seq[T], weight func(T) uint32) (T, bool) {
	var chosen T
	var found bool
	var total uint64
	for item := range seq {
		w := uint64(weight(item))
		if w == 0 {
			continue
		}
		total += w
		if uniform.Uint64n(rand, total) < w {
			chosen, found = item, true
		}
	}
	return chosen, found
}

// PickRelay chooses a usable relay at random with probability proportional to
// its weight.  The weight of each relay is its base weight passed through
// reweight, which may be nil to use the base weight unchanged.  Returning 0
// from reweight excludes a relay.
//
// It returns false when no usable relay has a nonzero weight.
func (nd *NetDir) PickRelay(rand io.Reader, reweight func(Relay, uint32) uint32) (Relay, bool) {
	return pickWeighted(rand, nd.Relays(), nd.weigher(reweight))
}

// PickNRelays chooses up to n distinct usable relays at random.  Each relay is
// chosen with probability proportional to its weight among the relays not
// chosen yet.  Fewer than n relays are returned when fewer than n usable
// relays have a nonzero weight.
func (nd *NetDir) PickNRelays(rand io.Reader, n int, reweight func(Relay, uint32) uint32) []Relay {
	if n <= 0 {
		return nil
	}

	weight := nd.weigher(reweight)
	chosen := bitset.NewBytes(len(nd.consensus.Routers))
	remaining := func(yield func(Relay) bool) {
		for r := range nd.Relays() {
			if chosen.Get(r.idx) {
				continue
			}
			if !yield(r) {
				return
			}
		}
	}

	relays := make([]Relay, 0, n)
	for len(relays) < n {
		r, ok := pickWeighted(rand, remaining, weight)
		if !ok {
			break
		}
		chosen.Set(r.idx)
		relays = append(relays, r)
	}
	if len(relays) < n {
		log.Debugf("Only %d of %d requested relays could be chosen",
			len(relays), n)
	}
	return relays
}

// weigher returns the weight function used for selecting relays.
func (nd *NetDir) weigher(reweight func(Relay, uint32) uint32) func(Relay) uint32 {
	if reweight == nil {
		return nd.BaseWeight
	}
	return func(r Relay) uint32 {
		return reweight(r, nd.BaseWeight(r))
	}
}
