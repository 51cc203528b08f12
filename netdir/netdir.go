// Copyright (c) 2026 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package netdir

import (
	"fmt"
	"iter"

	"github.com/c4dt/arti/netdoc"
)

// AssertError identifies an error that indicates an internal code consistency
// issue and should be treated as a critical and unrecoverable error.
type AssertError string

// Error returns the assertion error as a human-readable string and satisfies
// the error interface.
func (e AssertError) Error() string {
	return "assertion failed: " + string(e)
}

// panicf is a convenience function that formats according to the given format
// specifier and arguments and panics with it.
func panicf(format string, args ...interface{}) {
	panic(AssertError(fmt.Sprintf(format, args...)))
}

// NetDir is a view of the network directory that is complete enough to build
// paths.  It is immutable and safe for concurrent access.
//
// Relays and their microdescriptors are kept in parallel arrays: every relay
// listed in the consensus maps to a slot, and every distinct microdescriptor
// digest referenced by the consensus owns exactly one slot.  Slots only ever
// go from empty to filled.
type NetDir struct {
	// consensus lists the members of the network and maps each of them to
	// the digest of its microdescriptor.
	consensus *netdoc.Consensus

	// routerSlot maps the position of each relay in the consensus to the
	// slot holding its microdescriptor.
	routerSlot []int

	// slotDigests and slots are indexed by slot.  A nil entry in slots is a
	// microdescriptor that is wanted but not present.
	slotDigests []netdoc.MdDigest
	slots       []*netdoc.Microdesc

	// slotByDigest maps each referenced digest to its slot.
	slotByDigest map[netdoc.MdDigest]int

	// numMissing is the number of empty slots.
	numMissing int

	// weightFn derives the base weight of each relay from its consensus
	// weight.
	weightFn WeightFn

	// enough decides whether the directory can be used to build paths.
	enough SufficiencyFunc
}

// PartialNetDir is a network directory under construction.  It can't be
// unwrapped into a NetDir until it has enough information to build safe paths.
//
// A PartialNetDir is not safe for concurrent access.  It must not be used
// after UnwrapIfSufficient succeeds.
type PartialNetDir struct {
	netdir *NetDir
}

// NewPartialNetDir returns a PartialNetDir for the provided consensus with no
// microdescriptors loaded, using the default HalfOfBandwidth sufficiency
// policy.
func NewPartialNetDir(consensus *netdoc.Consensus) *PartialNetDir {
	return NewPartialNetDirWithPolicy(consensus, HalfOfBandwidth)
}

// NewPartialNetDirWithPolicy returns a PartialNetDir for the provided consensus
// with no microdescriptors loaded.  The provided policy decides when the
// directory is sufficient.  A nil policy selects HalfOfBandwidth.
//
// The consensus must not be modified afterwards.
func NewPartialNetDirWithPolicy(consensus *netdoc.Consensus, enough SufficiencyFunc) *PartialNetDir {
	if enough == nil {
		enough = HalfOfBandwidth
	}

	numRouters := len(consensus.Routers)
	nd := &NetDir{
		consensus:    consensus,
		routerSlot:   make([]int, numRouters),
		slotDigests:  make([]netdoc.MdDigest, 0, numRouters),
		slotByDigest: make(map[netdoc.MdDigest]int, numRouters),
		weightFn:     pickWeightFn(consensus),
		enough:       enough,
	}
	for i := range consensus.Routers {
		digest := consensus.Routers[i].MdDigest
		slot, ok := nd.slotByDigest[digest]
		if !ok {
			slot = len(nd.slotDigests)
			nd.slotDigests = append(nd.slotDigests, digest)
			nd.slotByDigest[digest] = slot
		}
		nd.routerSlot[i] = slot
	}
	nd.slots = make([]*netdoc.Microdesc, len(nd.slotDigests))
	nd.numMissing = len(nd.slots)

	log.Debugf("New partial directory with %d relays and %d microdescriptor "+
		"slots using %v weights", numRouters, len(nd.slots), nd.weightFn)

	return &PartialNetDir{netdir: nd}
}

// dir returns the directory under construction, panicking when the partial
// directory was already consumed.
func (p *PartialNetDir) dir() *NetDir {
	if p.netdir == nil {
		panicf("use of a partial directory after it was unwrapped")
	}
	return p.netdir
}

// Consensus returns the consensus the directory is built from.
func (p *PartialNetDir) Consensus() *netdoc.Consensus {
	return p.dir().consensus
}

// WeightFn returns the weighting function chosen for the consensus.
func (p *PartialNetDir) WeightFn() WeightFn {
	return p.dir().weightFn
}

// AddMicrodesc stores md if the directory wants it, returning whether it did.
//
// A microdescriptor whose digest is not referenced by the consensus is not
// stored and false is returned.  A microdescriptor for a slot that is already
// filled returns true, but the stored microdescriptor is kept.
func (p *PartialNetDir) AddMicrodesc(md *netdoc.Microdesc) bool {
	nd := p.dir()
	slot, ok := nd.slotByDigest[md.Digest]
	if !ok {
		log.Tracef("Ignoring unwanted microdescriptor %v", md.Digest)
		return false
	}
	if nd.slots[slot] != nil {
		log.Debugf("Keeping already present microdescriptor %v", md.Digest)
		return true
	}
	nd.slots[slot] = md
	nd.numMissing--
	return true
}

// MissingMicrodescs returns a sequence over the digests of every wanted
// microdescriptor that is not present yet.  Each digest appears once.  The
// sequence reflects the state of the directory at the time it is iterated and
// must not be iterated while microdescriptors are being added.
func (p *PartialNetDir) MissingMicrodescs() iter.Seq[netdoc.MdDigest] {
	return p.dir().MissingMicrodescs()
}

// NumMissing returns the number of wanted microdescriptors that are not
// present yet.
func (p *PartialNetDir) NumMissing() int {
	return p.dir().numMissing
}

// UnwrapIfSufficient returns the completed NetDir and true when the directory
// has enough information to build paths.  The partial directory is consumed
// in that case and must not be used again.  Otherwise, it returns false and
// the partial directory is left unchanged so more microdescriptors can be
// added.
func (p *PartialNetDir) UnwrapIfSufficient() (*NetDir, bool) {
	nd := p.dir()
	if !nd.haveEnoughPaths() {
		return nil, false
	}
	p.netdir = nil
	return nd, true
}

// Consensus returns the consensus the directory is built from.
func (nd *NetDir) Consensus() *netdoc.Consensus {
	return nd.consensus
}

// WeightFn returns the weighting function chosen for the consensus.
func (nd *NetDir) WeightFn() WeightFn {
	return nd.weightFn
}

// MissingMicrodescs returns a sequence over the digests of every
// microdescriptor referenced by the consensus that is not present.  Each
// digest appears once.
func (nd *NetDir) MissingMicrodescs() iter.Seq[netdoc.MdDigest] {
	return func(yield func(netdoc.MdDigest) bool) {
		for slot, md := range nd.slots {
			if md != nil {
				continue
			}
			if !yield(nd.slotDigests[slot]) {
				return
			}
		}
	}
}

// NumMissing returns the number of microdescriptors referenced by the
// consensus that are not present.
func (nd *NetDir) NumMissing() int {
	return nd.numMissing
}

// relayAt returns the possibly unusable relay at position idx of the
// consensus.
func (nd *NetDir) relayAt(idx int) uncheckedRelay {
	return uncheckedRelay{
		idx: idx,
		rs:  &nd.consensus.Routers[idx],
		md:  nd.slots[nd.routerSlot[idx]],
	}
}

// allRelays returns a sequence over every relay in the consensus, including
// the ones that can't be used.
func (nd *NetDir) allRelays() iter.Seq[uncheckedRelay] {
	return func(yield func(uncheckedRelay) bool) {
		for i := range nd.consensus.Routers {
			if !yield(nd.relayAt(i)) {
				return
			}
		}
	}
}

// Relays returns a sequence over every usable relay, in consensus order.
func (nd *NetDir) Relays() iter.Seq[Relay] {
	return func(yield func(Relay) bool) {
		for r := range nd.allRelays() {
			relay, ok := r.intoRelay()
			if !ok {
				continue
			}
			if !yield(relay) {
				return
			}
		}
	}
}

// BaseWeight returns the weight of r according to the weighting function of
// the directory, before any reweighting by the caller.
func (nd *NetDir) BaseWeight(r Relay) uint32 {
	return nd.weightFn.Apply(r.rs.Weight)
}

// bandwidthCoverage returns the total weighted bandwidth of usable relays and
// of all listed relays.
func (nd *NetDir) bandwidthCoverage() (usable, total uint64) {
	for r := range nd.allRelays() {
		w := uint64(nd.weightFn.Apply(r.rs.Weight))
		total += w
		if r.isUsable() {
			usable += w
		}
	}
	return usable, total
}

// haveEnoughPaths returns whether the directory has enough information to
// build multihop circuits.
//
// A directory that is missing no microdescriptors is always sufficient,
// provided it lists any relay at all, since fetching cannot improve it.
func (nd *NetDir) haveEnoughPaths() bool {
	if len(nd.consensus.Routers) == 0 {
		return false
	}
	if nd.numMissing == 0 {
		return true
	}
	usable, total := nd.bandwidthCoverage()
	enough := nd.enough(usable, total)
	log.Tracef("Usable weighted bandwidth %d of %d (sufficient: %v)", usable,
		total, enough)
	return enough
}
