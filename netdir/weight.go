// Copyright (c) 2026 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package netdir

import (
	"fmt"

	"github.com/c4dt/arti/netdoc"
)

// WeightFn describes how the base weight of each relay is derived from the
// bandwidth weight listed for it in the consensus.  It is chosen once for a
// whole directory.
type WeightFn uint8

const (
	// WeightFnUniform weights every relay as 1.  It is used when the
	// consensus has no nonzero weights at all.
	WeightFnUniform WeightFn = iota

	// WeightFnIncludeUnmeasured uses whatever weight is listed, measured or
	// not.  It is used when the consensus has no measured weights.
	WeightFnIncludeUnmeasured

	// WeightFnMeasuredOnly uses measured weights only; relays without a
	// measured weight weigh 0.
	WeightFnMeasuredOnly
)

// String returns the weighting function as a human-readable string.
func (f WeightFn) String() string {
	switch f {
	case WeightFnUniform:
		return "uniform"
	case WeightFnIncludeUnmeasured:
		return "include-unmeasured"
	case WeightFnMeasuredOnly:
		return "measured-only"
	}
	return fmt.Sprintf("Unknown WeightFn (%d)", uint8(f))
}

// Apply returns the base weight of a relay with consensus weight w.
func (f WeightFn) Apply(w netdoc.RouterWeight) uint32 {
	switch f {
	case WeightFnUniform:
		return 1
	case WeightFnIncludeUnmeasured:
		return w.Value()
	case WeightFnMeasuredOnly:
		if w.IsMeasured() {
			return w.Value()
		}
	}
	return 0
}

// pickWeightFn returns the weighting function to use for the relays of the
// provided consensus.
func pickWeightFn(consensus *netdoc.Consensus) WeightFn {
	var hasMeasured, hasNonzero bool
	for i := range consensus.Routers {
		w := consensus.Routers[i].Weight
		hasMeasured = hasMeasured || w.IsMeasured()
		hasNonzero = hasNonzero || w.IsNonzero()
	}

	switch {
	case !hasNonzero:
		return WeightFnUniform
	case !hasMeasured:
		return WeightFnIncludeUnmeasured
	default:
		return WeightFnMeasuredOnly
	}
}
