// Copyright (c) 2026 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package netdir

import "math"

// SufficiencyFunc decides whether a partial directory is complete enough to
// build paths, given the total weighted bandwidth of usable relays and of all
// listed relays.
type SufficiencyFunc func(usable, total uint64) bool

// HalfOfBandwidth is the default SufficiencyFunc.  It requires usable relays to
// carry more than half of the total weighted bandwidth.
func HalfOfBandwidth(usable, total uint64) bool {
	return usable > total/2
}

// FractionOfBandwidth returns a SufficiencyFunc that requires usable relays to
// carry more than the provided fraction of the total weighted bandwidth.  The
// fraction is clamped to [0, 1].
func FractionOfBandwidth(frac float64) SufficiencyFunc {
	switch {
	case frac < 0 || math.IsNaN(frac):
		frac = 0
	case frac > 1:
		frac = 1
	}
	return func(usable, total uint64) bool {
		return usable > uint64(float64(total)*frac)
	}
}
