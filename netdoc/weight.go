// Copyright (c) 2026 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package netdoc

import "fmt"

// WeightKind describes where a relay's bandwidth weight came from.
type WeightKind uint8

const (
	// WeightAbsent indicates the consensus carries no weight for the relay.
	WeightAbsent WeightKind = iota

	// WeightUnmeasured indicates the weight is only self-reported by the
	// relay.
	WeightUnmeasured

	// WeightMeasured indicates the weight was measured by bandwidth
	// authorities.
	WeightMeasured
)

// RouterWeight is the bandwidth weight listed for a relay in the consensus,
// tagged with whether or not it was measured.
type RouterWeight struct {
	kind  WeightKind
	value uint32
}

// MeasuredWeight returns a weight measured by the bandwidth authorities.
func MeasuredWeight(v uint32) RouterWeight {
	return RouterWeight{kind: WeightMeasured, value: v}
}

// UnmeasuredWeight returns a self-reported weight.
func UnmeasuredWeight(v uint32) RouterWeight {
	return RouterWeight{kind: WeightUnmeasured, value: v}
}

// Kind returns the origin of the weight.
func (w RouterWeight) Kind() WeightKind {
	return w.kind
}

// Value returns the weight value.  It is zero for an absent weight.
func (w RouterWeight) Value() uint32 {
	return w.value
}

// IsMeasured returns whether the weight was measured.
func (w RouterWeight) IsMeasured() bool {
	return w.kind == WeightMeasured
}

// IsNonzero returns whether the weight is present and nonzero.
func (w RouterWeight) IsNonzero() bool {
	return w.kind != WeightAbsent && w.value != 0
}

// String returns a human-readable form of the weight.
func (w RouterWeight) String() string {
	switch w.kind {
	case WeightMeasured:
		return fmt.Sprintf("measured(%d)", w.value)
	case WeightUnmeasured:
		return fmt.Sprintf("unmeasured(%d)", w.value)
	}
	return "absent"
}
