// Copyright (c) 2026 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package retry

import (
	"io"
	"math"
	"math/bits"
	"time"

	"github.com/c4dt/arti/internal/uniform"
)

const (
	// minLowBound is the lowest allowed floor for retry delays, in
	// milliseconds.  Configured floors below it are raised to it so that
	// caches are never retried more than once a second.
	minLowBound = 1000

	// maxLowBound is the highest allowed floor for retry delays, in
	// milliseconds.  It leaves room for at least one value above the floor.
	maxLowBound = math.MaxUint32 - 1

	// maxDelayMult is the factor by which the previous delay bounds the
	// next one.
	maxDelayMult = 3
)

// Delay produces the sequence of delays for one series of retries.
//
// A Delay is not safe for concurrent access, and it must not be shared between
// separate retry series.  It cannot be reset; start a new series with a fresh
// Delay instead.
type Delay struct {
	// lastDelayMs is the last delay returned, in milliseconds, or 0 when no
	// delay has been returned yet.
	lastDelayMs uint32

	// lowBoundMs is the lowest delay that may be returned, in milliseconds.
	lowBoundMs uint32
}

// NewDelay returns a Delay whose delays are never shorter than baseDelayMsec
// milliseconds.  Values below one second are raised to one second.
func NewDelay(baseDelayMsec uint32) *Delay {
	lowBound := baseDelayMsec
	if lowBound < minLowBound {
		lowBound = minLowBound
	}
	if lowBound > maxLowBound {
		lowBound = maxLowBound
	}
	return &Delay{lowBoundMs: lowBound}
}

// DelayFromDuration returns a Delay whose delays are never shorter than d.
// See NewDelay for details.
func DelayFromDuration(d time.Duration) *Delay {
	msec := d.Milliseconds()
	switch {
	case msec < 0:
		msec = 0
	case msec > maxLowBound:
		msec = maxLowBound
	}
	return NewDelay(uint32(msec))
}

// saturatingMul32 returns a*b, or math.MaxUint32 when the product overflows.
func saturatingMul32(a, b uint32) uint32 {
	hi, lo := bits.Mul32(a, b)
	if hi != 0 {
		return math.MaxUint32
	}
	return lo
}

// bounds returns the half-open range [low, high) the next delay is drawn
// from.
func (d *Delay) bounds() (uint32, uint32) {
	low := d.lowBoundMs

	// low never exceeds maxLowBound, so low+1 cannot overflow.
	high := saturatingMul32(d.lastDelayMs, maxDelayMult)
	if high < low+1 {
		high = low + 1
	}
	return low, high
}

// NextMsec returns the next delay in milliseconds using randomness read from
// rand.
func (d *Delay) NextMsec(rand io.Reader) uint32 {
	low, high := d.bounds()
	val := uniform.Uint32Range(rand, low, high)
	d.lastDelayMs = val
	return val
}

// Next returns the next delay using randomness read from rand.
func (d *Delay) Next(rand io.Reader) time.Duration {
	return time.Duration(d.NextMsec(rand)) * time.Millisecond
}
