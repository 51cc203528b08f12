// Copyright (c) 2026 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package uniform

import (
	"testing"

	"github.com/c4dt/arti/internal/testrand"
)

// TestUint32Range ensures values drawn from a range always fall inside it and
// that single-valued ranges always produce their only value.
func TestUint32Range(t *testing.T) {
	rand := testrand.New(1)
	tests := []struct {
		name      string
		low, high uint32
	}{
		{name: "single value", low: 1000, high: 1001},
		{name: "small range", low: 1000, high: 4500},
		{name: "full upper range", low: 1000, high: ^uint32(0)},
		{name: "from zero", low: 0, high: 3},
	}

	for _, test := range tests {
		for i := 0; i < 1000; i++ {
			v := Uint32Range(rand, test.low, test.high)
			if v < test.low || v >= test.high {
				t.Fatalf("%q: value %d outside [%d,%d)", test.name, v,
					test.low, test.high)
			}
		}
	}
}

// TestUint64nCoverage ensures every value of a small range is eventually
// produced.
func TestUint64nCoverage(t *testing.T) {
	rand := testrand.New(2)
	var seen [5]bool
	for i := 0; i < 1000; i++ {
		seen[Uint64n(rand, uint64(len(seen)))] = true
	}
	for v, ok := range seen {
		if !ok {
			t.Errorf("value %d never produced", v)
		}
	}
}

// TestUint32RangeEmptyPanics ensures an empty range is rejected.
func TestUint32RangeEmptyPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("Uint32Range did not panic on an empty range")
		}
	}()
	Uint32Range(testrand.New(3), 5, 5)
}
