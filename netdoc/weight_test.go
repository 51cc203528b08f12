// Copyright (c) 2026 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package netdoc

import "testing"

// TestRouterWeight ensures weights report their kind and value.
func TestRouterWeight(t *testing.T) {
	tests := []struct {
		weight   RouterWeight
		kind     WeightKind
		value    uint32
		measured bool
		nonzero  bool
		str      string
	}{
		{RouterWeight{}, WeightAbsent, 0, false, false, "absent"},
		{UnmeasuredWeight(0), WeightUnmeasured, 0, false, false, "unmeasured(0)"},
		{UnmeasuredWeight(20), WeightUnmeasured, 20, false, true, "unmeasured(20)"},
		{MeasuredWeight(0), WeightMeasured, 0, true, false, "measured(0)"},
		{MeasuredWeight(7), WeightMeasured, 7, true, true, "measured(7)"},
	}

	for _, test := range tests {
		w := test.weight
		if w.Kind() != test.kind || w.Value() != test.value {
			t.Errorf("%v: unexpected kind/value %d/%d", w, w.Kind(), w.Value())
		}
		if w.IsMeasured() != test.measured {
			t.Errorf("%v: unexpected IsMeasured %v", w, w.IsMeasured())
		}
		if w.IsNonzero() != test.nonzero {
			t.Errorf("%v: unexpected IsNonzero %v", w, w.IsNonzero())
		}
		if w.String() != test.str {
			t.Errorf("unexpected string -- got %q, want %q", w.String(),
				test.str)
		}
	}
}

// TestIdentityStrings ensures identities and digests use their conventional
// textual forms.
func TestIdentityStrings(t *testing.T) {
	var rsa RSAIdentity
	rsa[0], rsa[19] = 0xab, 0x01
	if got, want := rsa.String(), "$AB00000000000000000000000000000000000001"; got != want {
		t.Errorf("unexpected RSA identity string -- got %q, want %q", got, want)
	}

	var ed Ed25519Identity
	if got, want := ed.String(), "AAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAA"; got != want {
		t.Errorf("unexpected Ed25519 identity string -- got %q, want %q", got,
			want)
	}

	var md MdDigest
	md[31] = 0xff
	if got := md.String(); len(got) != 64 || got[62:] != "ff" {
		t.Errorf("unexpected digest string %q", got)
	}

	if FlavorMicrodesc.String() != "microdesc" || FlavorNs.String() != "ns" {
		t.Error("unexpected flavor names")
	}
}
