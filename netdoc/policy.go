// Copyright (c) 2026 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package netdoc

import (
	"fmt"
	"sort"
	"strings"
)

// PortRange is an inclusive range of ports.
type PortRange struct {
	Low  uint16
	High uint16
}

// Contains returns whether port falls in the range.
func (r PortRange) Contains(port uint16) bool {
	return r.Low <= port && port <= r.High
}

// String returns the range as "lo-hi", or a single port when the range holds
// exactly one.
func (r PortRange) String() string {
	if r.Low == r.High {
		return fmt.Sprintf("%d", r.Low)
	}
	return fmt.Sprintf("%d-%d", r.Low, r.High)
}

// PortPolicy is the summarized exit policy of a relay as carried in its
// microdescriptor.  It is stored as a sorted, non-overlapping list of allowed
// port ranges regardless of whether it was written as an accept or a reject
// list.  The zero value allows no ports.
type PortPolicy struct {
	allowed []PortRange
}

// normalizeRanges sorts the provided ranges, drops empty ones along with port
// 0, and merges overlapping or adjacent ranges.
func normalizeRanges(ranges []PortRange) []PortRange {
	rs := make([]PortRange, 0, len(ranges))
	for _, r := range ranges {
		if r.Low == 0 {
			r.Low = 1
		}
		if r.Low > r.High {
			continue
		}
		rs = append(rs, r)
	}
	sort.Slice(rs, func(i, j int) bool { return rs[i].Low < rs[j].Low })

	merged := rs[:0]
	for _, r := range rs {
		if n := len(merged); n > 0 {
			last := &merged[n-1]
			if uint32(r.Low) <= uint32(last.High)+1 {
				if r.High > last.High {
					last.High = r.High
				}
				continue
			}
		}
		merged = append(merged, r)
	}
	return merged
}

// NewAcceptPolicy returns a policy allowing exactly the provided ports.
func NewAcceptPolicy(ranges ...PortRange) PortPolicy {
	return PortPolicy{allowed: normalizeRanges(ranges)}
}

// NewRejectPolicy returns a policy allowing every port except the provided
// ones.
func NewRejectPolicy(ranges ...PortRange) PortPolicy {
	rejected := normalizeRanges(ranges)
	var allowed []PortRange
	next := uint32(1)
	for _, r := range rejected {
		if uint32(r.Low) > next {
			allowed = append(allowed, PortRange{uint16(next), r.Low - 1})
		}
		next = uint32(r.High) + 1
	}
	if next <= 65535 {
		allowed = append(allowed, PortRange{uint16(next), 65535})
	}
	return PortPolicy{allowed: allowed}
}

// AllowsPort returns whether the policy allows exiting to port.
func (p *PortPolicy) AllowsPort(port uint16) bool {
	i := sort.Search(len(p.allowed), func(i int) bool {
		return p.allowed[i].High >= port
	})
	return i < len(p.allowed) && p.allowed[i].Contains(port)
}

// AllowsSomePort returns whether the policy allows any port at all.
func (p *PortPolicy) AllowsSomePort() bool {
	return len(p.allowed) > 0
}

// String returns the policy as an "accept" list.
func (p *PortPolicy) String() string {
	if len(p.allowed) == 0 {
		return "reject 1-65535"
	}
	parts := make([]string, 0, len(p.allowed))
	for _, r := range p.allowed {
		parts = append(parts, r.String())
	}
	return "accept " + strings.Join(parts, ",")
}
