// Copyright (c) 2026 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package netdoc

import (
	"fmt"
	"strings"
)

// ProtoKind identifies one of the subprotocols whose supported versions a relay
// advertises.
type ProtoKind uint8

// These constants define the known subprotocols.
const (
	ProtoLink ProtoKind = iota
	ProtoLinkAuth
	ProtoRelay
	ProtoDirCache
	ProtoHSDir
	ProtoHSIntro
	ProtoHSRend
	ProtoDesc
	ProtoMicrodesc
	ProtoCons
	ProtoPadding
	ProtoFlowCtrl

	// numProtoKinds is the maximum number of known subprotocols.  It MUST
	// be the last entry.
	numProtoKinds
)

// protoKindStrings is a map of subprotocols back to their names as they appear
// in protocol version advertisements.
var protoKindStrings = [numProtoKinds]string{
	ProtoLink:      "Link",
	ProtoLinkAuth:  "LinkAuth",
	ProtoRelay:     "Relay",
	ProtoDirCache:  "DirCache",
	ProtoHSDir:     "HSDir",
	ProtoHSIntro:   "HSIntro",
	ProtoHSRend:    "HSRend",
	ProtoDesc:      "Desc",
	ProtoMicrodesc: "Microdesc",
	ProtoCons:      "Cons",
	ProtoPadding:   "Padding",
	ProtoFlowCtrl:  "FlowCtrl",
}

// String returns the subprotocol name.
func (k ProtoKind) String() string {
	if k < numProtoKinds {
		return protoKindStrings[k]
	}
	return fmt.Sprintf("Unknown ProtoKind (%d)", uint8(k))
}

// MaxSubver is the highest subprotocol version that can be represented.
const MaxSubver = 63

// Protocols is the set of subprotocol versions advertised by a relay.  The
// zero value supports nothing.
type Protocols struct {
	supported [numProtoKinds]uint64
}

// Add marks versions low through high, inclusive, of the given subprotocol as
// supported.  Versions above MaxSubver and unknown kinds are ignored.
func (p *Protocols) Add(kind ProtoKind, low, high uint8) {
	if kind >= numProtoKinds {
		return
	}
	if high > MaxSubver {
		high = MaxSubver
	}
	for v := low; v <= high; v++ {
		p.supported[kind] |= 1 << v
	}
}

// SupportsSubver returns whether version ver of the given subprotocol is
// supported.
func (p *Protocols) SupportsSubver(kind ProtoKind, ver uint8) bool {
	if kind >= numProtoKinds || ver > MaxSubver {
		return false
	}
	return p.supported[kind]&(1<<ver) != 0
}

// String returns the set in the "Kind=lo-hi,v Kind=..." form used by protocol
// version advertisements.
func (p *Protocols) String() string {
	var parts []string
	for kind := ProtoKind(0); kind < numProtoKinds; kind++ {
		bits := p.supported[kind]
		if bits == 0 {
			continue
		}
		var ranges []string
		for v := 0; v <= MaxSubver; v++ {
			if bits&(1<<v) == 0 {
				continue
			}
			end := v
			for end < MaxSubver && bits&(1<<(end+1)) != 0 {
				end++
			}
			if end == v {
				ranges = append(ranges, fmt.Sprintf("%d", v))
			} else {
				ranges = append(ranges, fmt.Sprintf("%d-%d", v, end))
			}
			v = end
		}
		parts = append(parts, kind.String()+"="+strings.Join(ranges, ","))
	}
	return strings.Join(parts, " ")
}
