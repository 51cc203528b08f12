// Copyright (c) 2026 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"io"
	"net/netip"
	"time"

	"github.com/c4dt/arti/dirmgr"
	"github.com/c4dt/arti/internal/uniform"
	"github.com/c4dt/arti/netdir"
	"github.com/c4dt/arti/netdoc"
)

const (
	numAuthorities = 3
	numFallbacks   = 3

	// minRelayWeight and maxRelayWeight bound the bandwidth weight of the
	// synthetic relays.
	minRelayWeight = 20
	maxRelayWeight = 100000

	// fastWeight is the weight above which relays are flagged as fast.
	fastWeight = 1000
)

// rejectedExitPorts are the ports rejected by the relays that use a reject
// exit policy.
var rejectedExitPorts = []netdoc.PortRange{
	{Low: 25, High: 25},
	{Low: 119, High: 119},
	{Low: 135, High: 139},
	{Low: 445, High: 445},
	{Low: 563, High: 563},
	{Low: 1214, High: 1214},
	{Low: 4661, High: 4666},
	{Low: 6346, High: 6429},
	{Low: 6699, High: 6699},
	{Low: 6881, High: 6999},
}

// syntheticNetwork is a generated network along with every document the
// simulated directory caches serve.
type syntheticNetwork struct {
	consensus   *netdoc.Consensus
	mds         map[netdoc.MdDigest]*netdoc.Microdesc
	authorities []dirmgr.Authority
	certs       []netdoc.AuthCertKeyIDs
	fallbacks   []*netdir.FallbackDir
}

// readRandom fills b from rand.
func readRandom(rand io.Reader, b []byte) {
	if _, err := io.ReadFull(rand, b); err != nil {
		panic(fmt.Sprintf("random source failed: %v", err))
	}
}

// percent returns true with the provided probability in percent.
func percent(rand io.Reader, pct int) bool {
	return int(uniform.Uint32n(rand, 100)) < pct
}

// newSyntheticNetwork generates a network of numRelays relays whose consensus
// becomes valid at the provided time.  Roughly measuredPct percent of the
// relays have a measured weight.
func newSyntheticNetwork(rand io.Reader, numRelays, measuredPct int, validAfter time.Time) *syntheticNetwork {
	sn := &syntheticNetwork{
		mds: make(map[netdoc.MdDigest]*netdoc.Microdesc, numRelays),
	}

	routers := make([]netdoc.RouterStatus, 0, numRelays)
	for i := 0; i < numRelays; i++ {
		rs, md := syntheticRelay(rand, i, measuredPct)
		routers = append(routers, rs)
		sn.mds[md.Digest] = md
	}
	sn.consensus = &netdoc.Consensus{
		Flavor:     netdoc.FlavorMicrodesc,
		ValidAfter: validAfter,
		FreshUntil: validAfter.Add(time.Hour),
		ValidUntil: validAfter.Add(3 * time.Hour),
		Routers:    routers,
		Params:     map[string]int32{"bwweightscale": 10000},
	}

	for i := 0; i < numAuthorities; i++ {
		auth := dirmgr.Authority{Name: fmt.Sprintf("simauth%d", i)}
		readRandom(rand, auth.V3Ident[:])
		cert := netdoc.AuthCertKeyIDs{IDFingerprint: auth.V3Ident}
		readRandom(rand, cert.SKFingerprint[:])
		sn.authorities = append(sn.authorities, auth)
		sn.certs = append(sn.certs, cert)
	}

	for i := 0; i < numFallbacks; i++ {
		var rsa netdoc.RSAIdentity
		var ed netdoc.Ed25519Identity
		readRandom(rand, rsa[:])
		readRandom(rand, ed[:])
		addr := netip.AddrPortFrom(netip.AddrFrom4([4]byte{192, 0, 2, byte(i + 1)}), 443)
		sn.fallbacks = append(sn.fallbacks, netdir.NewFallbackDir(rsa, ed, addr))
	}

	return sn
}

// syntheticRelay generates the consensus entry and microdescriptor of the
// relay at position idx.
func syntheticRelay(rand io.Reader, idx, measuredPct int) (netdoc.RouterStatus, *netdoc.Microdesc) {
	md := &netdoc.Microdesc{}
	readRandom(rand, md.Digest[:])
	readRandom(rand, md.Ed25519ID[:])
	readRandom(rand, md.NtorKey[:])

	rs := netdoc.RouterStatus{
		Nickname: fmt.Sprintf("sim%05d", idx),
		MdDigest: md.Digest,
		Flags:    netdoc.FlagRunning | netdoc.FlagValid,
		Version:  "Tor 0.4.8.12",
	}
	readRandom(rand, rs.RSAIdentity[:])

	v4 := netip.AddrFrom4([4]byte{10, byte(idx >> 16), byte(idx >> 8), byte(idx)})
	rs.Addrs = append(rs.Addrs, netip.AddrPortFrom(v4, 9001))
	if percent(rand, 20) {
		var v6 [16]byte
		v6[0], v6[1] = 0xfd, 0x00
		v6[13], v6[14], v6[15] = byte(idx>>16), byte(idx>>8), byte(idx)
		rs.Addrs = append(rs.Addrs, netip.AddrPortFrom(netip.AddrFrom16(v6), 9001))
	}

	weight := uniform.Uint32Range(rand, minRelayWeight, maxRelayWeight)
	if percent(rand, measuredPct) {
		rs.Weight = netdoc.MeasuredWeight(weight)
	} else {
		rs.Weight = netdoc.UnmeasuredWeight(weight)
	}
	if weight > fastWeight {
		rs.Flags |= netdoc.FlagFast
	}
	if percent(rand, 50) {
		rs.Flags |= netdoc.FlagStable
	}
	if percent(rand, 20) {
		rs.Flags |= netdoc.FlagGuard
	}
	if percent(rand, 1) {
		rs.Flags |= netdoc.FlagNoEdConsensus
	}

	rs.Protos.Add(netdoc.ProtoLink, 1, 5)
	rs.Protos.Add(netdoc.ProtoLinkAuth, 1, 3)
	rs.Protos.Add(netdoc.ProtoRelay, 1, 4)
	rs.Protos.Add(netdoc.ProtoMicrodesc, 1, 2)
	rs.Protos.Add(netdoc.ProtoCons, 1, 2)
	if percent(rand, 30) {
		rs.Flags |= netdoc.FlagV2Dir
		rs.Protos.Add(netdoc.ProtoDirCache, 1, 2)
	}

	switch {
	case percent(rand, 15):
		rs.Flags |= netdoc.FlagExit
		md.IPv4Policy = netdoc.NewRejectPolicy(rejectedExitPorts...)
		md.IPv6Policy = md.IPv4Policy
	case percent(rand, 10):
		rs.Flags |= netdoc.FlagExit
		md.IPv4Policy = netdoc.NewAcceptPolicy(
			netdoc.PortRange{Low: 80, High: 80},
			netdoc.PortRange{Low: 443, High: 443},
		)
	}
	if rs.IsFlagged(netdoc.FlagExit) && percent(rand, 2) {
		rs.Flags |= netdoc.FlagBadExit
	}

	return rs, md
}

// unwantedMicrodesc returns a microdescriptor that no consensus refers to.
func unwantedMicrodesc(rand io.Reader) *netdoc.Microdesc {
	md := &netdoc.Microdesc{}
	readRandom(rand, md.Digest[:])
	return md
}
