// Copyright (c) 2026 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package docid

import (
	"errors"
	"reflect"
	"testing"

	"github.com/c4dt/arti/netdoc"
	"github.com/davecgh/go-spew/spew"
)

func mdDigest(b byte) netdoc.MdDigest {
	var d netdoc.MdDigest
	d[0] = b
	return d
}

func rdDigest(b byte) netdoc.RdDigest {
	var d netdoc.RdDigest
	d[0] = b
	return d
}

func certIDs(b byte) netdoc.AuthCertKeyIDs {
	var ids netdoc.AuthCertKeyIDs
	ids.IDFingerprint[0] = b
	ids.SKFingerprint[0] = b + 1
	return ids
}

// TestDocIDMapKey ensures identities compare structurally and may be used as
// map keys.
func TestDocIDMapKey(t *testing.T) {
	ids := []DocID{
		Microdesc(mdDigest(1)),
		Routerdesc(rdDigest(1)),
		AuthCert(certIDs(1)),
		LatestConsensus(netdoc.FlavorMicrodesc, CacheOkay),
		LatestConsensus(netdoc.FlavorMicrodesc, MustDownload),
	}
	set := make(map[DocID]int)
	for i, id := range ids {
		set[id] = i + 1
	}
	if len(set) != 5 {
		t.Fatalf("distinct identities collided: %d entries", len(set))
	}
	if set[Microdesc(mdDigest(1))] != 1 {
		t.Fatal("equal microdesc identities do not match")
	}
	if _, ok := set[Microdesc(mdDigest(2))]; ok {
		t.Fatal("different microdesc identities match")
	}
	if set[LatestConsensus(netdoc.FlavorMicrodesc, MustDownload)] != 5 {
		t.Fatal("equal consensus identities do not match")
	}
}

// TestDocIDAccessors ensures the typed accessors only report success for the
// matching kind.
func TestDocIDAccessors(t *testing.T) {
	id := Microdesc(mdDigest(7))
	if d, ok := id.MdDigest(); !ok || d != mdDigest(7) {
		t.Fatalf("unexpected microdesc digest %v (ok=%v)", d, ok)
	}
	if _, ok := id.RdDigest(); ok {
		t.Fatal("microdesc identity reported a router descriptor digest")
	}
	if _, _, ok := id.ConsensusParams(); ok {
		t.Fatal("microdesc identity reported consensus parameters")
	}

	cid := LatestConsensus(netdoc.FlavorNs, CacheOnly)
	flavor, usage, ok := cid.ConsensusParams()
	if !ok || flavor != netdoc.FlavorNs || usage != CacheOnly {
		t.Fatalf("unexpected consensus params %v %v %v", flavor, usage, ok)
	}
	if ids, ok := AuthCert(certIDs(3)).AuthCertKeyIDs(); !ok || ids != certIDs(3) {
		t.Fatal("unexpected authcert key ids")
	}
}

// TestEmptyQueryFor ensures empty queries take their kind from the seed
// identity and hold nothing else.
func TestEmptyQueryFor(t *testing.T) {
	tests := []struct {
		name    string
		id      DocID
		wantLen int
	}{
		{name: "consensus", id: LatestConsensus(netdoc.FlavorMicrodesc, CacheOkay), wantLen: 1},
		{name: "authcert", id: AuthCert(certIDs(1)), wantLen: 0},
		{name: "microdesc", id: Microdesc(mdDigest(1)), wantLen: 0},
		{name: "routerdesc", id: Routerdesc(rdDigest(1)), wantLen: 0},
	}

	for _, test := range tests {
		q := EmptyQueryFor(test.id)
		if q.Kind() != test.id.Kind() {
			t.Errorf("%q: got kind %v, want %v", test.name, q.Kind(), test.id.Kind())
		}
		if q.Len() != test.wantLen {
			t.Errorf("%q: got len %d, want %d", test.name, q.Len(), test.wantLen)
		}
	}

	q := EmptyQueryFor(LatestConsensus(netdoc.FlavorNs, MustDownload))
	if flavor, usage, _ := q.ConsensusParams(); flavor != netdoc.FlavorNs ||
		usage != MustDownload {

		t.Fatalf("consensus query lost its parameters: %v %v", flavor, usage)
	}
}

// TestQueryPush ensures pushing identities of the matching kind appends them in
// order and that singleton queries hold their identity.
func TestQueryPush(t *testing.T) {
	q := QueryFor(Microdesc(mdDigest(1)))
	q.Push(Microdesc(mdDigest(2)))
	q.Push(Microdesc(mdDigest(3)))
	want := []netdoc.MdDigest{mdDigest(1), mdDigest(2), mdDigest(3)}
	if !reflect.DeepEqual(q.Microdescs(), want) {
		t.Fatalf("unexpected members: %v", spew.Sdump(q.Microdescs()))
	}

	var ids []DocID
	for id := range q.DocIDs() {
		ids = append(ids, id)
	}
	wantIDs := []DocID{Microdesc(mdDigest(1)), Microdesc(mdDigest(2)),
		Microdesc(mdDigest(3))}
	if !reflect.DeepEqual(ids, wantIDs) {
		t.Fatalf("unexpected identities: %v", spew.Sdump(ids))
	}

	rq := QueryFor(Routerdesc(rdDigest(9)))
	if len(rq.Routerdescs()) != 1 || rq.Routerdescs()[0] != rdDigest(9) {
		t.Fatalf("unexpected singleton: %v", rq.Routerdescs())
	}
	cq := QueryFor(AuthCert(certIDs(4)))
	if len(cq.AuthCerts()) != 1 || cq.AuthCerts()[0] != certIDs(4) {
		t.Fatalf("unexpected singleton: %v", cq.AuthCerts())
	}
}

// TestQueryPushMismatchPanics ensures mixing kinds in a query is treated as an
// assertion failure.
func TestQueryPushMismatchPanics(t *testing.T) {
	tests := []struct {
		name  string
		query *DocQuery
		id    DocID
	}{
		{name: "routerdesc onto microdesc", query: QueryFor(Microdesc(mdDigest(1))), id: Routerdesc(rdDigest(1))},
		{name: "microdesc onto consensus", query: EmptyQueryFor(LatestConsensus(netdoc.FlavorMicrodesc, CacheOkay)), id: Microdesc(mdDigest(1))},
		{name: "consensus onto authcert", query: EmptyQueryFor(AuthCert(certIDs(1))), id: LatestConsensus(netdoc.FlavorMicrodesc, CacheOkay)},
	}

	for _, test := range tests {
		func() {
			defer func() {
				r := recover()
				err, ok := r.(error)
				if !ok {
					t.Errorf("%q: did not panic with an error: %v", test.name, r)
					return
				}
				var assertErr AssertError
				if !errors.As(err, &assertErr) {
					t.Errorf("%q: unexpected panic value %v", test.name, err)
				}
			}()
			test.query.Push(test.id)
		}()
	}
}

// TestPartition ensures wanted identities are grouped into homogeneous,
// duplicate-free, size-limited queries.
func TestPartition(t *testing.T) {
	cons := LatestConsensus(netdoc.FlavorMicrodesc, CacheOkay)
	consMust := LatestConsensus(netdoc.FlavorMicrodesc, MustDownload)
	ids := []DocID{
		Microdesc(mdDigest(1)),
		AuthCert(certIDs(1)),
		Microdesc(mdDigest(2)),
		Microdesc(mdDigest(1)),
		cons,
		Microdesc(mdDigest(3)),
		Routerdesc(rdDigest(1)),
		consMust,
		cons,
		Microdesc(mdDigest(4)),
		Microdesc(mdDigest(5)),
	}

	queries := Partition(ids, 2)
	var got []string
	for _, q := range queries {
		got = append(got, q.String())
	}
	want := []string{
		"2 microdescs",
		"1 authcert",
		"latest microdesc consensus (cache-okay)",
		"2 microdescs",
		"1 routerdesc",
		"latest microdesc consensus (must-download)",
		"1 microdesc",
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("unexpected partition:\n got %v\nwant %v", got, want)
	}

	// Every distinct microdesc appears exactly once.
	counts := make(map[netdoc.MdDigest]int)
	for _, q := range queries {
		for _, d := range q.Microdescs() {
			counts[d]++
		}
	}
	for b := byte(1); b <= 5; b++ {
		if counts[mdDigest(b)] != 1 {
			t.Errorf("microdesc %d appears %d times", b, counts[mdDigest(b)])
		}
	}

	// No limit puts every microdesc in one query.
	unlimited := Partition(ids, 0)
	if unlimited[0].Len() != 5 {
		t.Fatalf("unexpected unlimited batch size %d", unlimited[0].Len())
	}
	if len(Partition(nil, 10)) != 0 {
		t.Fatal("partition of nothing produced queries")
	}
}
