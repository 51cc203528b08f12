// Copyright (c) 2026 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package dirmgr

import (
	"errors"
	"testing"
	"time"

	"github.com/c4dt/arti/internal/testrand"
	"github.com/c4dt/arti/netdoc"
	"github.com/c4dt/arti/retry"
)

// testBootstrapConfig returns a configuration allowing two requests of at most
// three microdescriptors in flight.
func testBootstrapConfig() *Config {
	cfg := DefaultConfig(testNetwork())
	cfg.Schedule.MicrodescParallelism = 2
	cfg.Schedule.MaxMicrodescsPerRequest = 3
	return cfg
}

// respond returns the microdescriptors a request asked for.
func respond(req *Request) []*netdoc.Microdesc {
	var mds []*netdoc.Microdesc
	for _, digest := range req.Query.Microdescs() {
		mds = append(mds, &netdoc.Microdesc{Digest: digest})
	}
	return mds
}

// TestNewBootstrapErrors ensures bad arguments are rejected.
func TestNewBootstrapErrors(t *testing.T) {
	rand := testrand.New(1)

	cfg := testBootstrapConfig()
	cfg.Network.Authorities = nil
	_, err := NewBootstrap(cfg, testConsensus(1), nil, rand)
	if !errors.Is(err, ErrBadNetworkConfig) {
		t.Errorf("unexpected error for bad network: %v", err)
	}

	_, err = NewBootstrap(testBootstrapConfig(), nil, nil, rand)
	if !errors.Is(err, ErrBadArgument) {
		t.Errorf("unexpected error for missing consensus: %v", err)
	}

	consensus := testConsensus(1)
	consensus.Flavor = netdoc.FlavorNs
	_, err = NewBootstrap(testBootstrapConfig(), consensus, nil, rand)
	if !errors.Is(err, ErrBadArgument) {
		t.Errorf("unexpected error for wrong flavor: %v", err)
	}
}

// TestBootstrapRequests ensures requests are batched, limited in number, and
// that the directory becomes usable once enough responses arrive.
func TestBootstrapRequests(t *testing.T) {
	boot, err := NewBootstrap(testBootstrapConfig(), testConsensus(10), nil,
		testrand.New(2))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	reqs, err := boot.NextRequests()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(reqs) != 2 {
		t.Fatalf("unexpected number of requests %d", len(reqs))
	}
	for _, req := range reqs {
		if req.Query.Len() != 3 || req.Attempt() != 1 {
			t.Fatalf("unexpected request %v", req)
		}
	}
	more, err := boot.NextRequests()
	if err != nil || len(more) != 0 {
		t.Fatalf("requests beyond the parallelism limit: %v, %v", more, err)
	}

	if _, err := boot.NetDir(); !errors.Is(err, ErrDirectoryNotPresent) {
		t.Fatalf("unexpected error for incomplete directory: %v", err)
	}

	// A partial response returns the digests that were not received to
	// the pool of digests to ask for.
	partial := respond(reqs[0])[:2]
	n, err := boot.HandleResponse(reqs[0], partial)
	if err != nil || n != 2 {
		t.Fatalf("unexpected response handling: %d, %v", n, err)
	}
	if boot.NumMissing() != 8 || boot.NumInFlight() != 1 {
		t.Fatalf("unexpected state: %d missing, %d in flight",
			boot.NumMissing(), boot.NumInFlight())
	}
	_, err = boot.HandleResponse(reqs[0], partial)
	if !errors.Is(err, ErrUnknownRequest) {
		t.Fatalf("unexpected error for resolved request: %v", err)
	}

	next, err := boot.NextRequests()
	if err != nil || len(next) != 1 || next[0].Query.Len() != 3 {
		t.Fatalf("unexpected follow-up requests: %v, %v", next, err)
	}
	wantFirst := reqs[0].Query.Microdescs()[2]
	if got := next[0].Query.Microdescs()[0]; got != wantFirst {
		t.Fatalf("undelivered digest not asked for again: got %v, want %v",
			got, wantFirst)
	}

	for _, req := range []*Request{reqs[1], next[0]} {
		if _, err := boot.HandleResponse(req, respond(req)); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if !boot.IsComplete() {
		t.Fatalf("directory with %d of 10 microdescriptors is not usable",
			10-boot.NumMissing())
	}
	nd, err := boot.NetDir()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if nd.NumMissing() != 2 {
		t.Fatalf("unexpected missing count %d", nd.NumMissing())
	}
	if reqs, err := boot.NextRequests(); err != nil || len(reqs) != 0 {
		t.Fatalf("requests after completion: %v, %v", reqs, err)
	}
}

// TestBootstrapUnwanted ensures responses holding only unwanted
// microdescriptors are reported.
func TestBootstrapUnwanted(t *testing.T) {
	boot, err := NewBootstrap(testBootstrapConfig(), testConsensus(4), nil,
		testrand.New(3))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	reqs, _ := boot.NextRequests()

	unwanted := []*netdoc.Microdesc{testMicrodesc(100), testMicrodesc(100)}
	n, err := boot.HandleResponse(reqs[0], unwanted)
	if n != 0 || !errors.Is(err, ErrUnwanted) {
		t.Fatalf("unexpected result for unwanted response: %d, %v", n, err)
	}
	digest := testDigest(100)
	if !boot.reported.Contains(digest[:]) {
		t.Fatal("unwanted digest was not recorded")
	}

	// An empty response is not an error.
	n, err = boot.HandleResponse(reqs[1], nil)
	if n != 0 || err != nil {
		t.Fatalf("unexpected result for empty response: %d, %v", n, err)
	}
}

// TestBootstrapFailures ensures failed requests are retried with growing
// delays and abandoned once every attempt was used.
func TestBootstrapFailures(t *testing.T) {
	cfg := testBootstrapConfig()
	cfg.Schedule.MicrodescParallelism = 1
	cfg.Schedule.MaxMicrodescsPerRequest = 500
	cfg.Schedule.RetryMicrodescs = retry.NewConfig(3, time.Second)
	boot, err := NewBootstrap(cfg, testConsensus(4), nil, testrand.New(4))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	reqs, err := boot.NextRequests()
	if err != nil || len(reqs) != 1 {
		t.Fatalf("unexpected requests: %v, %v", reqs, err)
	}
	req := reqs[0]

	for attempt := uint32(2); attempt <= 3; attempt++ {
		delay, retrying, err := boot.HandleFailure(req)
		if err != nil || !retrying {
			t.Fatalf("attempt %d: unexpected result %v, %v", attempt,
				retrying, err)
		}
		if delay < time.Second {
			t.Fatalf("attempt %d: delay %v below the floor", attempt, delay)
		}
		if req.Attempt() != attempt {
			t.Fatalf("unexpected attempt %d, want %d", req.Attempt(),
				attempt)
		}
		if boot.NumInFlight() != 1 {
			t.Fatal("retried request is no longer in flight")
		}
	}

	_, retrying, err := boot.HandleFailure(req)
	if err != nil || retrying {
		t.Fatalf("request retried beyond its attempts: %v, %v", retrying, err)
	}
	if _, _, err := boot.HandleFailure(req); !errors.Is(err, ErrUnknownRequest) {
		t.Fatalf("unexpected error for abandoned request: %v", err)
	}

	_, err = boot.NextRequests()
	if !errors.Is(err, ErrCantAdvanceState) {
		t.Fatalf("unexpected error with every digest abandoned: %v", err)
	}
}

// TestBootstrapCache ensures cached microdescriptors are used right away and
// that received ones are stored for the next bootstrap.
func TestBootstrapCache(t *testing.T) {
	cache := NewMicrodescCache(100)
	boot, err := NewBootstrap(testBootstrapConfig(), testConsensus(2), cache,
		testrand.New(5))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	reqs, _ := boot.NextRequests()
	if len(reqs) != 1 {
		t.Fatalf("unexpected number of requests %d", len(reqs))
	}
	if _, err := boot.HandleResponse(reqs[0], respond(reqs[0])); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cache.Len() != 2 {
		t.Fatalf("received microdescriptors not cached: %d", cache.Len())
	}

	again, err := NewBootstrap(testBootstrapConfig(), testConsensus(2), cache,
		testrand.New(5))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !again.IsComplete() {
		t.Fatal("bootstrap with every microdescriptor cached is not usable")
	}
	if reqs, err := again.NextRequests(); err != nil || len(reqs) != 0 {
		t.Fatalf("requests with a complete cache: %v, %v", reqs, err)
	}
}
