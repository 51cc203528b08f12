// Copyright (c) 2026 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/c4dt/arti/internal/testrand"
)

// testConfig returns a small simulation config.
func testConfig() *config {
	cfg := defaultConfig()
	cfg.NumRelays = 300
	cfg.NumPicks = 3000
	cfg.MaxPerRequest = 50
	return &cfg
}

// TestSimulation ensures a seeded simulation yields a usable directory and
// picks distinct relays for a path.
func TestSimulation(t *testing.T) {
	setLogLevels("off")

	cfg := testConfig()
	cfg.ExitPort = 443
	start := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	sim := newSimulator(cfg, testrand.New(1), start)

	nd, err := sim.bootstrap(context.Background())
	if err != nil {
		t.Fatalf("unexpected bootstrap error: %v", err)
	}
	if !sim.now.After(start) {
		t.Errorf("simulated clock did not advance")
	}
	if sim.stats.requests == 0 {
		t.Errorf("no simulated requests were made")
	}

	stats := sim.pick(nd)
	if stats.usable == 0 || stats.eligible == 0 {
		t.Fatalf("no usable relays: %+v", stats)
	}
	if stats.eligible > stats.usable {
		t.Errorf("more eligible relays (%d) than usable ones (%d)",
			stats.eligible, stats.usable)
	}
	if stats.picks != cfg.NumPicks {
		t.Errorf("got %d picks, want %d", stats.picks, cfg.NumPicks)
	}
	if stats.maxDeviation > 0.05 {
		t.Errorf("pick frequency deviates from weight share by %.3f",
			stats.maxDeviation)
	}

	if len(stats.path) != cfg.PathLen {
		t.Fatalf("got %d path hops, want %d", len(stats.path), cfg.PathLen)
	}
	for i, r := range stats.path {
		if !r.SupportsExitPort(cfg.ExitPort) {
			t.Errorf("hop %d (%v) does not allow port %d", i, r,
				cfg.ExitPort)
		}
		for j := i + 1; j < len(stats.path); j++ {
			if r.SameRelay(stats.path[j]) {
				t.Errorf("hops %d and %d are the same relay", i, j)
			}
		}
	}
}

// TestSimulationReproducible ensures runs with the same seed are identical.
func TestSimulationReproducible(t *testing.T) {
	setLogLevels("off")

	start := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	var elapsed [2]time.Duration
	var requests [2]int
	for i := range elapsed {
		sim := newSimulator(testConfig(), testrand.New(7), start)
		if _, err := sim.bootstrap(context.Background()); err != nil {
			t.Fatalf("unexpected bootstrap error: %v", err)
		}
		elapsed[i] = sim.now.Sub(start)
		requests[i] = sim.stats.requests
	}
	if elapsed[0] != elapsed[1] || requests[0] != requests[1] {
		t.Errorf("runs differ: %v and %v elapsed, %d and %d requests",
			elapsed[0], elapsed[1], requests[0], requests[1])
	}
}

// TestSimulationShutdown ensures a canceled context stops the simulation.
func TestSimulationShutdown(t *testing.T) {
	setLogLevels("off")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	sim := newSimulator(testConfig(), testrand.New(3), time.Now())
	if _, err := sim.bootstrap(ctx); !errors.Is(err, errShutdown) {
		t.Errorf("unexpected error -- got %v, want %v", err, errShutdown)
	}
}

// TestExitReweight ensures the exit port reweighting function only keeps
// relays allowing the port.
func TestExitReweight(t *testing.T) {
	if exitReweight(0) != nil {
		t.Fatal("expected no reweighting without an exit port")
	}

	setLogLevels("off")
	cfg := testConfig()
	sim := newSimulator(cfg, testrand.New(5), time.Now())
	sim.cfg.FailPct = 0
	nd, err := sim.bootstrap(context.Background())
	if err != nil {
		t.Fatalf("unexpected bootstrap error: %v", err)
	}

	reweight := exitReweight(80)
	for r := range nd.Relays() {
		got := reweight(r, 10)
		want := uint32(0)
		if r.SupportsExitPort(80) {
			want = 10
		}
		if got != want {
			t.Errorf("%v: got weight %d, want %d", r, got, want)
		}
	}
}
