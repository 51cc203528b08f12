// Copyright (c) 2026 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"slices"
	"time"

	"github.com/c4dt/arti/dirmgr"
	"github.com/c4dt/arti/docid"
	"github.com/c4dt/arti/internal/uniform"
	"github.com/c4dt/arti/linkspec"
	"github.com/c4dt/arti/netdir"
	"github.com/c4dt/arti/netdoc"
	"github.com/c4dt/arti/retry"
)

const (
	// minLatencyMsec and maxLatencyMsec bound the simulated round trip time
	// of a directory request.
	minLatencyMsec = 50
	maxLatencyMsec = 500

	// dropPct is the percentage of requested microdescriptors a successful
	// response leaves out.
	dropPct = 5

	// unwantedPct is the percentage of successful responses that carry an
	// extra microdescriptor nobody asked for.
	unwantedPct = 3

	// numTopRelays is the number of most picked relays reported.
	numTopRelays = 5
)

var (
	// errShutdown indicates the simulation was interrupted.
	errShutdown = errors.New("simulation interrupted")

	// errFetchFailed indicates a document could not be fetched within its
	// attempts.
	errFetchFailed = errors.New("fetch failed")
)

// simStats accumulates counters about the download part of a simulation.
type simStats struct {
	bootstraps int
	requests   int
	failures   int
	unwanted   int
	waited     time.Duration
}

// pickStats summarizes the relay selection part of a simulation.
type pickStats struct {
	usable    int
	dirCaches int
	eligible  int
	picks     int
	path      []netdir.Relay

	// maxDeviation is the largest absolute difference between the observed
	// and the expected share of picks of any eligible relay.
	maxDeviation float64
}

// simulator runs a bootstrap against simulated directory caches using a
// simulated clock and then picks relays from the resulting directory.
type simulator struct {
	cfg    *config
	dirCfg *dirmgr.Config
	rand   io.Reader
	net    *syntheticNetwork
	cache  *dirmgr.MicrodescCache
	start  time.Time
	now    time.Time
	stats  simStats
}

// newSimulator returns a simulator for a newly generated synthetic network.
func newSimulator(cfg *config, rand io.Reader, start time.Time) *simulator {
	net := newSyntheticNetwork(rand, cfg.NumRelays, cfg.MeasuredPct, start)
	dirCfg := &dirmgr.Config{
		Network: dirmgr.NetworkConfig{
			Authorities:    net.authorities,
			FallbackCaches: net.fallbacks,
		},
		Schedule:           cfg.schedule(),
		MinUsableFraction:  cfg.MinUsable,
		MicrodescCacheSize: cfg.CacheSize,
	}
	return &simulator{
		cfg:    cfg,
		dirCfg: dirCfg,
		rand:   rand,
		net:    net,
		cache:  dirmgr.NewMicrodescCache(cfg.CacheSize),
		start:  start,
		now:    start,
	}
}

// clock returns the simulated time.
func (s *simulator) clock() time.Time {
	return s.now
}

// wait advances the simulated clock by a retry delay.
func (s *simulator) wait(d time.Duration) {
	s.now = s.now.Add(d)
	s.stats.waited += d
}

// roundTrip advances the simulated clock by the latency of one request and
// returns whether it failed.
func (s *simulator) roundTrip() bool {
	latency := uniform.Uint32Range(s.rand, minLatencyMsec, maxLatencyMsec)
	s.now = s.now.Add(time.Duration(latency) * time.Millisecond)
	s.stats.requests++
	if percent(s.rand, s.cfg.FailPct) {
		s.stats.failures++
		return true
	}
	return false
}

// fetch simulates downloading the documents of query, retrying according to
// cfg.
func (s *simulator) fetch(ctx context.Context, query *docid.DocQuery, cfg retry.Config) error {
	schedule := cfg.Schedule()
	for attempt := range cfg.Attempts() {
		if shutdownRequested(ctx) {
			return errShutdown
		}
		if !s.roundTrip() {
			simuLog.Debugf("Fetched %v on attempt %d", query, attempt+1)
			return nil
		}
		if attempt+1 < cfg.NumAttempts() {
			delay := schedule.Next(s.rand)
			simuLog.Debugf("Fetching %v failed, retrying in %v", query, delay)
			s.wait(delay)
		}
	}
	return fmt.Errorf("%w: %v after %d attempts", errFetchFailed, query,
		cfg.NumAttempts())
}

// fetchConsensus simulates downloading the consensus along with the
// certificates of the authorities that signed it.
func (s *simulator) fetchConsensus(ctx context.Context) error {
	query := dirmgr.ConsensusQuery(netdoc.FlavorMicrodesc, docid.CacheOkay)
	if err := s.fetch(ctx, query, s.cfg.RetryConsensus); err != nil {
		return err
	}
	for _, query := range dirmgr.CertQueries(s.net.certs) {
		if err := s.fetch(ctx, query, s.cfg.RetryCerts); err != nil {
			return err
		}
	}
	if !s.net.consensus.IsLive(s.now) {
		return fmt.Errorf("%w: consensus is no longer live", errFetchFailed)
	}
	return nil
}

// serve returns the response of a simulated directory cache to query.
func (s *simulator) serve(query *docid.DocQuery) []*netdoc.Microdesc {
	digests := query.Microdescs()
	mds := make([]*netdoc.Microdesc, 0, len(digests)+1)
	for _, digest := range digests {
		if percent(s.rand, dropPct) {
			continue
		}
		if md, ok := s.net.mds[digest]; ok {
			mds = append(mds, md)
		}
	}
	if percent(s.rand, unwantedPct) {
		mds = append(mds, unwantedMicrodesc(s.rand))
	}
	return mds
}

// outstanding is a request that is in flight, or waiting to be retried, along
// with the simulated time it can be sent at.
type outstanding struct {
	req     *dirmgr.Request
	readyAt time.Time
}

// bootstrapOnce runs a single bootstrap attempt.
func (s *simulator) bootstrapOnce(ctx context.Context) (*netdir.NetDir, error) {
	if err := s.fetchConsensus(ctx); err != nil {
		return nil, err
	}
	boot, err := dirmgr.NewBootstrap(s.dirCfg, s.net.consensus, s.cache,
		s.rand)
	if err != nil {
		return nil, err
	}
	boot.SetClock(s.clock)

	var queue []outstanding
	for !boot.IsComplete() {
		if shutdownRequested(ctx) {
			return nil, errShutdown
		}
		reqs, err := boot.NextRequests()
		if err != nil {
			return nil, err
		}
		for _, req := range reqs {
			queue = append(queue, outstanding{req: req, readyAt: s.now})
		}
		if len(queue) == 0 {
			break
		}

		// Serve the request that can be sent first.
		slices.SortStableFunc(queue, func(a, b outstanding) int {
			return a.readyAt.Compare(b.readyAt)
		})
		next := queue[0]
		queue = queue[1:]
		if next.readyAt.After(s.now) {
			s.wait(next.readyAt.Sub(s.now))
		}

		if s.roundTrip() {
			delay, retrying, err := boot.HandleFailure(next.req)
			if err != nil {
				return nil, err
			}
			if retrying {
				queue = append(queue, outstanding{
					req:     next.req,
					readyAt: s.now.Add(delay),
				})
			}
			continue
		}

		_, err = boot.HandleResponse(next.req, s.serve(next.req.Query))
		switch {
		case errors.Is(err, dirmgr.ErrUnwanted):
			s.stats.unwanted++
			simuLog.Debugf("%v", err)
		case err != nil:
			return nil, err
		}
	}
	return boot.NetDir()
}

// bootstrap runs bootstrap attempts until one yields a usable directory or
// every attempt allowed by the bootstrap retry configuration failed.
func (s *simulator) bootstrap(ctx context.Context) (*netdir.NetDir, error) {
	cfg := s.cfg.RetryBootstrap
	schedule := cfg.Schedule()
	var lastErr error
	for attempt := range cfg.Attempts() {
		s.stats.bootstraps++
		nd, err := s.bootstrapOnce(ctx)
		if err == nil {
			return nd, nil
		}
		if !errors.Is(err, dirmgr.ErrCantAdvanceState) &&
			!errors.Is(err, errFetchFailed) {
			return nil, err
		}
		lastErr = err
		if attempt+1 < cfg.NumAttempts() {
			delay := schedule.Next(s.rand)
			simuLog.Infof("Bootstrap attempt %d failed (%v), retrying in %v",
				attempt+1, err, delay)
			s.wait(delay)
		}
	}
	return nil, fmt.Errorf("bootstrap failed after %d attempts: %w",
		cfg.NumAttempts(), lastErr)
}

// exitReweight returns a reweighting function that only keeps relays
// allowing exits to port, or nil when port is zero.
func exitReweight(port uint16) func(netdir.Relay, uint32) uint32 {
	if port == 0 {
		return nil
	}
	return func(r netdir.Relay, w uint32) uint32 {
		if !r.SupportsExitPort(port) {
			return 0
		}
		return w
	}
}

// pick draws relays from nd and compares how often each relay was chosen to
// its share of the eligible weight.
func (s *simulator) pick(nd *netdir.NetDir) pickStats {
	var stats pickStats
	reweight := exitReweight(s.cfg.ExitPort)

	weights := make(map[netdoc.RSAIdentity]uint32)
	var totalWeight uint64
	for r := range nd.Relays() {
		stats.usable++
		if r.IsDirCache() {
			stats.dirCaches++
		}
		w := nd.BaseWeight(r)
		if reweight != nil {
			w = reweight(r, w)
		}
		if w == 0 {
			continue
		}
		stats.eligible++
		weights[r.RSAIdentity()] = w
		totalWeight += uint64(w)
	}

	counts := make(map[netdoc.RSAIdentity]int)
	relays := make(map[netdoc.RSAIdentity]netdir.Relay)
	for i := 0; i < s.cfg.NumPicks; i++ {
		r, ok := nd.PickRelay(s.rand, reweight)
		if !ok {
			break
		}
		counts[r.RSAIdentity()]++
		relays[r.RSAIdentity()] = r
		stats.picks++
	}

	if stats.picks > 0 {
		for id, w := range weights {
			want := float64(w) / float64(totalWeight)
			got := float64(counts[id]) / float64(stats.picks)
			dev := got - want
			if dev < 0 {
				dev = -dev
			}
			stats.maxDeviation = max(stats.maxDeviation, dev)
		}

		ids := make([]netdoc.RSAIdentity, 0, len(counts))
		for id := range counts {
			ids = append(ids, id)
		}
		slices.SortFunc(ids, func(a, b netdoc.RSAIdentity) int {
			if counts[a] != counts[b] {
				return counts[b] - counts[a]
			}
			return slices.Compare(a[:], b[:])
		})
		for _, id := range ids[:min(len(ids), numTopRelays)] {
			simuLog.Infof("Picked %v %d times (%.3f%%, weight share "+
				"%.3f%%)", relays[id], counts[id],
				100*float64(counts[id])/float64(stats.picks),
				100*float64(weights[id])/float64(totalWeight))
		}
	}

	if dir, ok := nd.PickRelay(s.rand, func(r netdir.Relay, w uint32) uint32 {
		if !r.IsDirCache() {
			return 0
		}
		return w
	}); ok {
		simuLog.Infof("Next directory fetch would use %v", dir)
	}

	stats.path = nd.PickNRelays(s.rand, s.cfg.PathLen, reweight)
	for i, r := range stats.path {
		simuLog.Infof("Path hop %d: %v", i+1, r)
		for _, ls := range linkspec.LinkSpecsFor(r) {
			simuLog.Debugf("  %v", ls)
		}
	}

	return stats
}

// run performs the whole simulation and logs its results.
func (s *simulator) run(ctx context.Context) error {
	simuLog.Infof("Simulating %d relays (%d%% measured) with %d%% of "+
		"requests failing", s.cfg.NumRelays, s.cfg.MeasuredPct,
		s.cfg.FailPct)

	nd, err := s.bootstrap(ctx)
	if err != nil {
		return err
	}
	simuLog.Infof("Directory usable after %v of simulated time (%d "+
		"bootstraps, %d requests, %d failed, %d unwanted responses, %v "+
		"spent waiting to retry)", s.now.Sub(s.start), s.stats.bootstraps,
		s.stats.requests, s.stats.failures, s.stats.unwanted,
		s.stats.waited)
	simuLog.Infof("Relay weights use the %v weighting function, %d "+
		"microdescriptors still missing, %d cached", nd.WeightFn(),
		nd.NumMissing(), s.cache.Len())

	stats := s.pick(nd)
	simuLog.Infof("%d usable relays, %d directory caches, %d eligible for "+
		"picking", stats.usable, stats.dirCaches, stats.eligible)
	if stats.picks > 0 {
		simuLog.Infof("Largest deviation from the weight share over %d "+
			"picks: %.3f%%", stats.picks, 100*stats.maxDeviation)
	}
	return nil
}
