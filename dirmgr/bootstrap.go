// Copyright (c) 2026 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package dirmgr

import (
	"fmt"
	"io"
	"time"

	"github.com/c4dt/arti/docid"
	"github.com/c4dt/arti/internal/progresslog"
	"github.com/c4dt/arti/netdir"
	"github.com/c4dt/arti/netdoc"
	"github.com/decred/dcrd/container/apbf"
)

const (
	// maxReportedUnwanted is the number of unwanted microdescriptor digests
	// remembered in order to only log each of them once.
	maxReportedUnwanted = 2000

	// reportedUnwantedFPRate is the false positive rate of the filter of
	// reported unwanted digests.  A false positive only suppresses a log
	// message.
	reportedUnwantedFPRate = 0.001
)

// Bootstrap tracks the download of the microdescriptors listed by a consensus
// until the directory is usable.
//
// It is not safe for concurrent access.
type Bootstrap struct {
	cfg      *Config
	rand     io.Reader
	cache    *MicrodescCache
	progress *progresslog.Logger

	// partial is the directory under construction.  It is nil once result
	// is set.
	partial *netdir.PartialNetDir
	result  *netdir.NetDir

	// inFlight holds the requests handed out and not yet resolved.
	inFlight map[*Request]struct{}

	// pending holds the digests asked for by requests in flight.
	pending map[netdoc.MdDigest]struct{}

	// abandoned holds the digests whose requests used every attempt.  They
	// are not asked for again by this bootstrap.
	abandoned map[netdoc.MdDigest]struct{}

	// reported holds the unwanted digests that were already logged.
	reported *apbf.Filter
}

// NewBootstrap returns a Bootstrap for the microdescriptors of the provided
// consensus.  Microdescriptors found in cache, which may be nil, are used
// right away, and every microdescriptor received later is stored in it.
// Retry delays are drawn from rand.
func NewBootstrap(cfg *Config, consensus *netdoc.Consensus, cache *MicrodescCache, rand io.Reader) (*Bootstrap, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if consensus == nil {
		return nil, makeError(ErrBadArgument, "no consensus provided")
	}
	if consensus.Flavor != netdoc.FlavorMicrodesc {
		str := fmt.Sprintf("consensus flavor %v does not list "+
			"microdescriptors", consensus.Flavor)
		return nil, makeError(ErrBadArgument, str)
	}

	b := &Bootstrap{
		cfg:       cfg,
		rand:      rand,
		cache:     cache,
		progress:  progresslog.New("Received", log),
		partial:   netdir.NewPartialNetDirWithPolicy(consensus, cfg.sufficiency()),
		inFlight:  make(map[*Request]struct{}),
		pending:   make(map[netdoc.MdDigest]struct{}),
		abandoned: make(map[netdoc.MdDigest]struct{}),
		reported:  apbf.NewFilter(maxReportedUnwanted, reportedUnwantedFPRate),
	}
	b.loadFromCache()
	b.tryComplete()
	return b, nil
}

// SetClock replaces the clock used to pace progress messages.
func (b *Bootstrap) SetClock(now func() time.Time) {
	b.progress = progresslog.NewWithClock("Received", log, now)
}

// loadFromCache adds every missing microdescriptor that is present in the
// cache.
func (b *Bootstrap) loadFromCache() {
	if b.cache == nil {
		return
	}

	var found []*netdoc.Microdesc
	for digest := range b.partial.MissingMicrodescs() {
		if md, ok := b.cache.Get(digest); ok {
			found = append(found, md)
		}
	}
	for _, md := range found {
		b.partial.AddMicrodesc(md)
	}
	if len(found) > 0 {
		log.Debugf("Loaded %d microdescriptors from the cache (%d missing)",
			len(found), b.partial.NumMissing())
	}
}

// tryComplete promotes the partial directory once it is sufficient.
func (b *Bootstrap) tryComplete() bool {
	if b.result != nil {
		return true
	}
	missing := b.partial.NumMissing()
	nd, ok := b.partial.UnwrapIfSufficient()
	if !ok {
		return false
	}
	b.result = nd
	b.partial = nil
	log.Infof("Directory is usable with %d microdescriptors still missing",
		missing)
	return true
}

// IsComplete returns whether the directory is usable.
func (b *Bootstrap) IsComplete() bool {
	return b.result != nil
}

// NumMissing returns the number of microdescriptors that are still missing.
func (b *Bootstrap) NumMissing() int {
	if b.result != nil {
		return b.result.NumMissing()
	}
	return b.partial.NumMissing()
}

// NumInFlight returns the number of requests handed out and not resolved.
func (b *Bootstrap) NumInFlight() int {
	return len(b.inFlight)
}

// NetDir returns the usable directory.  It returns ErrDirectoryNotPresent
// until enough microdescriptors were received.
func (b *Bootstrap) NetDir() (*netdir.NetDir, error) {
	if b.result == nil {
		str := fmt.Sprintf("directory is not usable yet (%d "+
			"microdescriptors missing)", b.partial.NumMissing())
		return nil, makeError(ErrDirectoryNotPresent, str)
	}
	return b.result, nil
}

// NextRequests returns new requests for missing microdescriptors that are
// not already asked for, up to the configured number of requests in flight.
// It returns no requests once the directory is usable or while the maximum
// number of requests is in flight.
//
// ErrCantAdvanceState is returned when nothing is in flight, nothing is left
// to ask for, and the directory is still not usable.
func (b *Bootstrap) NextRequests() ([]*Request, error) {
	if b.result != nil {
		return nil, nil
	}
	available := b.cfg.Schedule.Parallelism() - len(b.inFlight)
	if available <= 0 {
		return nil, nil
	}

	var wanted []docid.DocID
	for digest := range b.partial.MissingMicrodescs() {
		if _, ok := b.pending[digest]; ok {
			continue
		}
		if _, ok := b.abandoned[digest]; ok {
			continue
		}
		wanted = append(wanted, docid.Microdesc(digest))
	}
	if len(wanted) == 0 {
		if len(b.inFlight) == 0 {
			str := fmt.Sprintf("no microdescriptors left to request and the "+
				"directory is not usable (%d missing, %d abandoned)",
				b.partial.NumMissing(), len(b.abandoned))
			return nil, makeError(ErrCantAdvanceState, str)
		}
		return nil, nil
	}

	queries := docid.Partition(wanted, b.cfg.Schedule.MaxMicrodescsPerRequest)
	if len(queries) > available {
		queries = queries[:available]
	}
	reqs := make([]*Request, 0, len(queries))
	for _, query := range queries {
		req := newRequest(query, b.cfg.Schedule.RetryMicrodescs)
		for _, digest := range query.Microdescs() {
			b.pending[digest] = struct{}{}
		}
		b.inFlight[req] = struct{}{}
		reqs = append(reqs, req)
		log.Tracef("New request %v", req)
	}
	return reqs, nil
}

// resolve removes a request from the set of requests in flight.
func (b *Bootstrap) resolve(req *Request) error {
	if _, ok := b.inFlight[req]; !ok {
		str := fmt.Sprintf("request %v is not in flight", req)
		return makeError(ErrUnknownRequest, str)
	}
	delete(b.inFlight, req)
	for _, digest := range req.Query.Microdescs() {
		delete(b.pending, digest)
	}
	return nil
}

// HandleResponse adds the microdescriptors received for req to the directory
// and returns how many of them were wanted.  Digests the request asked for
// that were not received are asked for again by a later request.
//
// Microdescriptors that are not wanted are ignored and only logged.
// ErrUnwanted is returned when the response was not empty and none of its
// microdescriptors was wanted.
func (b *Bootstrap) HandleResponse(req *Request, mds []*netdoc.Microdesc) (int, error) {
	if err := b.resolve(req); err != nil {
		return 0, err
	}
	if b.result != nil {
		log.Debugf("Ignoring %d microdescriptors received after the "+
			"directory became usable", len(mds))
		return 0, nil
	}

	var numWanted int
	for _, md := range mds {
		if !b.partial.AddMicrodesc(md) {
			b.reportUnwanted(md.Digest)
			continue
		}
		if b.cache != nil {
			b.cache.Put(md)
		}
		numWanted++
	}

	missing := b.partial.NumMissing()
	complete := b.tryComplete()
	b.progress.LogRequest(uint64(numWanted), false, missing, complete)

	if numWanted == 0 && len(mds) > 0 {
		str := fmt.Sprintf("none of the %d microdescriptors received for "+
			"%v was wanted", len(mds), req)
		return 0, makeError(ErrUnwanted, str)
	}
	return numWanted, nil
}

// reportUnwanted logs an unwanted digest unless it was already logged.
func (b *Bootstrap) reportUnwanted(digest netdoc.MdDigest) {
	if b.reported.Contains(digest[:]) {
		return
	}
	b.reported.Add(digest[:])
	log.Debugf("Ignoring unwanted microdescriptor %v", digest)
}

// HandleFailure records that req failed.  When the request has attempts left,
// it stays in flight and HandleFailure returns how long to wait before sending
// it again along with true.  Otherwise, the digests it asked for are
// abandoned and false is returned.
func (b *Bootstrap) HandleFailure(req *Request) (time.Duration, bool, error) {
	if _, ok := b.inFlight[req]; !ok {
		str := fmt.Sprintf("request %v is not in flight", req)
		return 0, false, makeError(ErrUnknownRequest, str)
	}

	if delay, ok := req.nextAttempt(b.rand); ok {
		log.Debugf("Retrying %v in %v", req, delay)
		b.progress.LogRequest(0, true, b.NumMissing(), false)
		return delay, true, nil
	}

	b.resolve(req)
	for _, digest := range req.Query.Microdescs() {
		b.abandoned[digest] = struct{}{}
	}
	log.Warnf("Giving up on %v", req)
	b.progress.LogRequest(0, true, b.NumMissing(), false)
	return 0, false, nil
}
