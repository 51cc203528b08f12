// Copyright (c) 2026 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package dirmgr

import (
	"fmt"
	"io"
	"time"

	"github.com/c4dt/arti/docid"
	"github.com/c4dt/arti/retry"
)

// Request is a download handed out by a Bootstrap.  The caller sends Query to
// a directory cache and reports the outcome back to the Bootstrap that
// created it.  A failed request may be retried several times.
type Request struct {
	// Query lists the documents to ask for.
	Query *docid.DocQuery

	cfg     retry.Config
	delay   *retry.Delay
	attempt uint32
}

// newRequest returns a request for the provided query on its first attempt.
func newRequest(query *docid.DocQuery, cfg retry.Config) *Request {
	return &Request{
		Query:   query,
		cfg:     cfg,
		delay:   cfg.Schedule(),
		attempt: 1,
	}
}

// Attempt returns the one-based number of the current attempt.
func (r *Request) Attempt() uint32 {
	return r.attempt
}

// RetryConfig returns the retry configuration governing the request.
func (r *Request) RetryConfig() retry.Config {
	return r.cfg
}

// nextAttempt advances the request to its next attempt and returns how long
// to wait before making it.  It returns false once every attempt was used.
func (r *Request) nextAttempt(rand io.Reader) (time.Duration, bool) {
	if r.attempt >= r.cfg.NumAttempts() {
		return 0, false
	}
	r.attempt++
	return r.delay.Next(rand), true
}

// String returns the request as a human-readable string.
func (r *Request) String() string {
	return fmt.Sprintf("%v (attempt %d/%d)", r.Query, r.attempt,
		r.cfg.NumAttempts())
}
