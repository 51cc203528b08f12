// Copyright (c) 2026 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

/*
Package retry implements the schedule used to pace repeated attempts at
fetching a directory document.

Delays follow the decorrelated jitter algorithm: each delay is drawn uniformly
between a fixed floor and three times the previous delay.  The schedule is
randomized, so independent clients that fail at the same moment do not retry
in lockstep against the same caches.  It tends to wait longer and longer while
failures continue, so a cache that comes back online is not flooded by every
client that was waiting for it.  It still retries promptly now and then, which
keeps the expected latency low.

The package never sleeps.  A Delay only computes durations; the caller owns
the timers.

# Usage

	cfg := retry.DefaultConfig()
	schedule := cfg.Schedule()
	for attempt := range cfg.Attempts() {
		if err := fetch(); err == nil {
			break
		}
		if attempt+1 < cfg.NumAttempts() {
			time.Sleep(schedule.Next(rand.Reader()))
		}
	}
*/
package retry
