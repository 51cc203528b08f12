// Copyright (c) 2026 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package retry

import (
	"fmt"
	"iter"
	"strconv"
	"strings"
	"time"
)

const (
	// defaultAttempts is the default number of attempts for a download.
	defaultAttempts = 3

	// defaultInitialDelay is the default delay after the first failure.
	defaultInitialDelay = time.Second
)

// Config describes how many times to attempt a download and how long to wait
// between attempts.  It is immutable once created.
type Config struct {
	num          uint32
	initialDelay time.Duration
}

// NewConfig returns a Config that makes at most attempts attempts, and always
// at least one.  After a failure it waits at least initialDelay before trying
// again.
func NewConfig(attempts uint32, initialDelay time.Duration) Config {
	if attempts == 0 {
		attempts = 1
	}
	if initialDelay < 0 {
		initialDelay = 0
	}
	return Config{num: attempts, initialDelay: initialDelay}
}

// DefaultConfig returns the default configuration of three attempts with a one
// second initial delay.
func DefaultConfig() Config {
	return NewConfig(defaultAttempts, defaultInitialDelay)
}

// NumAttempts returns the number of attempts to make.
func (c Config) NumAttempts() uint32 {
	if c.num == 0 {
		return 1
	}
	return c.num
}

// InitialDelay returns the minimum delay between attempts.
func (c Config) InitialDelay() time.Duration {
	return c.initialDelay
}

// Attempts returns a sequence over the attempt numbers 0 through
// NumAttempts()-1.  The sequence may be iterated any number of times.
func (c Config) Attempts() iter.Seq[uint32] {
	n := c.NumAttempts()
	return func(yield func(uint32) bool) {
		for i := uint32(0); i < n; i++ {
			if !yield(i) {
				return
			}
		}
	}
}

// Schedule returns a fresh Delay for one series of attempts under this
// configuration.
func (c Config) Schedule() *Delay {
	return DelayFromDuration(c.initialDelay)
}

// String returns the configuration in the "attempts,delay" form accepted by
// UnmarshalFlag.
func (c Config) String() string {
	return fmt.Sprintf("%d,%s", c.NumAttempts(), c.initialDelay)
}

// MarshalFlag satisfies the go-flags Marshaler interface.
func (c Config) MarshalFlag() (string, error) {
	return c.String(), nil
}

// UnmarshalFlag satisfies the go-flags Unmarshaler interface.  It accepts
// "attempts,delay" where delay is a Go duration such as "1s" or "1500ms", or
// just "attempts" to keep the default delay.
func (c *Config) UnmarshalFlag(value string) error {
	numStr, delayStr, hasDelay := strings.Cut(strings.TrimSpace(value), ",")
	num, err := strconv.ParseUint(strings.TrimSpace(numStr), 10, 32)
	if err != nil {
		return fmt.Errorf("invalid number of attempts %q: %w", numStr, err)
	}
	if num == 0 {
		return fmt.Errorf("number of attempts must be at least 1")
	}

	delay := defaultInitialDelay
	if hasDelay {
		delay, err = time.ParseDuration(strings.TrimSpace(delayStr))
		if err != nil {
			return fmt.Errorf("invalid retry delay %q: %w", delayStr, err)
		}
		if delay < 0 {
			return fmt.Errorf("retry delay %v must not be negative", delay)
		}
	}

	*c = NewConfig(uint32(num), delay)
	return nil
}
