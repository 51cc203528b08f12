// Copyright (c) 2026 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package dirmgr

import (
	"fmt"
	"math"
	"time"

	"github.com/c4dt/arti/netdir"
	"github.com/c4dt/arti/netdoc"
	"github.com/c4dt/arti/retry"
)

const (
	// defaultBootstrapAttempts is the number of times a whole bootstrap is
	// attempted before giving up.
	defaultBootstrapAttempts = 128

	// defaultMicrodescParallelism is the default number of microdescriptor
	// requests in flight at once.
	defaultMicrodescParallelism = 4

	// DefaultMaxMicrodescsPerRequest is the default maximum number of
	// microdescriptors asked for in a single request.
	DefaultMaxMicrodescsPerRequest = 500

	// DefaultMicrodescCacheSize is the default number of microdescriptors
	// kept across bootstraps.
	DefaultMicrodescCacheSize = 16384
)

// Authority is a directory authority that signs the consensus.
type Authority struct {
	// Name is the authority's nickname.
	Name string

	// V3Ident is the fingerprint of the authority's long-term v3 identity
	// key.
	V3Ident netdoc.RSAIdentity
}

// NetworkConfig describes the network to bootstrap into.
type NetworkConfig struct {
	// Authorities are the directory authorities whose signatures on the
	// consensus are trusted.
	Authorities []Authority

	// FallbackCaches are the directory caches used before a consensus is
	// available.
	FallbackCaches []*netdir.FallbackDir
}

// DownloadScheduleConfig describes how and when documents are downloaded.
type DownloadScheduleConfig struct {
	// RetryBootstrap controls how a failed bootstrap as a whole is retried.
	RetryBootstrap retry.Config

	// RetryConsensus controls retrying consensus downloads.
	RetryConsensus retry.Config

	// RetryCerts controls retrying authority certificate downloads.
	RetryCerts retry.Config

	// RetryMicrodescs controls retrying microdescriptor downloads.
	RetryMicrodescs retry.Config

	// MicrodescParallelism is the number of microdescriptor requests that
	// may be in flight at once.  Zero is treated as one.
	MicrodescParallelism uint8

	// MaxMicrodescsPerRequest is the maximum number of microdescriptors
	// asked for in a single request.
	MaxMicrodescsPerRequest int
}

// DefaultDownloadScheduleConfig returns the default download schedule.
func DefaultDownloadScheduleConfig() DownloadScheduleConfig {
	return DownloadScheduleConfig{
		RetryBootstrap:          retry.NewConfig(defaultBootstrapAttempts, time.Second),
		RetryConsensus:          retry.DefaultConfig(),
		RetryCerts:              retry.DefaultConfig(),
		RetryMicrodescs:         retry.DefaultConfig(),
		MicrodescParallelism:    defaultMicrodescParallelism,
		MaxMicrodescsPerRequest: DefaultMaxMicrodescsPerRequest,
	}
}

// Parallelism returns the number of microdescriptor requests that may be in
// flight at once.  It is never less than one.
func (c *DownloadScheduleConfig) Parallelism() int {
	if c.MicrodescParallelism == 0 {
		return 1
	}
	return int(c.MicrodescParallelism)
}

// Config holds everything needed to download the network directory.
type Config struct {
	// Network describes the network to bootstrap into.
	Network NetworkConfig

	// Schedule describes how and when documents are downloaded.
	Schedule DownloadScheduleConfig

	// MinUsableFraction is the fraction of the total weighted bandwidth
	// that usable relays must carry before the directory can be used.  Zero
	// selects the default of more than half.
	MinUsableFraction float64

	// MicrodescCacheSize is the number of microdescriptors kept across
	// bootstraps.
	MicrodescCacheSize uint32
}

// DefaultConfig returns a configuration with the default schedule and cache
// size for the provided network.
func DefaultConfig(network NetworkConfig) *Config {
	return &Config{
		Network:            network,
		Schedule:           DefaultDownloadScheduleConfig(),
		MicrodescCacheSize: DefaultMicrodescCacheSize,
	}
}

// Validate returns an error when the configuration can't be used.
func (c *Config) Validate() error {
	if len(c.Network.Authorities) == 0 {
		return makeError(ErrBadNetworkConfig, "no directory authorities "+
			"configured")
	}
	if len(c.Network.FallbackCaches) == 0 {
		return makeError(ErrBadNetworkConfig, "no fallback directory "+
			"caches configured")
	}
	if c.Schedule.MaxMicrodescsPerRequest <= 0 {
		str := fmt.Sprintf("invalid maximum microdescriptors per request "+
			"%d", c.Schedule.MaxMicrodescsPerRequest)
		return makeError(ErrBadArgument, str)
	}
	frac := c.MinUsableFraction
	if math.IsNaN(frac) || frac < 0 || frac > 1 {
		str := fmt.Sprintf("minimum usable fraction %v is not in [0, 1]", frac)
		return makeError(ErrBadArgument, str)
	}
	return nil
}

// sufficiency returns the policy deciding when a directory is usable.
func (c *Config) sufficiency() netdir.SufficiencyFunc {
	if c.MinUsableFraction == 0 {
		return netdir.HalfOfBandwidth
	}
	return netdir.FractionOfBandwidth(c.MinUsableFraction)
}
