// Copyright (c) 2024-2026 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package uniform provides uniform random integers drawn from an io.Reader
// random source, such as the userspace CSPRNG of the crypto/rand package or a
// deterministic stream in tests.
//
// Random sources are required to never error; any errors reading the random
// source will result in a panic.
package uniform

import (
	"encoding/binary"
	"fmt"
	"io"
	"math/bits"
)

func read(rand io.Reader, buf []byte) {
	_, err := io.ReadFull(rand, buf)
	if err != nil {
		panic(fmt.Errorf("uniform: read of random source errored: %w", err))
	}
}

// Uint32 returns a uniform random uint32.
func Uint32(rand io.Reader) uint32 {
	var b [4]byte
	read(rand, b[:])
	return binary.LittleEndian.Uint32(b[:])
}

// Uint64 returns a uniform random uint64.
func Uint64(rand io.Reader) uint64 {
	var b [8]byte
	read(rand, b[:])
	return binary.LittleEndian.Uint64(b[:])
}

// Uint32n returns a random uint32 in range [0,n) without modulo bias.
// Panics if n == 0.
func Uint32n(rand io.Reader, n uint32) uint32 {
	if n == 0 {
		panic("uniform: invalid argument to Uint32n")
	}
	if n == 1 {
		return 0
	}
	n--
	mask := ^uint32(0) >> bits.LeadingZeros32(n)
	for {
		v := Uint32(rand) & mask
		if v <= n {
			return v
		}
	}
}

// Uint64n returns a random uint64 in range [0,n) without modulo bias.
// Panics if n == 0.
func Uint64n(rand io.Reader, n uint64) uint64 {
	if n == 0 {
		panic("uniform: invalid argument to Uint64n")
	}
	if n == 1 {
		return 0
	}
	n--
	mask := ^uint64(0) >> bits.LeadingZeros64(n)
	for {
		v := Uint64(rand) & mask
		if v <= n {
			return v
		}
	}
}

// Uint32Range returns a random uint32 in range [low,high) without modulo bias.
// Panics if low >= high.
func Uint32Range(rand io.Reader, low, high uint32) uint32 {
	if low >= high {
		panic(fmt.Sprintf("uniform: empty range [%d,%d)", low, high))
	}
	return low + Uint32n(rand, high-low)
}
