// Copyright (c) 2026 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package testrand provides deterministic random sources for tests and
// reproducible simulations.
//
// The returned readers produce a ChaCha20 keystream keyed by a seed, so a
// fixed seed always yields the same sequence of bytes.  They must never be
// used where the output needs to be unpredictable.
package testrand

import (
	"encoding/binary"
	"io"

	"golang.org/x/crypto/chacha20"
)

type reader struct {
	cipher *chacha20.Cipher
}

// New returns a deterministic random source derived from seed.
func New(seed uint64) io.Reader {
	var key [chacha20.KeySize]byte
	var nonce [chacha20.NonceSize]byte
	binary.LittleEndian.PutUint64(key[:], seed)

	// never errors with correct key and nonce sizes
	cipher, _ := chacha20.NewUnauthenticatedCipher(key[:], nonce[:])
	return &reader{cipher: cipher}
}

// Read fills b with keystream bytes.  It never errors.
func (r *reader) Read(b []byte) (int, error) {
	for i := range b {
		b[i] = 0
	}
	r.cipher.XORKeyStream(b, b)
	return len(b), nil
}
