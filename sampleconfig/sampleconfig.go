// Copyright (c) 2017-2026 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package sampleconfig provides the commented example configuration files of
// the binaries in this module.
package sampleconfig

import (
	_ "embed"
)

// sampleNetdirSimConf is a string containing the commented example config for
// netdirsim.
//
//go:embed sample-netdirsim.conf
var sampleNetdirSimConf string

// NetdirSim returns a string containing the commented example config for
// netdirsim.
func NetdirSim() string {
	return sampleNetdirSimConf
}
