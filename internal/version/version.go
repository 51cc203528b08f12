// Copyright (c) 2013-2026 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package version reports the version of the binaries in this module.
package version

import (
	"runtime/debug"
	"strings"
)

// Version is the application version per the semantic versioning 2.0.0 spec
// (https://semver.org/).  It may be overridden at link time with
// -ldflags "-X github.com/c4dt/arti/internal/version.Version=fullsemver".
var Version = "0.1.0-pre"

// vcsCommitID attempts to return the version control system short commit hash
// that was used to build the binary.  It returns an empty string when the
// information is not available.
func vcsCommitID() string {
	bi, ok := debug.ReadBuildInfo()
	if !ok {
		return ""
	}
	var vcs, revision string
	for _, bs := range bi.Settings {
		switch bs.Key {
		case "vcs":
			vcs = bs.Value
		case "vcs.revision":
			revision = bs.Value
		}
	}
	if vcs == "git" && len(revision) > 9 {
		revision = revision[:9]
	}
	return revision
}

// String returns the application version.  The commit hash the binary was
// built from is appended as build metadata when it is known and the version
// does not carry build metadata already.
func String() string {
	if strings.Contains(Version, "+") {
		return Version
	}
	if commit := vcsCommitID(); commit != "" {
		return Version + "+" + commit
	}
	return Version
}
