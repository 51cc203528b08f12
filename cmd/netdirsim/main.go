// Copyright (c) 2013-2016 The btcsuite developers
// Copyright (c) 2015-2026 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/c4dt/arti/internal/testrand"
	"github.com/c4dt/arti/internal/version"
	"github.com/decred/dcrd/crypto/rand"
)

// netdirsimMain is the real main function for netdirsim.  It is necessary to
// work around the fact that deferred functions do not run when os.Exit() is
// called.
func netdirsimMain() error {
	// Load configuration and parse command line.  This function also
	// initializes logging and configures it accordingly.
	appName := filepath.Base(os.Args[0])
	appName = strings.TrimSuffix(appName, filepath.Ext(appName))
	cfg, _, err := loadConfig(appName, os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		var e errSuppressUsage
		if !errors.As(err, &e) {
			fmt.Fprintf(os.Stderr, "Use %s -h to show usage\n", appName)
		}
		return err
	}
	defer func() {
		if logRotator != nil {
			logRotator.Close()
		}
	}()

	// Get a context that will be canceled when a shutdown signal has been
	// triggered from an OS signal such as SIGINT (Ctrl+C).
	ctx := shutdownListener()

	simuLog.Infof("Version %s (Go version %s %s/%s)", version.String(),
		runtime.Version(), runtime.GOOS, runtime.GOARCH)

	var source io.Reader = rand.Reader()
	if cfg.Seed != 0 {
		simuLog.Infof("Using deterministic randomness with seed %d", cfg.Seed)
		source = testrand.New(cfg.Seed)
	}

	sim := newSimulator(cfg, source, time.Now().Truncate(time.Hour))
	if err := sim.run(ctx); err != nil {
		simuLog.Errorf("%v", err)
		return err
	}
	return nil
}

func main() {
	if err := netdirsimMain(); err != nil {
		os.Exit(1)
	}
}
