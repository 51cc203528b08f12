// Copyright (c) 2026 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

/*
Package dirmgr drives the download of the network directory.

It decides which documents to ask directory caches for, when to retry failed
requests, and when the collected information is enough to build paths.  It
does not perform any I/O and never sleeps.  Callers own the network and the
clock: they send the requests handed out by a Bootstrap, feed back the
responses or failures, and wait out the returned retry delays themselves.

A typical caller looks like the following:

	boot, err := dirmgr.NewBootstrap(cfg, consensus, cache, rand.Reader())
	if err != nil {
		return err
	}
	for !boot.IsComplete() {
		reqs, err := boot.NextRequests()
		if err != nil {
			return err
		}
		// Send reqs and hand each outcome to HandleResponse or HandleFailure.
	}
	netDir, _ := boot.NetDir()

Errors

Errors returned by this package are of type dirmgr.Error and wrap an
ErrorKind, so callers can use errors.Is to check for a specific kind, such as
errors.Is(err, dirmgr.ErrCantAdvanceState).
*/
package dirmgr
