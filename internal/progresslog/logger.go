// Copyright (c) 2015-2026 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package progresslog

import (
	"sync"
	"time"

	"github.com/decred/slog"
)

// logInterval is the minimum amount of time between unforced progress
// messages.
const logInterval = time.Second * 10

// pickNoun returns the singular or plural form of a noun depending on the
// provided count.
func pickNoun(n uint64, singular, plural string) string {
	if n == 1 {
		return singular
	}
	return plural
}

// Logger provides periodic logging of progress towards some action such as
// fetching the microdescriptors of a consensus.
type Logger struct {
	sync.Mutex
	subsystemLogger slog.Logger
	progressAction  string
	now             func() time.Time

	// lastLogTime tracks the last time a log statement was shown.
	lastLogTime time.Time

	// These fields accumulate information about requests between log
	// statements.
	receivedDescs uint64
	succeededReqs uint64
	failedReqs    uint64
}

// New returns a new download progress logger that uses the wall clock.
func New(progressAction string, logger slog.Logger) *Logger {
	return NewWithClock(progressAction, logger, time.Now)
}

// NewWithClock returns a new download progress logger that reads the current
// time from the provided clock.
func NewWithClock(progressAction string, logger slog.Logger, now func() time.Time) *Logger {
	return &Logger{
		lastLogTime:     now(),
		progressAction:  progressAction,
		subsystemLogger: logger,
		now:             now,
	}
}

// LogRequest accumulates details for a completed request and periodically
// (every 10 seconds) logs an information message to show progress to the user
// along with duration and totals included.  The number of descriptors is
// ignored for failed requests.
//
// The force flag may be used to force a log message to be shown regardless of
// the time the last one was shown.
//
// The progress message is templated as follows:
//  {progressAction} {numReceived} {microdescriptors|microdescriptor} in the
//  last {timePeriod} ({numSucceeded} {requests|request}, {numFailed} failed,
//  {numMissing} still missing)
func (l *Logger) LogRequest(numDescs uint64, failed bool, numMissing int, forceLog bool) {
	l.Lock()
	defer l.Unlock()

	if failed {
		l.failedReqs++
	} else {
		l.succeededReqs++
		l.receivedDescs += numDescs
	}
	now := l.now()
	duration := now.Sub(l.lastLogTime)
	if !forceLog && duration < logInterval {
		return
	}

	// Log information about download progress.
	l.subsystemLogger.Infof("%s %d %s in the last %0.2fs (%d %s, %d failed, "+
		"%d still missing)", l.progressAction, l.receivedDescs,
		pickNoun(l.receivedDescs, "microdescriptor", "microdescriptors"),
		duration.Seconds(), l.succeededReqs,
		pickNoun(l.succeededReqs, "request", "requests"), l.failedReqs,
		numMissing)

	l.receivedDescs = 0
	l.succeededReqs = 0
	l.failedReqs = 0
	l.lastLogTime = now
}

// SetLastLogTime updates the last time data was logged to the provided time.
func (l *Logger) SetLastLogTime(time time.Time) {
	l.Lock()
	l.lastLogTime = time
	l.Unlock()
}
