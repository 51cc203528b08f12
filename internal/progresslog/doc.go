// Copyright (c) 2020-2026 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

/*
Package progresslog provides periodic logging for directory downloads.

Tests are included to ensure proper functionality.

## Feature Overview

- Maintains cumulative totals about completed requests between each logging
  interval
  - Total number of microdescriptors received
  - Total number of requests that succeeded
  - Total number of requests that failed
- Logs all cumulative data every 10 seconds along with the number of
  microdescriptors that are still missing
- Immediately logs any outstanding data when forced, for example once the
  directory becomes usable
- Accepts a custom clock so simulated downloads log deterministically
*/
package progresslog
