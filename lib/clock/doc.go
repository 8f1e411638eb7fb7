// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package clock provides an injectable time source.
//
// Time-ordered identifiers (ULIDs) embed the current millisecond. Code
// that mints them accepts a Clock instead of calling time.Now directly
// so tests can pin the timestamp:
//
//	c := clock.Fake(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
//	id, err := okid.NewULIDAt(c)
//	c.Advance(time.Millisecond)
//
// Production code uses Real().
package clock
