// Copyright 2026 The cedar-java Authors
// SPDX-License-Identifier: Apache-2.0

// Package clock provides an injectable time source.
//
// Types that record or measure time take a Clock field instead of
// calling time.Now directly:
//
//	store := &Store{clock: clock.Real()}
//
// Tests pass a FakeClock and move it explicitly:
//
//	c := clock.Fake(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
//	c.Advance(5 * time.Second)
package clock
