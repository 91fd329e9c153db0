// Copyright 2026 The cedar-java Authors
// SPDX-License-Identifier: Apache-2.0

package clock

import (
	"sync"
	"testing"
	"time"
)

var epoch = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

func TestFakeNow(t *testing.T) {
	c := Fake(epoch)
	if got := c.Now(); !got.Equal(epoch) {
		t.Fatalf("Now() = %v, want %v", got, epoch)
	}

	c.Advance(90 * time.Second)
	if got := c.Now(); !got.Equal(epoch.Add(90 * time.Second)) {
		t.Fatalf("after Advance, Now() = %v", got)
	}
	if got := c.Since(epoch); got != 90*time.Second {
		t.Fatalf("Since(epoch) = %v, want 90s", got)
	}

	c.Set(epoch)
	if got := c.Since(epoch); got != 0 {
		t.Fatalf("after Set, Since(epoch) = %v, want 0", got)
	}
}

func TestFakeAdvanceNegativePanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("Advance(-1) did not panic")
		}
	}()
	Fake(epoch).Advance(-1)
}

func TestFakeConcurrentAdvance(t *testing.T) {
	c := Fake(epoch)
	var waitGroup sync.WaitGroup
	for range 16 {
		waitGroup.Add(1)
		go func() {
			defer waitGroup.Done()
			c.Advance(time.Second)
			_ = c.Now()
		}()
	}
	waitGroup.Wait()
	if got := c.Since(epoch); got != 16*time.Second {
		t.Fatalf("Since(epoch) = %v, want 16s", got)
	}
}

func TestReal(t *testing.T) {
	before := time.Now()
	now := Real().Now()
	if now.Before(before) {
		t.Fatalf("Real().Now() = %v is before %v", now, before)
	}
	if Real().Since(before) < 0 {
		t.Fatal("Real().Since returned a negative duration")
	}
}
