// Copyright 2026 The cedar-java Authors
// SPDX-License-Identifier: Apache-2.0

package version

import (
	"strings"
	"testing"
)

func TestInfo(t *testing.T) {
	originalCommit, originalDirty, originalTime := GitCommit, GitDirty, BuildTime
	t.Cleanup(func() {
		GitCommit, GitDirty, BuildTime = originalCommit, originalDirty, originalTime
	})

	GitCommit = "abc1234"
	GitDirty = "true"
	BuildTime = "2026-01-02T03:04:05Z"

	want := Version + " (abc1234-dirty, 2026-01-02T03:04:05Z)"
	if got := Info(); got != want {
		t.Errorf("Info() = %q, want %q", got, want)
	}

	GitDirty = "false"
	if got := Info(); strings.Contains(got, "-dirty") {
		t.Errorf("Info() = %q, clean build reported dirty", got)
	}
}

func TestFull(t *testing.T) {
	full := Full()
	for _, want := range []string{Info(), "Go: ", "Platform: ", "Cedar engine: "} {
		if !strings.Contains(full, want) {
			t.Errorf("Full() = %q, missing %q", full, want)
		}
	}
}

func TestShortAndCommit(t *testing.T) {
	if Short() != Version {
		t.Errorf("Short() = %q, want %q", Short(), Version)
	}

	originalCommit := GitCommit
	t.Cleanup(func() { GitCommit = originalCommit })
	GitCommit = "def5678"
	if Commit() != "def5678" {
		t.Errorf("Commit() = %q, want def5678", Commit())
	}
}
