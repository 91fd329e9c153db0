// Copyright 2026 The cedar-java Authors
// SPDX-License-Identifier: Apache-2.0

package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
)

// These variables are set via -ldflags at build time.
var (
	// GitCommit is the short git SHA of the build.
	GitCommit = "unknown"

	// GitDirty indicates whether there were uncommitted changes.
	GitDirty = "false"

	// BuildTime is the UTC timestamp of the build.
	BuildTime = "unknown"

	// Version is the semantic version. This is set manually for releases.
	Version = "0.1.0-dev"
)

// Info returns a formatted version string suitable for --version output.
func Info() string {
	dirty := ""
	if GitDirty == "true" {
		dirty = "-dirty"
	}
	return fmt.Sprintf("%s (%s%s, %s)", Version, Commit(), dirty, BuildTime)
}

// Full returns detailed version information including the Go version
// and the Cedar engine module version.
func Full() string {
	return fmt.Sprintf("%s\n  Go: %s\n  Platform: %s/%s\n  Cedar engine: %s",
		Info(), runtime.Version(), runtime.GOOS, runtime.GOARCH, EngineVersion())
}

// Short returns just the version number.
func Short() string {
	return Version
}

// Commit returns the git commit SHA. Without -ldflags it falls back to
// the VCS revision the Go toolchain stamped into the binary.
func Commit() string {
	if GitCommit != "unknown" {
		return GitCommit
	}
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return GitCommit
	}
	for _, setting := range info.Settings {
		if setting.Key == "vcs.revision" && len(setting.Value) >= 7 {
			return setting.Value[:7]
		}
	}
	return GitCommit
}

// engineModule is the policy engine whose version Full reports.
const engineModule = "github.com/cedar-policy/cedar-go"

// EngineVersion returns the linked cedar-go module version, or
// "unknown" when build info is unavailable (as in some test binaries).
func EngineVersion() string {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return "unknown"
	}
	for _, dependency := range info.Deps {
		if dependency.Path == engineModule {
			return dependency.Version
		}
	}
	return "unknown"
}
