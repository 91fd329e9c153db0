// Copyright 2026 The cedar-java Authors
// SPDX-License-Identifier: Apache-2.0

// Package version provides build version information for cedarbridge.
//
// Four package-level variables are injected at build time via
// -ldflags -X:
//
//	go build -ldflags "-X github.com/felixzheng98/cedar-java/lib/version.GitCommit=$(git rev-parse --short HEAD)"
//
//   - [GitCommit] -- short git SHA of the build
//   - [GitDirty] -- "true" if there were uncommitted changes
//   - [BuildTime] -- UTC timestamp of the build
//   - [Version] -- semantic version string (set manually for releases)
//
// These default to "unknown" / "0.1.0-dev" when not injected.
//
// [Info] is the --version line, [Full] adds the Go toolchain, platform,
// and linked Cedar engine version.
package version
