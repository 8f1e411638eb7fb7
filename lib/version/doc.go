// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package version provides build version information for the okid
// command and identifies the running binary by content.
//
// # Build information
//
// Three package-level variables may be injected at build time via
// -ldflags -X:
//
//   - [GitCommit] -- short git SHA of the build
//   - [BuildTime] -- UTC timestamp of the build
//   - [Version] -- semantic version string (set manually for releases)
//
// When GitCommit is not injected, the VCS revision recorded by the Go
// toolchain in the binary's build info is used instead, so "go
// install" builds still report their commit.
//
// Formatting functions produce human-readable version strings:
//
//   - [Info] -- "0.1.0-dev (abc1234, 2026-02-10T...)" for --version
//   - [Full] -- Info plus Go version, GOOS/GOARCH and the binary's OkId
//   - [Short] -- just the version number
//
// # Binary identity
//
// [SelfID] returns the BLAKE3 OkId of the running executable. Two
// binaries with the same SelfID are byte-identical regardless of how
// their version strings were stamped.
package version
