// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
	"sync"
)

// These variables are set via -ldflags at build time.
var (
	// GitCommit is the short git SHA of the build.
	GitCommit = ""

	// BuildTime is the UTC timestamp of the build.
	BuildTime = "unknown"

	// Version is the semantic version. This is set manually for releases.
	Version = "0.1.0-dev"
)

// shortCommitLength matches git's default abbreviation.
const shortCommitLength = 7

// vcsInfo is the revision and dirty flag from the embedded build info,
// read once.
var vcsInfo = sync.OnceValues(func() (string, bool) {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return "", false
	}
	var revision string
	var modified bool
	for _, setting := range info.Settings {
		switch setting.Key {
		case "vcs.revision":
			revision = setting.Value
		case "vcs.modified":
			modified = setting.Value == "true"
		}
	}
	return revision, modified
})

// Commit returns the git commit of the build: the injected GitCommit,
// else the abbreviated VCS revision from the build info, else
// "unknown". A "-dirty" suffix marks builds from a modified tree.
func Commit() string {
	if GitCommit != "" {
		return GitCommit
	}
	revision, modified := vcsInfo()
	if revision == "" {
		return "unknown"
	}
	if len(revision) > shortCommitLength {
		revision = revision[:shortCommitLength]
	}
	if modified {
		revision += "-dirty"
	}
	return revision
}

// Info returns a formatted version string suitable for --version output.
func Info() string {
	return fmt.Sprintf("%s (%s, %s)", Version, Commit(), BuildTime)
}

// Full returns detailed version information including the Go version
// and, when it can be computed, the OkId of the running binary.
func Full() string {
	full := fmt.Sprintf("%s\n  Go: %s\n  Platform: %s/%s",
		Info(), runtime.Version(), runtime.GOOS, runtime.GOARCH)
	if id, _, err := SelfID(); err == nil {
		full += "\n  Binary: " + id.String()
	}
	return full
}

// Short returns just the version number.
func Short() string {
	return Version
}
