// Copyright 2026 The codplayer Authors
// SPDX-License-Identifier: MIT

// Package version provides build version information for codctl.
//
// The variables are injected at build time via -ldflags, for example:
//
//	go build -ldflags "-X github.com/codplayer/codctl/lib/version.GitCommit=$(git rev-parse --short HEAD)"
package version

import "fmt"

// These variables are set via -ldflags at build time.
var (
	// GitCommit is the short git SHA of the build.
	GitCommit = "unknown"

	// Version is the semantic version, set manually for releases.
	Version = "2.0.0-dev"
)

// Info returns a formatted version string for the version command.
func Info() string {
	return fmt.Sprintf("%s (%s)", Version, GitCommit)
}
