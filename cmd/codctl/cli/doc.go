// Copyright 2026 The codplayer Authors
// SPDX-License-Identifier: MIT

// Package cli provides the command dispatch framework for codctl: a
// declarative command tree with per-command flag sets, structured help
// output, and typo suggestions for misspelled commands and flags.
package cli
