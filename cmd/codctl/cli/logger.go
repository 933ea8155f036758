// Copyright 2026 The codplayer Authors
// SPDX-License-Identifier: MIT

package cli

import (
	"log/slog"
	"os"

	"golang.org/x/term"
)

// NewCommandLogger creates a structured logger for command
// diagnostics. When stderr is a terminal, uses slog.TextHandler for
// human-readable output. When stderr is piped or redirected (scripts,
// LCD controllers, systemd units), uses slog.JSONHandler so the
// output can be ingested alongside the daemon's logs.
//
// Command output itself (responses, state updates) goes to stdout and
// never through the logger.
func NewCommandLogger() *slog.Logger {
	var handler slog.Handler
	options := &slog.HandlerOptions{Level: slog.LevelInfo}
	if term.IsTerminal(int(os.Stderr.Fd())) {
		handler = slog.NewTextHandler(os.Stderr, options)
	} else {
		handler = slog.NewJSONHandler(os.Stderr, options)
	}
	return slog.New(handler)
}
