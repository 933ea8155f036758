// Copyright 2026 The codplayer Authors
// SPDX-License-Identifier: MIT

package main

import (
	"fmt"
	"os"

	"github.com/codplayer/codctl/cmd/codctl/commands"
)

func main() {
	if err := run(); err != nil {
		// Commands that print their own failure output return an
		// ExitError with the desired code. Don't add a redundant
		// "error:" line for those.
		if coder, ok := err.(interface{ ExitCode() int }); ok {
			os.Exit(coder.ExitCode())
		}
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	return commands.Root().Execute(os.Args[1:])
}
