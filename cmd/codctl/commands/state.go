// Copyright 2026 The codplayer Authors
// SPDX-License-Identifier: MIT

package commands

import (
	"fmt"

	"github.com/spf13/pflag"

	"github.com/codplayer/codctl/cmd/codctl/cli"
	"github.com/codplayer/codctl/protocol"
)

func stateCommand() *cli.Command {
	flags := &sessionFlags{}
	var follow bool
	var flagSet *pflag.FlagSet
	return &cli.Command{
		Name:    protocol.CmdState,
		Summary: "Print the player state",
		Description: `Print the player state.

With --follow, the current state is printed first and then every
state change as the daemon publishes it, until interrupted.`,
		Flags: func() *pflag.FlagSet {
			flagSet = pflag.NewFlagSet(protocol.CmdState, pflag.ContinueOnError)
			flags.register(flagSet)
			flagSet.BoolVar(&follow, "follow", false, "keep printing state updates as they arrive")
			return flagSet
		},
		Run: func(args []string) error {
			if len(args) > 0 {
				return fmt.Errorf("state takes no arguments")
			}
			if !follow {
				return runPlayer(flags, protocol.Command{Name: protocol.CmdState})
			}
			// Following has no natural end. The timeout applies only
			// when given explicitly.
			if !flagSet.Changed("timeout") {
				flags.timeout = 0
			}
			return runFollow(flags, protocol.Command{Name: protocol.CmdState}, protocol.CategoryState)
		},
	}
}
