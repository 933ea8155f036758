// Copyright 2026 The codplayer Authors
// SPDX-License-Identifier: MIT

// Package commands builds the codctl command tree. Every player
// command runs as one client session: dial the daemon, dispatch the
// command, print the response, exit non-zero on failure.
package commands

import (
	"fmt"

	"github.com/spf13/pflag"

	"github.com/codplayer/codctl/cmd/codctl/cli"
	"github.com/codplayer/codctl/protocol"
)

// Root builds and returns the complete codctl command tree.
func Root() *cli.Command {
	return &cli.Command{
		Name: "codctl",
		Description: `codctl: control a running codplayer daemon.

Commands go over the daemon's RPC channel and print its response.
With --fifo the bare command token is written to the control pipe
instead, without waiting for any response.`,
		Subcommands: []*cli.Command{
			stateCommand(),
			playerCommand(protocol.CmdSource, "Print the current playback source"),
			discCommand(),
			radioCommand(),
			playerCommand(protocol.CmdPlay, "Play from the start, or resume after pause"),
			playerCommand(protocol.CmdPause, "Pause playback"),
			playerCommand(protocol.CmdPlayPause, "Toggle between play and pause"),
			playerCommand(protocol.CmdNext, "Skip to the next track"),
			playerCommand(protocol.CmdPrev, "Restart the track, or skip to the previous one"),
			playerCommand(protocol.CmdStop, "Stop playback"),
			playerCommand(protocol.CmdEject, "Stop playback and eject the disc"),
			playerCommand(protocol.CmdEjected, "Tell the daemon the disc was removed manually"),
			playerCommand(protocol.CmdQuit, "Shut the daemon down"),
			versionCommand(),
		},
		Examples: []cli.Example{
			{
				Description: "Show what the player is doing",
				Command:     "codctl state",
			},
			{
				Description: "Watch the player state continuously",
				Command:     "codctl state --follow",
			},
			{
				Description: "Play a disc from the database",
				Command:     "codctl disc Fy3nZdEC7XLYJnajLrtLcDq748s-",
			},
			{
				Description: "Toggle playback from a headless button handler",
				Command:     "codctl play_pause --fifo",
			},
		},
	}
}

// playerCommand builds a command that sends a single daemon command
// with no arguments of its own.
func playerCommand(name, summary string) *cli.Command {
	flags := &sessionFlags{}
	return &cli.Command{
		Name:    name,
		Summary: summary,
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet(name, pflag.ContinueOnError)
			flags.register(flagSet)
			return flagSet
		},
		Run: func(args []string) error {
			if len(args) > 0 {
				return fmt.Errorf("%s takes no arguments", name)
			}
			return runPlayer(flags, protocol.Command{Name: name})
		},
	}
}
