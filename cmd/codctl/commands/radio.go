// Copyright 2026 The codplayer Authors
// SPDX-License-Identifier: MIT

package commands

import (
	"fmt"

	"github.com/spf13/pflag"

	"github.com/codplayer/codctl/cmd/codctl/cli"
	"github.com/codplayer/codctl/lib/config"
	"github.com/codplayer/codctl/protocol"
)

func radioCommand() *cli.Command {
	flags := &sessionFlags{}
	return &cli.Command{
		Name:    protocol.CmdRadio,
		Summary: "Play a radio station from the configuration",
		Usage:   "codctl radio [station id]",
		Description: `Play a radio station from the configuration.

Without an argument the full station catalog is handed to the daemon,
which starts with the first station and cycles through the rest on
next/prev. With a station id only that station is played.`,
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet(protocol.CmdRadio, pflag.ContinueOnError)
			flags.register(flagSet)
			return flagSet
		},
		Run: func(args []string) error {
			if len(args) > 1 {
				return fmt.Errorf("radio takes at most one station id")
			}

			cfg, err := config.Load(flags.configPath)
			if err != nil {
				return err
			}
			if len(cfg.Stations) == 0 {
				return fmt.Errorf("no radio stations configured")
			}

			stations := cfg.Stations
			if len(args) == 1 {
				station, ok := cfg.StationByID(args[0])
				if !ok {
					return fmt.Errorf("unknown radio station %q", args[0])
				}
				stations = []config.Station{station}
			}

			cmdArgs := make([]string, 0, 2*len(stations))
			for _, station := range stations {
				cmdArgs = append(cmdArgs, station.URL, station.Name)
			}
			return runPlayerWith(flags, cfg, protocol.Command{Name: protocol.CmdRadio, Args: cmdArgs})
		},
	}
}
