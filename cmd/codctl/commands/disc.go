// Copyright 2026 The codplayer Authors
// SPDX-License-Identifier: MIT

package commands

import (
	"fmt"
	"os"

	"github.com/spf13/pflag"

	"github.com/codplayer/codctl/cmd/codctl/cli"
	"github.com/codplayer/codctl/discid"
	"github.com/codplayer/codctl/protocol"
)

func discCommand() *cli.Command {
	flags := &sessionFlags{}
	return &cli.Command{
		Name:    protocol.CmdDisc,
		Summary: "Play a specific disc from the database",
		Usage:   "codctl disc <disc id | db id>",
		Description: `Play a specific disc from the database.

The disc is identified by its Musicbrainz disc ID or by the database
ID used in the disc database directory layout. The identifier is
validated and translated to database format before anything is sent
to the daemon.`,
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet(protocol.CmdDisc, pflag.ContinueOnError)
			flags.register(flagSet)
			return flagSet
		},
		Run: func(args []string) error {
			if len(args) != 1 {
				return fmt.Errorf("disc requires exactly one disc or db id")
			}
			id, err := discid.Normalize(args[0])
			if err != nil {
				// Printed bare, like the timeout line, so scripts can
				// match on the exact message.
				fmt.Fprintln(os.Stderr, err)
				return &cli.ExitError{Code: 1}
			}
			return runPlayer(flags, protocol.Command{Name: protocol.CmdDisc, Args: []string{id}})
		},
	}
}
