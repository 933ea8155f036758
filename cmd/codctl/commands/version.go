// Copyright 2026 The codplayer Authors
// SPDX-License-Identifier: MIT

package commands

import (
	"fmt"

	"github.com/spf13/pflag"

	"github.com/codplayer/codctl/cmd/codctl/cli"
	"github.com/codplayer/codctl/lib/version"
	"github.com/codplayer/codctl/protocol"
)

func versionCommand() *cli.Command {
	flags := &sessionFlags{}
	return &cli.Command{
		Name:    protocol.CmdVersion,
		Summary: "Print the client and daemon versions",
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet(protocol.CmdVersion, pflag.ContinueOnError)
			flags.register(flagSet)
			return flagSet
		},
		Run: func(args []string) error {
			if len(args) > 0 {
				return fmt.Errorf("version takes no arguments")
			}
			fmt.Printf("codctl %s\n", version.Info())
			return runPlayer(flags, protocol.Command{Name: protocol.CmdVersion})
		},
	}
}
