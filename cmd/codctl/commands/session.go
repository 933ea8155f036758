// Copyright 2026 The codplayer Authors
// SPDX-License-Identifier: MIT

package commands

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/pflag"

	"github.com/codplayer/codctl/client"
	"github.com/codplayer/codctl/cmd/codctl/cli"
	"github.com/codplayer/codctl/fifo"
	"github.com/codplayer/codctl/lib/config"
	"github.com/codplayer/codctl/protocol"
	"github.com/codplayer/codctl/transport"
)

// defaultTimeout bounds how long a one-shot command waits for the
// daemon's response.
const defaultTimeout = 10 * time.Second

// sessionFlags are the flags shared by every command that talks to
// the daemon.
type sessionFlags struct {
	configPath string
	timeout    time.Duration
	quiet      bool
	useFIFO    bool
}

func (f *sessionFlags) register(flagSet *pflag.FlagSet) {
	flagSet.StringVar(&f.configPath, "config", "", "path to the codplayer configuration file")
	flagSet.DurationVar(&f.timeout, "timeout", defaultTimeout, "how long to wait for the daemon's response (0 waits forever)")
	flagSet.BoolVar(&f.quiet, "quiet", false, "suppress response output")
	flagSet.BoolVar(&f.useFIFO, "fifo", false, "send the bare command over the control fifo instead of the RPC channel")
}

// connection bundles the transports of one session.
type connection struct {
	transport client.Transport
	feed      client.SubscribeTransport
	closers   []io.Closer
}

func (c *connection) Close() {
	for _, closer := range c.closers {
		closer.Close()
	}
}

// connect dials the daemon per the configuration: the codrestd bridge
// when remote_url is set, the local unix sockets otherwise. The state
// feed is dialed only for commands that follow updates; a websocket
// bridge carries both channels on one connection.
func connect(cfg *config.Config, withFeed bool, logger *slog.Logger) (*connection, error) {
	if cfg.RemoteURL != "" {
		ws, err := transport.DialWS(cfg.RemoteURL, logger)
		if err != nil {
			return nil, err
		}
		conn := &connection{transport: ws, closers: []io.Closer{ws}}
		if withFeed {
			conn.feed = ws
		}
		return conn, nil
	}

	command, err := transport.DialCommand(cfg.CommandSocket, logger)
	if err != nil {
		return nil, err
	}
	conn := &connection{transport: command, closers: []io.Closer{command}}
	if withFeed {
		feed, err := transport.DialState(cfg.StateSocket, logger)
		if err != nil {
			conn.Close()
			return nil, err
		}
		conn.feed = feed
		conn.closers = append(conn.closers, feed)
	}
	return conn, nil
}

// runPlayer loads the configuration and executes one command against
// the daemon.
func runPlayer(flags *sessionFlags, cmd protocol.Command) error {
	cfg, err := config.Load(flags.configPath)
	if err != nil {
		return err
	}
	return runPlayerWith(flags, cfg, cmd)
}

// runPlayerWith executes one command as a full session: dial, send,
// print the response, map the terminal error to the command result.
// With --fifo the command token goes over the control pipe instead
// and no response exists to wait for.
func runPlayerWith(flags *sessionFlags, cfg *config.Config, cmd protocol.Command) error {
	if flags.useFIFO {
		if len(cmd.Args) > 0 {
			return fmt.Errorf("command %s takes arguments and cannot go over the control fifo", cmd.Name)
		}
		return fifo.Send(cfg.ControlFIFO, cmd.Name)
	}

	logger := cli.NewCommandLogger()
	conn, err := connect(cfg, false, logger)
	if err != nil {
		return err
	}
	defer conn.Close()

	session := client.NewSession(conn.transport, client.Options{
		Timeout: flags.timeout,
		Quiet:   flags.quiet,
		Logger:  logger,
	})
	session.Call(cmd)
	return finish(session.Run())
}

// runFollow executes cmd and then keeps printing updates from the
// given feed categories until the session is stopped or times out.
func runFollow(flags *sessionFlags, cmd protocol.Command, categories ...protocol.Category) error {
	cfg, err := config.Load(flags.configPath)
	if err != nil {
		return err
	}

	logger := cli.NewCommandLogger()
	conn, err := connect(cfg, true, logger)
	if err != nil {
		return err
	}
	defer conn.Close()

	session := client.NewSession(conn.transport, client.Options{
		Timeout: flags.timeout,
		Quiet:   flags.quiet,
		Logger:  logger,
	})
	session.Call(cmd)
	session.Follow(conn.feed, categories...)
	stopOnInterrupt(session)
	return finish(session.Run())
}

// stopOnInterrupt turns SIGINT and SIGTERM into a clean session stop,
// so breaking out of a follow session exits 0.
func stopOnInterrupt(session *client.Session) {
	signals := make(chan os.Signal, 1)
	signal.Notify(signals, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-signals
		signal.Stop(signals)
		session.Loop().Stop()
	}()
}

// finish maps a session's terminal error to the command result. A
// timeout prints its own bare line and exits 1; scripts built on
// codctl match on that exact message.
func finish(err error) error {
	if err == nil {
		return nil
	}
	var timeoutErr *client.TimeoutError
	if errors.As(err, &timeoutErr) {
		fmt.Fprintln(os.Stderr, timeoutErr.Error())
		return &cli.ExitError{Code: 1}
	}
	return err
}
