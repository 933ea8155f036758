// Copyright 2026 The codplayer Authors
// SPDX-License-Identifier: MIT

package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/codplayer/codctl/lib/clock"
	"github.com/codplayer/codctl/protocol"
	"github.com/codplayer/codctl/state"
)

// TimeoutError is the terminal result of a session whose configured
// timeout elapsed before a response or daemon error arrived.
type TimeoutError struct {
	After time.Duration
}

func (e *TimeoutError) Error() string { return "timeout waiting for response" }

// Options configures a Session. The zero value gives a session with
// no timeout, real time, and output on stdout/stderr.
type Options struct {
	// Clock drives the session timeout. Defaults to clock.Real().
	Clock clock.Clock

	// Timeout stops the whole session when it elapses, regardless of
	// outstanding calls and subscriptions. Zero means no timeout.
	Timeout time.Duration

	// Quiet suppresses response and update printing.
	Quiet bool

	// Output receives responses and state updates. Defaults to
	// os.Stdout.
	Output io.Writer

	// ErrorOutput receives non-terminal transport error messages.
	// Defaults to os.Stderr.
	ErrorOutput io.Writer

	Logger *slog.Logger
}

// Session is one client invocation: zero or more pending calls, at
// most one subscription, at most one timeout, bound to one event
// loop. When the loop stops, everything the session owns is dead — no
// further continuation fires.
type Session struct {
	loop       *Loop
	client     *Client
	subscriber *Subscriber

	timeout time.Duration
	quiet   bool
	out     io.Writer
	errOut  io.Writer
	logger  *slog.Logger

	// pending and failure are touched only before Run or on the loop.
	pending int
	failure error
}

// NewSession creates a session dispatching commands over transport.
func NewSession(transport Transport, opts Options) *Session {
	clk := opts.Clock
	if clk == nil {
		clk = clock.Real()
	}
	out := opts.Output
	if out == nil {
		out = os.Stdout
	}
	errOut := opts.ErrorOutput
	if errOut == nil {
		errOut = os.Stderr
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	loop := NewLoop(clk)
	return &Session{
		loop:    loop,
		client:  NewClient(loop, transport, logger),
		timeout: opts.Timeout,
		quiet:   opts.Quiet,
		out:     out,
		errOut:  errOut,
		logger:  logger,
	}
}

// Loop exposes the session's event loop.
func (s *Session) Loop() *Loop { return s.loop }

// Call dispatches cmd before Run starts. The response is printed
// (unless quiet); once every call has completed successfully and no
// subscription is active, the session stops with a nil result. Errors
// go through the classifier: a daemon rejection stops the session, a
// transport failure is reported but leaves the session running for
// the timeout to decide.
func (s *Session) Call(cmd protocol.Command) {
	s.pending++
	s.client.Call(cmd,
		func(value any) {
			s.pending--
			s.print(value)
			s.maybeFinish()
		},
		s.handleError,
	)
}

// Follow attaches a state feed subscription delivering through
// handlers. Printing handlers for the given categories are installed
// when handlers is the zero value. The subscription keeps the session
// running until the timeout fires or an error stops it.
func (s *Session) Follow(feed SubscribeTransport, categories ...protocol.Category) {
	handlers := Handlers{OnError: s.handleError}
	for _, category := range categories {
		switch category {
		case protocol.CategoryState:
			handlers.OnState = func(v *state.State) { s.print(v) }
		case protocol.CategoryRipState:
			handlers.OnRipState = func(v *state.RipState) { s.print(v) }
		case protocol.CategoryDisc:
			handlers.OnDisc = func(v *state.Disc) { s.print(v) }
		}
	}
	s.subscriber = NewSubscriber(s.loop, feed, handlers, s.logger)
}

// Run drives the session to completion and returns its terminal
// result: nil after normal completion, a *TimeoutError when the
// timeout fired, the daemon's *protocol.CommandError when a command
// was rejected, or any unclassified error verbatim. The terminal
// error is returned rather than printed here; process exit status is
// the caller's decision.
func (s *Session) Run() error {
	if s.timeout > 0 {
		s.loop.After(s.timeout, func() {
			s.failure = &TimeoutError{After: s.timeout}
			s.loop.Stop()
		})
	}

	if s.subscriber != nil {
		if err := s.subscriber.Start(); err != nil {
			return err
		}
	}

	if err := s.loop.Run(); err != nil {
		return err
	}
	return s.failure
}

// handleError classifies an error surfaced by a call or the
// subscription. Runs on the loop.
func (s *Session) handleError(err error) {
	var commandErr *protocol.CommandError
	var clientErr *protocol.ClientError
	switch {
	case errors.As(err, &commandErr):
		// The daemon understood the command and said no. Terminal.
		s.fail(err)
	case errors.As(err, &clientErr):
		// Transport trouble may clear up before the timeout; report
		// and keep the session alive.
		fmt.Fprintf(s.errOut, "error: %v\n", err)
	default:
		// Unclassified errors are defects. Fail loud, never swallow.
		s.fail(err)
	}
}

func (s *Session) fail(err error) {
	if s.failure == nil {
		s.failure = err
	}
	s.loop.Stop()
}

// maybeFinish stops the session once nothing remains outstanding. A
// live subscription keeps the loop running: its termination policy is
// the timeout, or the user interrupting the process.
func (s *Session) maybeFinish() {
	if s.pending == 0 && s.subscriber == nil {
		s.loop.Stop()
	}
}

// print writes a response or update payload: typed payloads in their
// display format, strings as-is, anything else as compact JSON.
func (s *Session) print(value any) {
	if s.quiet || value == nil {
		return
	}
	switch payload := value.(type) {
	case string:
		fmt.Fprintln(s.out, payload)
	case fmt.Stringer:
		fmt.Fprintln(s.out, payload.String())
	default:
		encoded, err := json.Marshal(payload)
		if err != nil {
			s.logger.Warn("unprintable response payload", "error", err)
			return
		}
		fmt.Fprintln(s.out, string(encoded))
	}
}
