// Copyright 2026 The codplayer Authors
// SPDX-License-Identifier: MIT

package transport

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"sync"
	"time"

	"github.com/codplayer/codctl/lib/codec"
	"github.com/codplayer/codctl/protocol"
)

// dialTimeout is the maximum time to wait for a connection to a
// daemon socket. This covers only the connect phase; response timing
// is the session timeout's concern.
const dialTimeout = 5 * time.Second

// inboundBuffer is the channel capacity between a socket's reader
// goroutine and the event loop's pump.
const inboundBuffer = 16

// CommandSocket is a persistent connection to the daemon's command
// socket: CBOR request envelopes out, reply envelopes in. Replies
// arrive in whatever order the daemon completes them; correlation is
// the registry's job.
type CommandSocket struct {
	conn    net.Conn
	writeMu sync.Mutex
	replies chan protocol.Reply
	logger  *slog.Logger
}

// DialCommand connects to the command socket at path and starts the
// reply reader.
func DialCommand(path string, logger *slog.Logger) (*CommandSocket, error) {
	conn, err := dialUnix(path)
	if err != nil {
		return nil, fmt.Errorf("connecting to command socket %s: %w", path, err)
	}
	s := &CommandSocket{
		conn:    conn,
		replies: make(chan protocol.Reply, inboundBuffer),
		logger:  logger,
	}
	go s.readLoop()
	return s, nil
}

// Send writes one request envelope. Safe for concurrent use, though
// the client engine serializes sends on its loop anyway.
func (s *CommandSocket) Send(request protocol.Request) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	if err := codec.NewEncoder(s.conn).Encode(request); err != nil {
		return fmt.Errorf("writing request: %w", err)
	}
	return nil
}

// Replies returns the inbound reply channel. It closes when the
// connection is closed or the stream breaks.
func (s *CommandSocket) Replies() <-chan protocol.Reply { return s.replies }

// Close shuts the connection down. The reader exits and closes the
// reply channel.
func (s *CommandSocket) Close() error { return s.conn.Close() }

func (s *CommandSocket) readLoop() {
	defer close(s.replies)
	decoder := codec.NewDecoder(s.conn)
	for {
		var reply protocol.Reply
		if err := decoder.Decode(&reply); err != nil {
			logReadEnd(s.logger, "command socket", err)
			return
		}
		s.replies <- reply
	}
}

// StateSocket is a persistent connection to the daemon's state feed
// socket. One Subscribe envelope selects the categories, then the
// daemon streams Update envelopes until either side closes.
type StateSocket struct {
	conn    net.Conn
	writeMu sync.Mutex
	updates chan protocol.Update
	logger  *slog.Logger
	started sync.Once
}

// DialState connects to the state feed socket at path. The update
// reader starts on Subscribe, not on dial: the daemon sends nothing
// before the subscription arrives.
func DialState(path string, logger *slog.Logger) (*StateSocket, error) {
	conn, err := dialUnix(path)
	if err != nil {
		return nil, fmt.Errorf("connecting to state socket %s: %w", path, err)
	}
	return &StateSocket{
		conn:    conn,
		updates: make(chan protocol.Update, inboundBuffer),
		logger:  logger,
	}, nil
}

// Subscribe sends the category selection and starts the update reader.
func (s *StateSocket) Subscribe(request protocol.Subscribe) error {
	s.writeMu.Lock()
	err := codec.NewEncoder(s.conn).Encode(request)
	s.writeMu.Unlock()
	if err != nil {
		return fmt.Errorf("writing subscription: %w", err)
	}
	s.started.Do(func() { go s.readLoop() })
	return nil
}

// Updates returns the inbound update channel. It closes when the
// connection is closed or the stream breaks.
func (s *StateSocket) Updates() <-chan protocol.Update { return s.updates }

// Close shuts the connection down.
func (s *StateSocket) Close() error { return s.conn.Close() }

func (s *StateSocket) readLoop() {
	defer close(s.updates)
	decoder := codec.NewDecoder(s.conn)
	for {
		var update protocol.Update
		if err := decoder.Decode(&update); err != nil {
			logReadEnd(s.logger, "state socket", err)
			return
		}
		s.updates <- update
	}
}

func dialUnix(path string) (net.Conn, error) {
	dialer := net.Dialer{Timeout: dialTimeout}
	return dialer.Dial("unix", path)
}

// logReadEnd records why a reader stopped. A clean EOF or a close
// from our own side is the normal end of a session and only worth a
// debug line.
func logReadEnd(logger *slog.Logger, name string, err error) {
	if errors.Is(err, io.EOF) || errors.Is(err, net.ErrClosed) {
		logger.Debug(name+" closed", "error", err)
		return
	}
	logger.Warn(name+" read failed", "error", err)
}
