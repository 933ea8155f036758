// Copyright 2026 The codplayer Authors
// SPDX-License-Identifier: MIT

package client

import (
	"crypto/rand"
	"encoding/hex"
	"log/slog"
	"sync"
	"time"

	"github.com/codplayer/codctl/protocol"
)

// Transport carries RPC traffic to the daemon. Send must not block on
// the daemon: an error return means the request never left the
// client. Replies delivers inbound replies in arrival order; the
// channel closes when the transport shuts down.
type Transport interface {
	Send(request protocol.Request) error
	Replies() <-chan protocol.Reply
	Close() error
}

// pendingCall is one in-flight request. It is removed from the
// registry the instant its continuation is chosen, so each call
// completes at most once, ever.
type pendingCall struct {
	id      string
	onReply func(any)
	onError func(error)
	created time.Time
}

// Client is the pending-call registry: it dispatches commands over a
// Transport and matches replies back to the caller's continuations on
// the event loop. All registry state is touched only from the loop.
type Client struct {
	loop      *Loop
	transport Transport
	logger    *slog.Logger

	calls map[string]*pendingCall

	pumpOnce sync.Once
}

// NewClient creates a client dispatching over transport on loop.
func NewClient(loop *Loop, transport Transport, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		loop:      loop,
		transport: transport,
		logger:    logger,
		calls:     make(map[string]*pendingCall),
	}
}

// Call dispatches cmd and returns immediately. Exactly one of onReply
// or onError fires later, on the loop, at most once; neither fires
// after the loop has stopped. A nil continuation is ignored.
func (c *Client) Call(cmd protocol.Command, onReply func(any), onError func(error)) {
	c.startPump()
	c.loop.Schedule(func() {
		call := &pendingCall{
			onReply: onReply,
			onError: onError,
			created: c.loop.clock.Now(),
		}

		id, err := newRequestID()
		if err != nil {
			call.fail(protocol.Clientf("error allocating request id: %v", err))
			return
		}
		call.id = id
		c.calls[id] = call

		request := protocol.Request{ID: id, Command: cmd.Name, Args: cmd.Args}
		if err := c.transport.Send(request); err != nil {
			delete(c.calls, id)
			call.fail(protocol.Clientf("error sending command %s: %v", cmd.Name, err))
		}
	})
}

// startPump launches the single reader goroutine feeding replies into
// the loop. One pump per client keeps replies in arrival order.
func (c *Client) startPump() {
	c.pumpOnce.Do(func() {
		go func() {
			for reply := range c.transport.Replies() {
				c.loop.Schedule(func() { c.deliver(reply) })
			}
		}()
	})
}

// deliver matches an inbound reply to its pending call. Runs on the
// loop. Unknown correlation ids are dropped: the call may have been
// abandoned by a timeout, or the reply may belong to another client.
func (c *Client) deliver(reply protocol.Reply) {
	call, ok := c.calls[reply.ID]
	if !ok {
		c.logger.Debug("dropping reply for unknown request", "id", reply.ID)
		return
	}
	delete(c.calls, reply.ID)

	value, err := protocol.ParseReply(reply.Parts)
	if err != nil {
		call.fail(err)
		return
	}
	if call.onReply != nil {
		call.onReply(value)
	}
}

func (p *pendingCall) fail(err error) {
	if p.onError != nil {
		p.onError(err)
	}
}

// newRequestID creates a random 16-byte hex string correlating a
// request with its reply.
func newRequestID() (string, error) {
	var buffer [16]byte
	if _, err := rand.Read(buffer[:]); err != nil {
		return "", err
	}
	return hex.EncodeToString(buffer[:]), nil
}
