// Copyright 2026 The codplayer Authors
// SPDX-License-Identifier: MIT

package client

import (
	"fmt"
	"log/slog"

	"github.com/codplayer/codctl/protocol"
	"github.com/codplayer/codctl/state"
)

// SubscribeTransport carries the daemon's state feed. Subscribe
// selects the categories of interest and starts the stream; Updates
// delivers feed messages in arrival order and closes when the
// transport shuts down.
type SubscribeTransport interface {
	Subscribe(request protocol.Subscribe) error
	Updates() <-chan protocol.Update
	Close() error
}

// Handlers holds the per-category continuations of a subscription.
// A nil handler means the category is not requested. OnError receives
// malformed updates; delivery continues afterwards.
type Handlers struct {
	OnState    func(*state.State)
	OnRipState func(*state.RipState)
	OnDisc     func(*state.Disc)
	OnError    func(error)
}

// categories returns the set implied by the non-nil handlers.
func (h Handlers) categories() []protocol.Category {
	var cats []protocol.Category
	if h.OnState != nil {
		cats = append(cats, protocol.CategoryState)
	}
	if h.OnRipState != nil {
		cats = append(cats, protocol.CategoryRipState)
	}
	if h.OnDisc != nil {
		cats = append(cats, protocol.CategoryDisc)
	}
	return cats
}

// Subscriber attaches to the state feed and invokes per-category
// continuations on the event loop for every message received, until
// the loop stops. It has no termination of its own: the "stop after
// first value" versus "follow until timeout" policy belongs to the
// caller.
type Subscriber struct {
	loop      *Loop
	transport SubscribeTransport
	logger    *slog.Logger
	handlers  Handlers
}

// NewSubscriber creates a subscriber delivering to handlers on loop.
func NewSubscriber(loop *Loop, transport SubscribeTransport, handlers Handlers, logger *slog.Logger) *Subscriber {
	if logger == nil {
		logger = slog.Default()
	}
	return &Subscriber{
		loop:      loop,
		transport: transport,
		logger:    logger,
		handlers:  handlers,
	}
}

// Start sends the subscribe request and launches the pump goroutine.
// A single pump per subscriber feeds the loop's FIFO queue, so
// messages within one category are delivered in the order the
// transport produced them.
func (s *Subscriber) Start() error {
	request := protocol.Subscribe{Categories: s.handlers.categories()}
	if err := s.transport.Subscribe(request); err != nil {
		return fmt.Errorf("subscribing to state feed: %w", err)
	}
	go func() {
		for update := range s.transport.Updates() {
			s.loop.Schedule(func() { s.deliver(update) })
		}
	}()
	return nil
}

// deliver decodes one feed message and routes it to the matching
// continuation. Runs on the loop. Updates for categories without a
// handler, and categories this client does not know, are dropped.
func (s *Subscriber) deliver(update protocol.Update) {
	value, err := protocol.ParseUpdate(update)
	if err != nil {
		if s.handlers.OnError != nil {
			s.handlers.OnError(err)
		} else {
			s.logger.Warn("dropping malformed state update",
				"category", update.Category, "error", err)
		}
		return
	}

	switch payload := value.(type) {
	case *state.State:
		if s.handlers.OnState != nil {
			s.handlers.OnState(payload)
		}
	case *state.RipState:
		if s.handlers.OnRipState != nil {
			s.handlers.OnRipState(payload)
		}
	case *state.Disc:
		if s.handlers.OnDisc != nil {
			s.handlers.OnDisc(payload)
		}
	}
}
