// Copyright 2026 The codplayer Authors
// SPDX-License-Identifier: MIT

package client

import (
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/codplayer/codctl/lib/clock"
)

// Loop is a single-threaded cooperative scheduler. Callbacks queued
// with Schedule run one at a time, in FIFO order, on the goroutine
// that called Run. Stop halts the loop before any further queued work
// executes.
type Loop struct {
	clock clock.Clock
	work  chan func()
	quit  chan struct{}

	started  atomic.Bool
	stopOnce sync.Once
}

// NewLoop creates an idle loop using the given clock for timers.
func NewLoop(clk clock.Clock) *Loop {
	return &Loop{
		clock: clk,
		work:  make(chan func(), 128),
		quit:  make(chan struct{}),
	}
}

// Schedule queues fn for execution on the loop. Safe to call from any
// goroutine, including before Run starts. Once the loop has stopped,
// fn is silently dropped — a stopped session runs nothing further.
func (l *Loop) Schedule(fn func()) {
	select {
	case <-l.quit:
		return
	default:
	}
	select {
	case l.work <- fn:
	case <-l.quit:
	}
}

// Run executes queued callbacks until Stop is called, typically from
// within a callback. A stop issued before Run simply makes Run return
// nil without executing anything. Returns an error if the loop was
// already started; a loop is single-use.
func (l *Loop) Run() error {
	if !l.started.CompareAndSwap(false, true) {
		return errors.New("client: loop already started")
	}
	for {
		// A stop that landed before this iteration wins over any work
		// still queued, including work queued before the stop.
		select {
		case <-l.quit:
			return nil
		default:
		}

		select {
		case <-l.quit:
			return nil
		case fn := <-l.work:
			// A callback that stops the loop is caught by the check at
			// the top of the next iteration, so nothing queued behind a
			// stopping callback ever runs.
			fn()
		}
	}
}

// Stop halts the loop. Callable from any callback (or goroutine);
// idempotent. Callbacks already executed are not undone, but nothing
// scheduled after the stop takes effect will run, including timers
// already due.
func (l *Loop) Stop() {
	l.stopOnce.Do(func() { close(l.quit) })
}

// Done returns a channel closed when the loop has been stopped.
func (l *Loop) Done() <-chan struct{} { return l.quit }

// After schedules fn to run on the loop once d has elapsed. The timer
// is implicitly cancelled when the loop stops first: the fire is
// routed through Schedule, which drops work after Stop.
func (l *Loop) After(d time.Duration, fn func()) *clock.Timer {
	return l.clock.AfterFunc(d, func() { l.Schedule(fn) })
}
