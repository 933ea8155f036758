// Copyright 2026 The codplayer Authors
// SPDX-License-Identifier: MIT

package clock

import (
	"sort"
	"sync"
	"time"
)

// Fake returns a FakeClock initialized to the given time. Time stands
// still until Advance is called; pending timers fire when the clock
// advances past their deadline.
//
// FakeClock is safe for concurrent use by multiple goroutines.
func Fake(initial time.Time) *FakeClock {
	return &FakeClock{current: initial}
}

// FakeClock is a deterministic Clock for testing. AfterFunc callbacks
// are invoked synchronously during Advance in deadline order. Do not
// call Advance from within an AfterFunc callback.
type FakeClock struct {
	mu      sync.Mutex
	current time.Time
	waiters []*fakeWaiter
}

// fakeWaiter is a pending After or AfterFunc operation.
type fakeWaiter struct {
	deadline time.Time

	// channel receives the fire time for After waiters. Nil for
	// AfterFunc waiters.
	channel chan time.Time

	// callback is invoked during Advance for AfterFunc waiters. Nil
	// for After waiters.
	callback func()

	// stopped is set by Timer.Stop. Stopped waiters are skipped.
	stopped bool

	// fired prevents double-firing on overlapping Advance calls.
	fired bool
}

// Now returns the current fake time.
func (c *FakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current
}

// After returns a channel that receives once the clock advances past
// duration d. If d <= 0, the channel receives immediately.
func (c *FakeClock) After(d time.Duration) <-chan time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()

	channel := make(chan time.Time, 1)
	if d <= 0 {
		channel <- c.current
		return channel
	}
	c.waiters = append(c.waiters, &fakeWaiter{
		deadline: c.current.Add(d),
		channel:  channel,
	})
	return channel
}

// AfterFunc schedules f to run when the clock advances past duration
// d. If d <= 0, f is called synchronously before AfterFunc returns.
func (c *FakeClock) AfterFunc(d time.Duration, f func()) *Timer {
	c.mu.Lock()

	if d <= 0 {
		c.mu.Unlock()
		f()
		return &Timer{stopFunc: func() bool { return false }}
	}

	waiter := &fakeWaiter{
		deadline: c.current.Add(d),
		callback: f,
	}
	c.waiters = append(c.waiters, waiter)
	c.mu.Unlock()

	return &Timer{stopFunc: func() bool {
		c.mu.Lock()
		defer c.mu.Unlock()
		if waiter.fired || waiter.stopped {
			return false
		}
		waiter.stopped = true
		return true
	}}
}

// Advance moves the fake time forward by d, firing every pending
// waiter whose deadline is reached, in deadline order. Callbacks run
// synchronously on the calling goroutine.
func (c *FakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	target := c.current.Add(d)

	due := make([]*fakeWaiter, 0, len(c.waiters))
	remaining := c.waiters[:0]
	for _, waiter := range c.waiters {
		if waiter.stopped || waiter.fired {
			continue
		}
		if !waiter.deadline.After(target) {
			waiter.fired = true
			due = append(due, waiter)
		} else {
			remaining = append(remaining, waiter)
		}
	}
	c.waiters = remaining
	c.current = target

	sort.SliceStable(due, func(i, j int) bool {
		return due[i].deadline.Before(due[j].deadline)
	})

	// Deliver outside the lock: channel sends are buffered, but
	// callbacks may schedule new timers on this clock.
	c.mu.Unlock()
	for _, waiter := range due {
		if waiter.channel != nil {
			waiter.channel <- waiter.deadline
		}
		if waiter.callback != nil {
			waiter.callback()
		}
	}
}
