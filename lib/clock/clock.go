// Copyright 2026 The codplayer Authors
// SPDX-License-Identifier: MIT

// Package clock abstracts time operations for testability. Production
// code injects Real(); tests inject Fake() and advance time
// deterministically. Every codctl component that schedules a timer
// takes a Clock instead of calling the time package directly, so the
// session timeout can be tested without real waiting.
package clock

import "time"

// Clock provides the time operations the client needs: reading the
// current time and scheduling a one-shot callback.
type Clock interface {
	// Now returns the current time.
	Now() time.Time

	// After returns a channel that receives the current time once
	// duration d elapses. Equivalent to time.After.
	After(d time.Duration) <-chan time.Time

	// AfterFunc waits for duration d, then calls f in its own
	// goroutine. The returned Timer cancels the pending call with
	// Stop. If d <= 0, f runs immediately.
	AfterFunc(d time.Duration, f func()) *Timer
}

// Timer is a scheduled one-shot event created by AfterFunc.
type Timer struct {
	stopFunc func() bool
}

// Stop prevents the Timer from firing. Returns true if the call stops
// the timer, false if the timer has already fired or been stopped.
func (t *Timer) Stop() bool { return t.stopFunc() }
