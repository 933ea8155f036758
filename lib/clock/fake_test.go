// Copyright 2026 The codplayer Authors
// SPDX-License-Identifier: MIT

package clock

import (
	"testing"
	"time"
)

func TestFakeAfterFuncFiresOnAdvance(t *testing.T) {
	fake := Fake(time.Unix(1000, 0))

	fired := 0
	fake.AfterFunc(5*time.Second, func() { fired++ })

	fake.Advance(4 * time.Second)
	if fired != 0 {
		t.Fatalf("timer fired %d times before deadline", fired)
	}

	fake.Advance(1 * time.Second)
	if fired != 1 {
		t.Fatalf("fired = %d, want 1", fired)
	}

	// Further advances must not re-fire a one-shot timer.
	fake.Advance(10 * time.Second)
	if fired != 1 {
		t.Fatalf("fired = %d after extra advance, want 1", fired)
	}
}

func TestFakeAfterFuncStop(t *testing.T) {
	fake := Fake(time.Unix(1000, 0))

	fired := false
	timer := fake.AfterFunc(time.Second, func() { fired = true })

	if !timer.Stop() {
		t.Fatal("Stop returned false for a pending timer")
	}
	fake.Advance(2 * time.Second)
	if fired {
		t.Fatal("stopped timer fired")
	}
	if timer.Stop() {
		t.Fatal("second Stop returned true")
	}
}

func TestFakeAfterFuncImmediate(t *testing.T) {
	fake := Fake(time.Unix(1000, 0))

	fired := false
	fake.AfterFunc(0, func() { fired = true })
	if !fired {
		t.Fatal("zero-duration AfterFunc did not run synchronously")
	}
}

func TestFakeAdvanceFiresInDeadlineOrder(t *testing.T) {
	fake := Fake(time.Unix(1000, 0))

	var order []string
	fake.AfterFunc(3*time.Second, func() { order = append(order, "late") })
	fake.AfterFunc(1*time.Second, func() { order = append(order, "early") })

	fake.Advance(5 * time.Second)
	if len(order) != 2 || order[0] != "early" || order[1] != "late" {
		t.Fatalf("fire order = %v, want [early late]", order)
	}
}

func TestFakeAfter(t *testing.T) {
	fake := Fake(time.Unix(1000, 0))

	ch := fake.After(2 * time.Second)
	select {
	case <-ch:
		t.Fatal("After channel received before Advance")
	default:
	}

	fake.Advance(2 * time.Second)
	select {
	case at := <-ch:
		if !at.Equal(time.Unix(1002, 0)) {
			t.Fatalf("fire time = %v, want %v", at, time.Unix(1002, 0))
		}
	default:
		t.Fatal("After channel empty after Advance")
	}
}

func TestFakeNowTracksAdvance(t *testing.T) {
	start := time.Unix(1000, 0)
	fake := Fake(start)
	fake.Advance(90 * time.Second)
	if got := fake.Now(); !got.Equal(start.Add(90 * time.Second)) {
		t.Fatalf("Now = %v, want %v", got, start.Add(90*time.Second))
	}
}
