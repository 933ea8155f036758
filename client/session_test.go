// Copyright 2026 The codplayer Authors
// SPDX-License-Identifier: MIT

package client

import (
	"bytes"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/codplayer/codctl/lib/clock"
	"github.com/codplayer/codctl/protocol"
	"github.com/codplayer/codctl/state"
)

// lockedBuffer lets the test read output while the loop goroutine is
// still writing.
type lockedBuffer struct {
	mu     sync.Mutex
	buffer bytes.Buffer
}

func (b *lockedBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buffer.Write(p)
}

func (b *lockedBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buffer.String()
}

// waitForLines polls until count lines have been written or the
// deadline passes. Safe to call from helper goroutines: on timeout it
// simply returns, and the main goroutine's assertions catch the
// missing output.
func (b *lockedBuffer) waitForLines(count int) {
	deadline := time.Now().Add(5 * time.Second)
	for strings.Count(b.String(), "\n") < count && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}
}

func newTestSession(transport Transport, fake *clock.FakeClock, timeout time.Duration) (*Session, *lockedBuffer, *lockedBuffer) {
	out := &lockedBuffer{}
	errOut := &lockedBuffer{}
	session := NewSession(transport, Options{
		Clock:       fake,
		Timeout:     timeout,
		Output:      out,
		ErrorOutput: errOut,
		Logger:      testLogger(),
	})
	return session, out, errOut
}

func TestSessionPlayPrintsResponse(t *testing.T) {
	fake := clock.Fake(time.Unix(1000, 0))
	transport := newFakeTransport()
	session, out, _ := newTestSession(transport, fake, 5*time.Second)

	session.Call(protocol.Command{Name: protocol.CmdPlay})

	go func() {
		request := <-transport.sent
		transport.replies <- protocol.Reply{ID: request.ID, Parts: []string{"ok", `"Playing"`}}
	}()

	if err := session.Run(); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if out.String() != "Playing\n" {
		t.Errorf("output = %q", out.String())
	}
}

func TestSessionStateResponseFormatted(t *testing.T) {
	fake := clock.Fake(time.Unix(1000, 0))
	transport := newFakeTransport()
	session, out, _ := newTestSession(transport, fake, 5*time.Second)

	session.Call(protocol.Command{Name: protocol.CmdState})

	go func() {
		request := <-transport.sent
		transport.replies <- protocol.Reply{ID: request.ID, Parts: []string{"state", `{"state": "PLAY", "track": 2, "no_tracks": 9}`}}
	}()

	if err := session.Run(); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !strings.HasPrefix(out.String(), "PLAY disc: - track: 2/9") {
		t.Errorf("output = %q", out.String())
	}
}

func TestSessionQuietSuppressesOutput(t *testing.T) {
	fake := clock.Fake(time.Unix(1000, 0))
	transport := newFakeTransport()
	out := &lockedBuffer{}
	session := NewSession(transport, Options{
		Clock:   fake,
		Timeout: 5 * time.Second,
		Quiet:   true,
		Output:  out,
		Logger:  testLogger(),
	})

	session.Call(protocol.Command{Name: protocol.CmdPlay})
	go func() {
		request := <-transport.sent
		transport.replies <- protocol.Reply{ID: request.ID, Parts: []string{"ok", `"Playing"`}}
	}()

	if err := session.Run(); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if out.String() != "" {
		t.Errorf("output = %q, want none", out.String())
	}
}

func TestSessionTimeout(t *testing.T) {
	fake := clock.Fake(time.Unix(1000, 0))
	transport := newFakeTransport()
	session, out, _ := newTestSession(transport, fake, 2*time.Second)

	session.Call(protocol.Command{Name: protocol.CmdState})

	go func() {
		request := <-transport.sent
		fake.Advance(2 * time.Second)
		// A straggler reply after the timeout must not resurrect the
		// call: the loop is stopped, nothing runs.
		transport.replies <- protocol.Reply{ID: request.ID, Parts: []string{"ok", `"late"`}}
	}()

	err := session.Run()
	var timeoutErr *TimeoutError
	if !errors.As(err, &timeoutErr) {
		t.Fatalf("Run = %v, want TimeoutError", err)
	}
	if err.Error() != "timeout waiting for response" {
		t.Errorf("message = %q", err.Error())
	}
	if out.String() != "" {
		t.Errorf("response printed after timeout: %q", out.String())
	}
}

func TestSessionDaemonErrorStops(t *testing.T) {
	fake := clock.Fake(time.Unix(1000, 0))
	transport := newFakeTransport()
	session, out, _ := newTestSession(transport, fake, 5*time.Second)

	session.Call(protocol.Command{Name: protocol.CmdPlay})

	go func() {
		request := <-transport.sent
		transport.replies <- protocol.Reply{ID: request.ID, Parts: []string{"error", "invalid command in state NO_DISC"}}
	}()

	err := session.Run()
	var commandErr *protocol.CommandError
	if !errors.As(err, &commandErr) {
		t.Fatalf("Run = %v, want CommandError", err)
	}
	if commandErr.Message != "invalid command in state NO_DISC" {
		t.Errorf("message = %q", commandErr.Message)
	}
	if out.String() != "" {
		t.Errorf("output = %q", out.String())
	}
}

func TestSessionTransportErrorKeepsRunning(t *testing.T) {
	fake := clock.Fake(time.Unix(1000, 0))
	transport := newFakeTransport()
	transport.sendErr = errors.New("connection refused")
	session, _, errOut := newTestSession(transport, fake, 2*time.Second)

	session.Call(protocol.Command{Name: protocol.CmdPlay})

	// The send failure is handled on the loop before this marker;
	// advance to the timeout only after it has been reported.
	reported := make(chan struct{})
	session.Loop().Schedule(func() { close(reported) })
	go func() {
		<-reported
		fake.Advance(2 * time.Second)
	}()

	err := session.Run()
	var timeoutErr *TimeoutError
	if !errors.As(err, &timeoutErr) {
		t.Fatalf("Run = %v, want TimeoutError (transport errors must not stop the session)", err)
	}
	if !strings.Contains(errOut.String(), "error sending command play") {
		t.Errorf("errOut = %q", errOut.String())
	}
}

func TestSessionFollowPrintsUpdatesInOrder(t *testing.T) {
	fake := clock.Fake(time.Unix(1000, 0))
	transport := newFakeTransport()
	feed := newFakeFeed()
	session, out, _ := newTestSession(transport, fake, 2*time.Second)

	session.Follow(feed, protocol.CategoryState)

	go func() {
		<-feed.subscribed
		feed.updates <- stateUpdate(state.Play, 1)
		feed.updates <- stateUpdate(state.Play, 2)
	}()

	go func() {
		out.waitForLines(2)
		fake.Advance(2 * time.Second)
	}()

	err := session.Run()
	var timeoutErr *TimeoutError
	if !errors.As(err, &timeoutErr) {
		t.Fatalf("Run = %v, want TimeoutError", err)
	}

	lines := strings.Split(strings.TrimRight(out.String(), "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("output lines = %d: %q", len(lines), out.String())
	}
	if !strings.Contains(lines[0], "track: 1/") || !strings.Contains(lines[1], "track: 2/") {
		t.Errorf("updates out of order:\n%s", out.String())
	}
}

func TestSessionCallThenFollowKeepsRunning(t *testing.T) {
	fake := clock.Fake(time.Unix(1000, 0))
	transport := newFakeTransport()
	feed := newFakeFeed()
	session, out, _ := newTestSession(transport, fake, 2*time.Second)

	// The follow pattern: request the current state, then keep
	// following updates. The completed call must not stop the session
	// while the subscription is live.
	session.Call(protocol.Command{Name: protocol.CmdState})
	session.Follow(feed, protocol.CategoryState)

	go func() {
		request := <-transport.sent
		transport.replies <- protocol.Reply{ID: request.ID, Parts: []string{"state", `{"state": "STOP"}`}}
		<-feed.subscribed
		out.waitForLines(1)
		feed.updates <- stateUpdate(state.Play, 5)
		out.waitForLines(2)
		fake.Advance(2 * time.Second)
	}()

	err := session.Run()
	var timeoutErr *TimeoutError
	if !errors.As(err, &timeoutErr) {
		t.Fatalf("Run = %v, want TimeoutError", err)
	}
	if strings.Count(out.String(), "\n") != 2 {
		t.Errorf("output = %q", out.String())
	}
}

func TestSessionUnclassifiedErrorPropagates(t *testing.T) {
	fake := clock.Fake(time.Unix(1000, 0))
	transport := newFakeTransport()
	session, _, errOut := newTestSession(transport, fake, 0)

	defect := errors.New("boom")
	session.Loop().Schedule(func() { session.handleError(defect) })

	err := session.Run()
	if !errors.Is(err, defect) {
		t.Fatalf("Run = %v, want the defect propagated", err)
	}
	if errOut.String() != "" {
		t.Errorf("defect was printed instead of propagated: %q", errOut.String())
	}
}
