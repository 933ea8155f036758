// Copyright 2026 The codplayer Authors
// SPDX-License-Identifier: MIT

package transport

import (
	"encoding/json"
	"io"
	"log/slog"
	"net"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"github.com/codplayer/codctl/lib/codec"
	"github.com/codplayer/codctl/lib/testutil"
	"github.com/codplayer/codctl/protocol"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// listenUnix creates a daemon-side socket in a temp dir and closes it
// with the test.
func listenUnix(t *testing.T, name string) net.Listener {
	t.Helper()
	listener, err := net.Listen("unix", filepath.Join(t.TempDir(), name))
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	t.Cleanup(func() { listener.Close() })
	return listener
}

func TestCommandSocketRoundTrip(t *testing.T) {
	listener := listenUnix(t, "codplayer.sock")

	go func() {
		conn, err := listener.Accept()
		if err != nil {
			return
		}
		defer conn.Close()

		decoder := codec.NewDecoder(conn)
		var request protocol.Request
		if err := decoder.Decode(&request); err != nil {
			t.Errorf("server decode: %v", err)
			return
		}
		if request.Command != "play" {
			t.Errorf("server got command %q", request.Command)
		}
		reply := protocol.Reply{ID: request.ID, Parts: []string{"ok", `"Playing"`}}
		if err := codec.NewEncoder(conn).Encode(reply); err != nil {
			t.Errorf("server encode: %v", err)
		}
	}()

	socket, err := DialCommand(listener.Addr().String(), testLogger())
	if err != nil {
		t.Fatalf("DialCommand: %v", err)
	}
	defer socket.Close()

	if err := socket.Send(protocol.Request{ID: "a1b2", Command: "play"}); err != nil {
		t.Fatalf("Send: %v", err)
	}

	reply := testutil.RequireReceive(t, socket.Replies(), 5*time.Second, "reply")
	if reply.ID != "a1b2" {
		t.Errorf("reply id = %q", reply.ID)
	}
	if len(reply.Parts) != 2 || reply.Parts[0] != "ok" {
		t.Errorf("reply parts = %v", reply.Parts)
	}
}

func TestCommandSocketCloseEndsReplies(t *testing.T) {
	listener := listenUnix(t, "codplayer.sock")
	go func() {
		conn, err := listener.Accept()
		if err != nil {
			return
		}
		// Hold the connection open; the client closes first.
		io.Copy(io.Discard, conn)
		conn.Close()
	}()

	socket, err := DialCommand(listener.Addr().String(), testLogger())
	if err != nil {
		t.Fatalf("DialCommand: %v", err)
	}

	socket.Close()
	testutil.RequireClosed(t, socket.Replies(), 5*time.Second, "reply channel")
}

func TestDialCommandNoSocket(t *testing.T) {
	_, err := DialCommand(filepath.Join(t.TempDir(), "missing.sock"), testLogger())
	if err == nil {
		t.Fatal("DialCommand succeeded without a daemon")
	}
}

func TestStateSocketSubscribeAndUpdates(t *testing.T) {
	listener := listenUnix(t, "state.sock")

	go func() {
		conn, err := listener.Accept()
		if err != nil {
			return
		}
		defer conn.Close()

		var request protocol.Subscribe
		if err := codec.NewDecoder(conn).Decode(&request); err != nil {
			t.Errorf("server decode: %v", err)
			return
		}
		if len(request.Categories) != 1 || request.Categories[0] != protocol.CategoryState {
			t.Errorf("server got categories %v", request.Categories)
		}

		encoder := codec.NewEncoder(conn)
		for track := 1; track <= 2; track++ {
			update := protocol.Update{
				Category: protocol.CategoryState,
				Payload:  json.RawMessage(`{"state": "PLAY", "track": ` + strconv.Itoa(track) + `}`),
			}
			if err := encoder.Encode(update); err != nil {
				t.Errorf("server encode: %v", err)
				return
			}
		}
	}()

	socket, err := DialState(listener.Addr().String(), testLogger())
	if err != nil {
		t.Fatalf("DialState: %v", err)
	}
	defer socket.Close()

	err = socket.Subscribe(protocol.Subscribe{Categories: []protocol.Category{protocol.CategoryState}})
	if err != nil {
		t.Fatalf("Subscribe: %v", err)
	}

	for track := 1; track <= 2; track++ {
		update := testutil.RequireReceive(t, socket.Updates(), 5*time.Second, "update %d", track)
		if update.Category != protocol.CategoryState {
			t.Errorf("category = %q", update.Category)
		}
		var decoded struct {
			Track int `json:"track"`
		}
		if err := json.Unmarshal(update.Payload, &decoded); err != nil {
			t.Fatalf("payload: %v", err)
		}
		if decoded.Track != track {
			t.Errorf("track = %d, want %d (out of order)", decoded.Track, track)
		}
	}

	// The server is done; its close ends the feed.
	testutil.RequireClosed(t, socket.Updates(), 5*time.Second, "update channel")
}
