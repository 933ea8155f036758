// Copyright 2026 The codplayer Authors
// SPDX-License-Identifier: MIT

package transport

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/codplayer/codctl/protocol"
)

const (
	wsWriteTimeout = 10 * time.Second
	wsPongTimeout  = 60 * time.Second
	wsPingInterval = 30 * time.Second
)

// wsEnvelope is the frame format of the codrestd bridge. Exactly one
// payload field is set, selected by Type.
type wsEnvelope struct {
	Type      string              `json:"type"`
	Request   *protocol.Request   `json:"request,omitempty"`
	Reply     *protocol.Reply     `json:"reply,omitempty"`
	Subscribe *protocol.Subscribe `json:"subscribe,omitempty"`
	Update    *protocol.Update    `json:"update,omitempty"`
}

const (
	wsTypeRequest   = "request"
	wsTypeReply     = "reply"
	wsTypeSubscribe = "subscribe"
	wsTypeUpdate    = "update"
)

// WSConn is a websocket connection to a codrestd bridge. One
// connection carries both the RPC channel and the state feed, so a
// single WSConn serves as the session's command transport and its
// subscribe transport at the same time.
type WSConn struct {
	conn    *websocket.Conn
	writeMu sync.Mutex
	replies chan protocol.Reply
	updates chan protocol.Update
	done    chan struct{}
	logger  *slog.Logger
}

// DialWS connects to the bridge at url (ws:// or wss://) and starts
// the reader and the keepalive pinger.
func DialWS(url string, logger *slog.Logger) (*WSConn, error) {
	dialer := websocket.Dialer{HandshakeTimeout: dialTimeout}
	conn, _, err := dialer.Dial(url, nil)
	if err != nil {
		return nil, fmt.Errorf("connecting to %s: %w", url, err)
	}
	w := &WSConn{
		conn:    conn,
		replies: make(chan protocol.Reply, inboundBuffer),
		updates: make(chan protocol.Update, inboundBuffer),
		done:    make(chan struct{}),
		logger:  logger,
	}
	go w.readLoop()
	go w.pingLoop()
	return w, nil
}

// Send writes one request envelope.
func (w *WSConn) Send(request protocol.Request) error {
	return w.writeEnvelope(wsEnvelope{Type: wsTypeRequest, Request: &request})
}

// Subscribe sends the category selection. Updates flow on the same
// connection once the bridge has processed it.
func (w *WSConn) Subscribe(request protocol.Subscribe) error {
	return w.writeEnvelope(wsEnvelope{Type: wsTypeSubscribe, Subscribe: &request})
}

// Replies returns the inbound reply channel. It closes together with
// Updates when the connection dies.
func (w *WSConn) Replies() <-chan protocol.Reply { return w.replies }

// Updates returns the inbound update channel.
func (w *WSConn) Updates() <-chan protocol.Update { return w.updates }

// Close shuts the connection down. The reader exits and closes both
// inbound channels.
func (w *WSConn) Close() error { return w.conn.Close() }

func (w *WSConn) writeEnvelope(envelope wsEnvelope) error {
	w.writeMu.Lock()
	defer w.writeMu.Unlock()
	w.conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout))
	if err := w.conn.WriteJSON(envelope); err != nil {
		return fmt.Errorf("writing %s envelope: %w", envelope.Type, err)
	}
	return nil
}

func (w *WSConn) readLoop() {
	defer func() {
		close(w.replies)
		close(w.updates)
		close(w.done)
	}()

	w.conn.SetPongHandler(func(string) error {
		return w.conn.SetReadDeadline(time.Now().Add(wsPongTimeout))
	})
	w.conn.SetReadDeadline(time.Now().Add(wsPongTimeout))

	for {
		var envelope wsEnvelope
		if err := w.conn.ReadJSON(&envelope); err != nil {
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				w.logger.Debug("websocket closed", "error", err)
			} else {
				w.logger.Warn("websocket read failed", "error", err)
			}
			return
		}

		switch envelope.Type {
		case wsTypeReply:
			if envelope.Reply != nil {
				w.replies <- *envelope.Reply
			}
		case wsTypeUpdate:
			if envelope.Update != nil {
				w.updates <- *envelope.Update
			}
		default:
			// A newer bridge may send envelope types this client
			// does not know.
			w.logger.Debug("ignoring unknown envelope", "type", envelope.Type)
		}
	}
}

// pingLoop keeps the connection alive through idle follow sessions,
// where minutes can pass between state updates.
func (w *WSConn) pingLoop() {
	ticker := time.NewTicker(wsPingInterval)
	defer ticker.Stop()
	for {
		select {
		case <-w.done:
			return
		case <-ticker.C:
			w.writeMu.Lock()
			w.conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout))
			err := w.conn.WriteMessage(websocket.PingMessage, nil)
			w.writeMu.Unlock()
			if err != nil {
				return
			}
		}
	}
}
