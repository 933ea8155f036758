// Copyright 2026 The codplayer Authors
// SPDX-License-Identifier: MIT

// Package transport connects the client engine to a codplayer daemon.
//
// Two transports exist. The unix socket transport speaks the daemon's
// native protocol: CBOR envelopes on a persistent connection, one
// socket for commands and one for the state feed. The websocket
// transport speaks JSON envelopes to a codrestd bridge and carries
// both the RPC channel and the state feed on a single connection.
//
// Every transport pumps inbound traffic into a channel owned by a
// single reader goroutine, which is what gives the client engine its
// per-channel ordering guarantee. The channel closes when the
// connection dies; the transport never reconnects on its own.
package transport
