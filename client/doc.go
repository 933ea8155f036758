// Copyright 2026 The codplayer Authors
// SPDX-License-Identifier: MIT

// Package client implements the asynchronous command and state
// protocol for the codplayer daemon.
//
// Everything runs on a single cooperative event loop: exactly one
// callback executes at a time, to completion, so no locking is needed
// anywhere in the session state. Transports deliver inbound traffic
// from their own reader goroutines, but always hand it to the loop via
// [Loop.Schedule]; application callbacks never run off the loop.
//
// [Client] is the pending-call registry. Each dispatched command gets
// a random correlation id; when the matching reply arrives, the
// registry entry is removed first and its continuation invoked after,
// which makes exactly-once completion structural rather than a flag
// check. Replies for unknown ids — typically stragglers arriving
// after a timeout already completed the call — are dropped.
//
// [Subscriber] attaches to the daemon's state feed and dispatches
// each update to a per-category continuation, preserving arrival
// order within a category.
//
// [Session] ties the pieces together for one client invocation: zero
// or more calls, at most one subscription, at most one timeout, and a
// single terminal result threaded out of Run.
package client
