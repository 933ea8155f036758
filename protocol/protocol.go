// Copyright 2026 The codplayer Authors
// SPDX-License-Identifier: MIT

// Package protocol defines the codplayer command vocabulary, the RPC
// and state-feed wire envelopes, and the reply grammar shared by all
// transports.
//
// A reply is a sequence of string parts. The first part is the reply
// type: "state", "rip_state" and "disc" carry a JSON payload in the
// second part, "ok" carries an optional JSON payload, and "error"
// carries the daemon's failure message. Anything else is a protocol
// violation and surfaces as a ClientError.
//
// Envelope types carry json tags only: the websocket transport sends
// them as JSON and the unix socket transport as CBOR, and the CBOR
// codec reads json tags as fallback, so one tag controls both.
package protocol

import (
	"encoding/json"
	"fmt"

	"github.com/codplayer/codctl/state"
)

// Command names understood by the daemon.
const (
	CmdState     = "state"
	CmdRipState  = "rip_state"
	CmdSource    = "source"
	CmdDisc      = "disc"
	CmdRadio     = "radio"
	CmdPlay      = "play"
	CmdPause     = "pause"
	CmdPlayPause = "play_pause"
	CmdNext      = "next"
	CmdPrev      = "prev"
	CmdStop      = "stop"
	CmdEject     = "eject"
	CmdEjected   = "ejected"
	CmdQuit      = "quit"
	CmdVersion   = "version"
)

// Command is one command invocation: a name and its positional
// arguments. Constructed once per invocation and never mutated.
type Command struct {
	Name string
	Args []string
}

func (c Command) String() string {
	if len(c.Args) == 0 {
		return c.Name
	}
	return fmt.Sprintf("%s %v", c.Name, c.Args)
}

// Category identifies one stream of the daemon's state feed.
type Category string

const (
	CategoryState    Category = "state"
	CategoryRipState Category = "rip_state"
	CategoryDisc     Category = "disc"
)

// Request is the RPC request envelope. ID correlates the eventual
// reply back to the call.
type Request struct {
	ID      string   `json:"id"`
	Command string   `json:"command"`
	Args    []string `json:"args,omitempty"`
}

// Reply is the RPC reply envelope: the correlation ID of the request
// it answers plus the multipart reply body.
type Reply struct {
	ID    string   `json:"id"`
	Parts []string `json:"parts"`
}

// Update is one message on the state feed.
type Update struct {
	Category Category        `json:"category"`
	Payload  json.RawMessage `json:"payload,omitempty"`
}

// Subscribe is the request sent on the state socket to select feed
// categories. An empty set means all categories.
type Subscribe struct {
	Categories []Category `json:"categories,omitempty"`
}

// CommandError reports that the daemon understood a command and
// rejected it, such as an invalid state transition.
type CommandError struct {
	Message string
}

func (e *CommandError) Error() string { return e.Message }

// ClientError reports that the client could not deliver a command or
// could not make sense of what came back.
type ClientError struct {
	Message string
}

func (e *ClientError) Error() string { return e.Message }

// Clientf creates a ClientError from a format string.
func Clientf(format string, args ...any) *ClientError {
	return &ClientError{Message: fmt.Sprintf(format, args...)}
}

// ParseReply decodes the multipart reply body into its payload: a
// *state.State, *state.RipState or *state.Disc for the typed replies,
// a decoded JSON value (possibly nil) for "ok", a CommandError for
// "error", and a ClientError for anything malformed.
func ParseReply(parts []string) (any, error) {
	if len(parts) < 1 {
		return nil, Clientf("got empty response: %v", parts)
	}

	switch parts[0] {
	case "state":
		if len(parts) < 2 {
			return nil, Clientf("missing state in response: %v", parts)
		}
		s, err := state.ParseState([]byte(parts[1]))
		if err != nil {
			return nil, Clientf("%v", err)
		}
		return s, nil

	case "rip_state":
		if len(parts) < 2 {
			return nil, Clientf("missing rip state in response: %v", parts)
		}
		s, err := state.ParseRipState([]byte(parts[1]))
		if err != nil {
			return nil, Clientf("%v", err)
		}
		return s, nil

	case "disc":
		if len(parts) < 2 {
			return nil, Clientf("missing disc in response: %v", parts)
		}
		d, err := state.ParseDisc([]byte(parts[1]))
		if err != nil {
			return nil, Clientf("%v", err)
		}
		return d, nil

	case "ok":
		if len(parts) < 2 || parts[1] == "" {
			return nil, nil
		}
		var value any
		if err := json.Unmarshal([]byte(parts[1]), &value); err != nil {
			return nil, Clientf("error deserializing response: %v", err)
		}
		return value, nil

	case "error":
		if len(parts) < 2 {
			return nil, Clientf("missing details in error response: %v", parts)
		}
		return nil, &CommandError{Message: parts[1]}

	default:
		return nil, Clientf("unexpected return type: %v", parts)
	}
}

// ParseUpdate decodes a state feed message into its payload. Unknown
// categories decode to nil without error: a newer daemon may publish
// categories this client does not know.
func ParseUpdate(update Update) (any, error) {
	var parse func([]byte) (any, error)
	switch update.Category {
	case CategoryState:
		parse = func(data []byte) (any, error) { return state.ParseState(data) }
	case CategoryRipState:
		parse = func(data []byte) (any, error) { return state.ParseRipState(data) }
	case CategoryDisc:
		parse = func(data []byte) (any, error) { return state.ParseDisc(data) }
	default:
		return nil, nil
	}

	if len(update.Payload) == 0 {
		return nil, Clientf("missing payload in %s update", update.Category)
	}
	value, err := parse(update.Payload)
	if err != nil {
		return nil, Clientf("malformed %s update: %v", update.Category, err)
	}
	return value, nil
}
