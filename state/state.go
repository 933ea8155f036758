// Copyright 2026 The codplayer Authors
// SPDX-License-Identifier: MIT

// Package state defines the player state model as published by the
// codplayer daemon: the player state proper, the disc ripping state,
// and the loaded disc description. The wire format of all three is
// the daemon's JSON, identical to what it writes to its state file.
package state

import (
	"encoding/json"
	"fmt"
	"strings"
)

// PlayerState is the daemon's top-level state identifier.
type PlayerState string

const (
	// NoDisc means no disc is loaded in the player.
	NoDisc PlayerState = "NO_DISC"
	// Working means a disc has been loaded and streaming is starting.
	Working PlayerState = "WORKING"
	// Play means the disc is playing normally.
	Play PlayerState = "PLAY"
	// Pause means the disc is paused.
	Pause PlayerState = "PAUSE"
	// Stop means playing finished but the disc is still loaded.
	Stop PlayerState = "STOP"
)

// State is the player state as visible to external users.
type State struct {
	State PlayerState `json:"state"`

	// DiscID is the Musicbrainz disc ID of the loaded disc, or empty.
	DiscID string `json:"disc_id"`

	// Track is the current track, counting from 1. 0 when stopped or
	// no disc is loaded.
	Track int `json:"track"`

	// NoTracks is the number of tracks on the disc.
	NoTracks int `json:"no_tracks"`

	// Index is the track index currently played: 0 in the pregap,
	// 1+ in the main sections.
	Index int `json:"index"`

	// Position is the position in the track in whole seconds,
	// counting from index 1 (negative in the pregap).
	Position int `json:"position"`

	// Length is the length of the current track in whole seconds.
	Length int `json:"length"`

	Ripping Ripping `json:"ripping"`

	// AudioDeviceError describes the audio device error state, if any.
	AudioDeviceError string `json:"audio_device_error"`
}

func (s *State) String() string {
	return fmt.Sprintf("%s disc: %s track: %d/%d index: %d position: %d length: %d ripping: %s audio_device_error: %s",
		s.State, orDash(s.DiscID), s.Track, s.NoTracks, s.Index, s.Position, s.Length,
		s.Ripping, orDash(s.AudioDeviceError))
}

// Ripping is the daemon's rip progress indicator. On the wire it is
// either false (not ripping) or a 0-100 percentage, a leftover from
// the original dynamically typed field.
type Ripping struct {
	Active  bool
	Percent int
}

func (r Ripping) String() string {
	if !r.Active {
		return "-"
	}
	return fmt.Sprintf("%d%%", r.Percent)
}

func (r *Ripping) UnmarshalJSON(data []byte) error {
	switch string(data) {
	case "null", "false":
		*r = Ripping{}
		return nil
	case "true":
		*r = Ripping{Active: true}
		return nil
	}
	var percent int
	if err := json.Unmarshal(data, &percent); err != nil {
		return fmt.Errorf("ripping must be a bool or a percentage: %w", err)
	}
	*r = Ripping{Active: true, Percent: percent}
	return nil
}

func (r Ripping) MarshalJSON() ([]byte, error) {
	if !r.Active {
		return []byte("false"), nil
	}
	return json.Marshal(r.Percent)
}

// RipPhase identifies what the ripping process is working on.
type RipPhase string

const (
	RipInactive RipPhase = "INACTIVE"
	RipAudio    RipPhase = "AUDIO"
	RipTOC      RipPhase = "TOC"
)

// RipState is the disc ripping state, published on its own category
// since ripping runs independently of playback.
type RipState struct {
	State RipPhase `json:"state"`

	// DiscID is the database ID of the disc being ripped.
	DiscID string `json:"disc_id"`

	// Progress is the percentage done of the current phase, or -1
	// when the ripper cannot estimate it.
	Progress int `json:"progress"`

	// Error describes a rip failure, if any.
	Error string `json:"error"`
}

func (s *RipState) String() string {
	return fmt.Sprintf("%s disc: %s progress: %d error: %s",
		s.State, orDash(s.DiscID), s.Progress, orDash(s.Error))
}

// Disc describes a disc in the database, including any details known
// from Musicbrainz.
type Disc struct {
	DiscID string `json:"disc_id"`
	MBID   string `json:"mb_id"`

	Title   string `json:"title"`
	Artist  string `json:"artist"`
	Barcode string `json:"barcode"`
	Date    string `json:"date"`
	Catalog string `json:"catalog"`

	Tracks []Track `json:"tracks"`
}

// Track is one track on a Disc.
type Track struct {
	Number int    `json:"number"`
	Length int    `json:"length"`
	Title  string `json:"title"`
	Artist string `json:"artist"`
}

// String renders the disc as the track listing shown by the source
// and disc commands.
func (d *Disc) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s: %s / %s", d.DiscID, orDash(d.Artist), orDash(d.Title))
	for _, track := range d.Tracks {
		fmt.Fprintf(&b, "\n  %2d. %s [%d:%02d]",
			track.Number, orDash(track.Title), track.Length/60, track.Length%60)
	}
	return b.String()
}

// ParseState decodes a daemon state payload.
func ParseState(data []byte) (*State, error) {
	var s State
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("error deserializing state: %w", err)
	}
	return &s, nil
}

// ParseRipState decodes a daemon rip state payload.
func ParseRipState(data []byte) (*RipState, error) {
	var s RipState
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("error deserializing rip state: %w", err)
	}
	return &s, nil
}

// ParseDisc decodes a daemon disc payload.
func ParseDisc(data []byte) (*Disc, error) {
	var d Disc
	if err := json.Unmarshal(data, &d); err != nil {
		return nil, fmt.Errorf("error deserializing disc: %w", err)
	}
	return &d, nil
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
