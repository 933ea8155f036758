// Copyright 2026 The codplayer Authors
// SPDX-License-Identifier: MIT

package cli

import "testing"

func TestLevenshtein(t *testing.T) {
	cases := []struct {
		a, b string
		want int
	}{
		{"", "", 0},
		{"play", "play", 0},
		{"paly", "play", 2},
		{"stat", "state", 1},
		{"ejct", "eject", 1},
		{"radio", "disc", 4},
	}
	for _, c := range cases {
		if got := levenshtein(c.a, c.b); got != c.want {
			t.Errorf("levenshtein(%q, %q) = %d, want %d", c.a, c.b, got, c.want)
		}
	}
}

func TestSuggestCommandThreshold(t *testing.T) {
	commands := []*Command{{Name: "play"}, {Name: "pause"}, {Name: "eject"}}

	if got := suggestCommand("pasue", commands); got != "pause" {
		t.Errorf("suggestion = %q, want pause", got)
	}
	// Nothing within edit distance 3 of this.
	if got := suggestCommand("subscribe", commands); got != "" {
		t.Errorf("suggestion = %q, want none", got)
	}
}
