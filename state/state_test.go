// Copyright 2026 The codplayer Authors
// SPDX-License-Identifier: MIT

package state

import "testing"

func TestParseState(t *testing.T) {
	payload := `{
		"state": "PLAY",
		"disc_id": "e3b0c44298fc1c149afbf4c8996fb92427ae41e4",
		"track": 2,
		"no_tracks": 10,
		"index": 1,
		"position": 63,
		"length": 245,
		"ripping": false,
		"audio_device_error": null
	}`

	s, err := ParseState([]byte(payload))
	if err != nil {
		t.Fatalf("ParseState: %v", err)
	}
	if s.State != Play {
		t.Errorf("State = %q", s.State)
	}
	if s.Track != 2 || s.NoTracks != 10 {
		t.Errorf("track = %d/%d", s.Track, s.NoTracks)
	}
	if s.Ripping.Active {
		t.Error("Ripping.Active = true")
	}

	want := "PLAY disc: e3b0c44298fc1c149afbf4c8996fb92427ae41e4 track: 2/10 index: 1 position: 63 length: 245 ripping: - audio_device_error: -"
	if got := s.String(); got != want {
		t.Errorf("String() = %q\nwant      %q", got, want)
	}
}

func TestParseStateRippingVariants(t *testing.T) {
	for _, tc := range []struct {
		name    string
		payload string
		want    Ripping
	}{
		{"false", `{"state": "PLAY", "ripping": false}`, Ripping{}},
		{"null", `{"state": "PLAY", "ripping": null}`, Ripping{}},
		{"true", `{"state": "PLAY", "ripping": true}`, Ripping{Active: true}},
		{"percent", `{"state": "PLAY", "ripping": 42}`, Ripping{Active: true, Percent: 42}},
	} {
		t.Run(tc.name, func(t *testing.T) {
			s, err := ParseState([]byte(tc.payload))
			if err != nil {
				t.Fatalf("ParseState: %v", err)
			}
			if s.Ripping != tc.want {
				t.Errorf("Ripping = %+v, want %+v", s.Ripping, tc.want)
			}
		})
	}

	if _, err := ParseState([]byte(`{"state": "PLAY", "ripping": "soon"}`)); err == nil {
		t.Error("string ripping value accepted")
	}
}

func TestParseStateMalformed(t *testing.T) {
	if _, err := ParseState([]byte(`{`)); err == nil {
		t.Error("malformed JSON accepted")
	}
}

func TestParseRipState(t *testing.T) {
	s, err := ParseRipState([]byte(`{"state": "AUDIO", "disc_id": "abc", "progress": 17, "error": null}`))
	if err != nil {
		t.Fatalf("ParseRipState: %v", err)
	}
	if s.State != RipAudio || s.Progress != 17 {
		t.Errorf("got %+v", s)
	}
	if got, want := s.String(), "AUDIO disc: abc progress: 17 error: -"; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}

func TestDiscString(t *testing.T) {
	d, err := ParseDisc([]byte(`{
		"disc_id": "Fy3nZdEC5UrSJDrRR2CEwkuCBMo-",
		"artist": "Kraftwerk",
		"title": "Computer World",
		"tracks": [
			{"number": 1, "length": 305, "title": "Computer World"},
			{"number": 2, "length": 547, "title": "Pocket Calculator"}
		]
	}`))
	if err != nil {
		t.Fatalf("ParseDisc: %v", err)
	}

	want := "Fy3nZdEC5UrSJDrRR2CEwkuCBMo-: Kraftwerk / Computer World\n" +
		"   1. Computer World [5:05]\n" +
		"   2. Pocket Calculator [9:07]"
	if got := d.String(); got != want {
		t.Errorf("String() =\n%q\nwant\n%q", got, want)
	}
}
