// Copyright 2026 The codplayer Authors
// SPDX-License-Identifier: MIT

package discid

import (
	"errors"
	"strings"
	"testing"
)

func TestRoundTrip(t *testing.T) {
	dbID := "e3b0c44298fc1c149afbf4c8996fb92427ae41e4"

	discID, err := ToDisc(dbID)
	if err != nil {
		t.Fatalf("ToDisc: %v", err)
	}
	if len(discID) != 28 {
		t.Fatalf("disc id length = %d, want 28", len(discID))
	}
	if strings.ContainsAny(discID, "+/=") {
		t.Fatalf("disc id %q contains raw base64 characters", discID)
	}

	back, err := ToDB(discID)
	if err != nil {
		t.Fatalf("ToDB: %v", err)
	}
	if back != dbID {
		t.Fatalf("round trip = %q, want %q", back, dbID)
	}
}

func TestNormalize(t *testing.T) {
	dbID := "e3b0c44298fc1c149afbf4c8996fb92427ae41e4"
	discID, err := ToDisc(dbID)
	if err != nil {
		t.Fatalf("ToDisc: %v", err)
	}

	for _, tc := range []struct {
		name  string
		input string
		want  string
	}{
		{"db id passes through", dbID, dbID},
		{"uppercase db id lowercased", strings.ToUpper(dbID), dbID},
		{"disc id translated", discID, dbID},
	} {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Normalize(tc.input)
			if err != nil {
				t.Fatalf("Normalize(%q): %v", tc.input, err)
			}
			if got != tc.want {
				t.Fatalf("Normalize(%q) = %q, want %q", tc.input, got, tc.want)
			}
		})
	}
}

func TestNormalizeRejectsGarbage(t *testing.T) {
	for _, input := range []string{
		"",
		"abc123",
		"e3b0c44298fc1c149afbf4c8996fb92427ae41",     // too short for db id
		"zzb0c44298fc1c149afbf4c8996fb92427ae41e4z4", // wrong length, bad chars
	} {
		_, err := Normalize(input)
		if err == nil {
			t.Errorf("Normalize(%q) accepted", input)
			continue
		}
		var invalid *InvalidIDError
		if !errors.As(err, &invalid) {
			t.Errorf("Normalize(%q) error type = %T", input, err)
			continue
		}
		if want := "invalid disc or db id: " + input; err.Error() != want {
			t.Errorf("message = %q, want %q", err.Error(), want)
		}
	}
}
