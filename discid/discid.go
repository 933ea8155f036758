// Copyright 2026 The codplayer Authors
// SPDX-License-Identifier: MIT

// Package discid translates between the two disc identifier formats
// used by codplayer. A Musicbrainz disc ID is 28 characters of
// URL-safe base64 (with the alphabet variation '.', '_', '-' for '+',
// '/', '='). The database ID is the same 20 bytes as lowercase
// base16, which is safe to use as a filename bucket in the disc
// database.
package discid

import (
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"regexp"
	"strings"
)

var (
	validDBID   = regexp.MustCompile(`^[0-9a-fA-F]{40}$`)
	validDiscID = regexp.MustCompile(`^[A-Za-z0-9._-]{28}$`)

	discToBase64 = strings.NewReplacer(".", "+", "_", "/", "-", "=")
	base64ToDisc = strings.NewReplacer("+", ".", "/", "_", "=", "-")
)

// InvalidIDError reports an identifier that is neither a Musicbrainz
// disc ID nor a database ID.
type InvalidIDError struct {
	ID string
}

func (e *InvalidIDError) Error() string {
	return fmt.Sprintf("invalid disc or db id: %s", e.ID)
}

// IsValidDB reports whether id is a well-formed database ID.
func IsValidDB(id string) bool {
	return validDBID.MatchString(id)
}

// IsValidDisc reports whether id is a well-formed Musicbrainz disc ID.
func IsValidDisc(id string) bool {
	return validDiscID.MatchString(id)
}

// ToDB translates a Musicbrainz disc ID to database format.
func ToDB(discID string) (string, error) {
	if !IsValidDisc(discID) {
		return "", &InvalidIDError{ID: discID}
	}
	raw, err := base64.StdEncoding.DecodeString(discToBase64.Replace(discID))
	if err != nil {
		return "", &InvalidIDError{ID: discID}
	}
	return hex.EncodeToString(raw), nil
}

// ToDisc translates a database ID to a Musicbrainz disc ID.
func ToDisc(dbID string) (string, error) {
	if !IsValidDB(dbID) {
		return "", &InvalidIDError{ID: dbID}
	}
	raw, err := hex.DecodeString(dbID)
	if err != nil {
		return "", &InvalidIDError{ID: dbID}
	}
	return base64ToDisc.Replace(base64.StdEncoding.EncodeToString(raw)), nil
}

// Normalize accepts either identifier format and returns the database
// ID the daemon expects. This is what the disc command applies to its
// argument before any RPC is made.
func Normalize(id string) (string, error) {
	if IsValidDB(id) {
		return strings.ToLower(id), nil
	}
	if IsValidDisc(id) {
		return ToDB(id)
	}
	return "", &InvalidIDError{ID: id}
}
