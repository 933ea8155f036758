// Copyright 2026 The codplayer Authors
// SPDX-License-Identifier: MIT

// Package config provides configuration loading for codctl.
//
// Configuration is loaded from a single YAML file specified by:
//   - the --config flag passed to the command, or
//   - the CODPLAYER_CONFIG environment variable, or
//   - the default path /etc/codplayer.conf
//
// There are no other fallbacks and no discovery chain. This keeps the
// configuration deterministic and auditable: the daemon and every
// client read the same endpoints from the same file.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// DefaultFile is the config path used when neither the --config flag
// nor CODPLAYER_CONFIG is set.
const DefaultFile = "/etc/codplayer.conf"

// EnvVar overrides the default config path when set.
const EnvVar = "CODPLAYER_CONFIG"

// Config holds the client-relevant subset of the codplayer
// configuration: where the daemon listens, and the radio station
// catalog used by the radio command.
type Config struct {
	// ControlFIFO is the named pipe for fire-and-forget commands.
	ControlFIFO string `yaml:"control_fifo"`

	// CommandSocket is the Unix socket carrying the RPC
	// request/response channel.
	CommandSocket string `yaml:"command_socket"`

	// StateSocket is the Unix socket publishing state, rip_state and
	// disc updates.
	StateSocket string `yaml:"state_socket"`

	// RemoteURL is an optional websocket endpoint of a codrestd
	// bridge. When set, the RPC and state channels go over websocket
	// instead of the local sockets.
	RemoteURL string `yaml:"remote_url,omitempty"`

	// Stations is the radio station catalog.
	Stations []Station `yaml:"stations,omitempty"`
}

// Station is a configured radio station.
type Station struct {
	// ID selects the station on the command line.
	ID string `yaml:"id"`
	// URL is the mp3 stream URL.
	URL string `yaml:"url"`
	// Name is the human-readable station name.
	Name string `yaml:"name"`
}

// Default returns the built-in configuration used when no config file
// exists at the default path.
func Default() *Config {
	return &Config{
		ControlFIFO:   "/var/run/codplayer/control",
		CommandSocket: "/var/run/codplayer/command.sock",
		StateSocket:   "/var/run/codplayer/state.sock",
	}
}

// Load reads the configuration. path comes from the --config flag and
// may be empty, in which case CODPLAYER_CONFIG and then DefaultFile
// are consulted. A missing file is an error when the path was given
// explicitly; the built-in defaults apply when the default path does
// not exist.
func Load(path string) (*Config, error) {
	explicit := path != ""
	if path == "" {
		path = os.Getenv(EnvVar)
		explicit = path != ""
	}
	if path == "" {
		path = DefaultFile
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) && !explicit {
			return Default(), nil
		}
		return nil, fmt.Errorf("reading config file %s: %w", path, err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("error reading config file %s: %w", path, err)
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("error reading config file %s: %w", path, err)
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.CommandSocket == "" && c.RemoteURL == "" {
		return fmt.Errorf("one of command_socket or remote_url must be set")
	}
	seen := make(map[string]bool, len(c.Stations))
	for _, station := range c.Stations {
		if station.ID == "" || station.URL == "" {
			return fmt.Errorf("station %q: id and url are required", station.ID)
		}
		if seen[station.ID] {
			return fmt.Errorf("duplicate station id %q", station.ID)
		}
		seen[station.ID] = true
	}
	return nil
}

// StationByID returns the configured station with the given id.
func (c *Config) StationByID(id string) (Station, bool) {
	for _, station := range c.Stations {
		if station.ID == id {
			return station, true
		}
	}
	return Station{}, false
}
