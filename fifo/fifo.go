// Copyright 2026 The codplayer Authors
// SPDX-License-Identifier: MIT

// Package fifo sends fire-and-forget commands to the daemon's control
// named pipe. The pipe is opened non-blocking so a missing reader is
// reported immediately instead of blocking the caller; a control
// command that cannot be delivered right now must fail visibly, never
// queue.
package fifo

import (
	"errors"
	"fmt"

	"golang.org/x/sys/unix"
)

// NoListenerError means the fifo exists but no process is reading it:
// the daemon is not running.
type NoListenerError struct {
	Path string
}

func (e *NoListenerError) Error() string {
	return fmt.Sprintf("error sending command to %s: no daemon listening", e.Path)
}

// NoTargetError means the fifo path does not exist.
type NoTargetError struct {
	Path string
}

func (e *NoTargetError) Error() string {
	return fmt.Sprintf("error sending command to %s: no such fifo", e.Path)
}

// Send writes a single newline-terminated command token to the fifo
// at path and closes it. No response is awaited. None of the failure
// modes are retried.
func Send(path, command string) error {
	fd, err := unix.Open(path, unix.O_WRONLY|unix.O_NONBLOCK, 0)
	if err != nil {
		switch {
		case errors.Is(err, unix.ENXIO):
			return &NoListenerError{Path: path}
		case errors.Is(err, unix.ENOENT):
			return &NoTargetError{Path: path}
		default:
			return fmt.Errorf("error sending command to fifo %s: %w", path, err)
		}
	}
	defer unix.Close(fd)

	if _, err := unix.Write(fd, []byte(command+"\n")); err != nil {
		return fmt.Errorf("error sending command to fifo %s: %w", path, err)
	}
	return nil
}
