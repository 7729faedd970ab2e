// Copyright (c) Archivekit, Inc.
// SPDX-License-Identifier: MPL-2.0

//go:build unix

package materialize

import (
	"os"

	"golang.org/x/sys/unix"
)

// flockExclusive blocks until an exclusive advisory lock on f is granted.
func flockExclusive(f *os.File) error {
	for {
		err := unix.Flock(int(f.Fd()), unix.LOCK_EX)
		if err != unix.EINTR {
			return err
		}
	}
}

// flockUnlock releases the advisory lock on f.
func flockUnlock(f *os.File) error {
	return unix.Flock(int(f.Fd()), unix.LOCK_UN)
}
