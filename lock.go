// Copyright (c) Archivekit, Inc.
// SPDX-License-Identifier: MPL-2.0

package materialize

import (
	"fmt"
	"os"
)

// lockFileSuffix is appended to the input path to derive the lock file path.
// Callers must not pre-create the lock file or rely on its contents; it is
// an opaque mutual-exclusion token.
const lockFileSuffix = ".lock"

// fileLock serializes extraction of one input file across OS processes
// sharing a filesystem. It is backed by an OS advisory lock tied to process
// lifetime, so a holder that crashes cannot permanently deadlock others.
type fileLock struct {
	f *os.File
}

// acquireFileLock opens (creating it if needed) the lock file for the input
// at path and blocks without bound until the exclusive lock is granted.
// Callers wanting bounded wait must enforce it externally.
//
// The lock file is left in place on release: removing it would reintroduce a
// race between acquisition and deletion, and a stray empty lock file is
// harmless.
func acquireFileLock(path string) (*fileLock, error) {
	f, err := os.OpenFile(path+lockFileSuffix, os.O_CREATE|os.O_RDWR, 0640)
	if err != nil {
		return nil, fmt.Errorf("cannot open lock file: %w", err)
	}
	if err := flockExclusive(f); err != nil {
		f.Close()
		return nil, fmt.Errorf("cannot acquire file lock: %w", err)
	}
	return &fileLock{f: f}, nil
}

// release unlocks and closes the lock file. It is safe to call on every exit
// path; errors on release are not actionable and are discarded.
func (l *fileLock) release() {
	_ = flockUnlock(l.f)
	_ = l.f.Close()
}
