// Copyright (c) Archivekit, Inc.
// SPDX-License-Identifier: MPL-2.0

//go:build !unix

package materialize

import (
	"fmt"
	"os"
	"runtime"
)

// flockExclusive is only available on unix as of now.
func flockExclusive(_ *os.File) error {
	return fmt.Errorf("file locking is not supported on this platform (%s)", runtime.GOOS)
}

// flockUnlock is only available on unix as of now.
func flockUnlock(_ *os.File) error {
	return fmt.Errorf("file locking is not supported on this platform (%s)", runtime.GOOS)
}
