// Copyright (c) Archivekit, Inc.
// SPDX-License-Identifier: MPL-2.0

package materialize

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownArchiveFormat is returned by [Extract] when no registered
	// detector matches the input file. The destination is not touched and no
	// lock is taken in that case.
	ErrUnknownArchiveFormat = errors.New("unknown archive format")

	// ErrCorruptArchive is returned when a file passed detection but its
	// stream could not be unpacked. The destination may be left partially
	// populated; a retry is safe because the destination is recreated on
	// every attempt.
	ErrCorruptArchive = errors.New("corrupt archive")

	// ErrMissingOptionalDependency is returned when the input was identified
	// as a rar archive but rar decoding is disabled in the [Config]. This is
	// a configuration failure, not a corruption failure, and is not fixed by
	// retrying.
	ErrMissingOptionalDependency = errors.New("missing optional dependency")

	// ErrMaxFilesExceeded is returned when an archive contains more entries
	// than the configured maximum.
	ErrMaxFilesExceeded = errors.New("maximum files exceeded")

	// ErrMaxExtractionSizeExceeded is returned when the decompressed output
	// exceeds the configured maximum size.
	ErrMaxExtractionSizeExceeded = errors.New("maximum extraction size exceeded")

	// ErrUnsupportedFile is returned for archive members that cannot be
	// materialized on disk, e.g. device nodes, unless the configuration asks
	// to skip them.
	ErrUnsupportedFile = errors.New("unsupported file type in archive")
)

// handleError records err in the telemetry data, logs it and returns the
// wrapped error to terminate the extraction.
func handleError(cfg *Config, td *TelemetryData, msg string, err error) error {
	err = fmt.Errorf("%s: %w", msg, err)
	td.ExtractionErrors++
	td.LastExtractionError = err
	cfg.Logger().Error(msg, "error", err)
	return err
}

// corrupt tags err so that callers can match it with
// errors.Is(err, ErrCorruptArchive) while keeping the underlying cause in the
// chain.
func corrupt(err error) error {
	return fmt.Errorf("%w: %w", ErrCorruptArchive, err)
}
