// Copyright (c) Archivekit, Inc.
// SPDX-License-Identifier: MPL-2.0

package materialize

import (
	"context"
	"encoding/json"
	"time"
)

// now is a function pointer that returns time.Now to the caller.
var now = time.Now

// TelemetryData holds all telemetry data of a single extraction.
type TelemetryData struct {
	// ExtractedDirs is the number of extracted directories
	ExtractedDirs int64

	// ExtractedFiles is the number of extracted files
	ExtractedFiles int64

	// ExtractedSymlinks is the number of extracted symlinks
	ExtractedSymlinks int64

	// ExtractedType is the detected archive type
	ExtractedType string

	// ExtractionDuration is the time it took to extract the archive
	ExtractionDuration time.Duration

	// ExtractionErrors is the number of errors during extraction
	ExtractionErrors int64

	// ExtractionSize is the size of the extracted content
	ExtractionSize int64

	// InputSize is the size of the input file
	InputSize int64

	// LastExtractionError is the last error during extraction
	LastExtractionError error

	// UnsupportedFiles is the number of skipped unsupported files
	UnsupportedFiles int64

	// LastUnsupportedFile is the name of the last skipped unsupported file
	LastUnsupportedFile string
}

// String returns a string representation of [TelemetryData].
func (td TelemetryData) String() string {
	b, _ := json.Marshal(td)
	return string(b)
}

// MarshalJSON implements the [encoding/json.Marshaler] interface.
func (td TelemetryData) MarshalJSON() ([]byte, error) {
	var lastError string
	if td.LastExtractionError != nil {
		lastError = td.LastExtractionError.Error()
	}
	return json.Marshal(struct {
		ExtractedDirs       int64         `json:"extracted_dirs"`
		ExtractedFiles      int64         `json:"extracted_files"`
		ExtractedSymlinks   int64         `json:"extracted_symlinks"`
		ExtractedType       string        `json:"extracted_type"`
		ExtractionDuration  time.Duration `json:"extraction_duration"`
		ExtractionErrors    int64         `json:"extraction_errors"`
		ExtractionSize      int64         `json:"extraction_size"`
		InputSize           int64         `json:"input_size"`
		LastExtractionError string        `json:"last_extraction_error"`
		UnsupportedFiles    int64         `json:"unsupported_files"`
		LastUnsupportedFile string        `json:"last_unsupported_file"`
	}{
		ExtractedDirs:       td.ExtractedDirs,
		ExtractedFiles:      td.ExtractedFiles,
		ExtractedSymlinks:   td.ExtractedSymlinks,
		ExtractedType:       td.ExtractedType,
		ExtractionDuration:  td.ExtractionDuration,
		ExtractionErrors:    td.ExtractionErrors,
		ExtractionSize:      td.ExtractionSize,
		InputSize:           td.InputSize,
		LastExtractionError: lastError,
		UnsupportedFiles:    td.UnsupportedFiles,
		LastUnsupportedFile: td.LastUnsupportedFile,
	})
}

// TelemetryHook is a function that consumes telemetry data after a finished
// extraction.
type TelemetryHook func(context.Context, *TelemetryData)

// captureExtractionDuration stores the elapsed time since start in td.
func captureExtractionDuration(td *TelemetryData, start time.Time) {
	td.ExtractionDuration = now().Sub(start)
}
