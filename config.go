// Copyright (c) Archivekit, Inc.
// SPDX-License-Identifier: MPL-2.0

package materialize

import (
	"context"
	"io/fs"
)

// ConfigOption is a function pointer to implement the option pattern.
type ConfigOption func(*Config)

// Config holds all configuration options for the extraction process. The
// zero value is not usable; construct instances with [NewConfig] and adjust
// them in option pattern style.
type Config struct {
	// continueOnUnsupportedFiles decides whether archive members that cannot
	// be materialized on disk (device nodes, rar symlinks) are skipped and
	// counted instead of failing the extraction
	continueOnUnsupportedFiles bool

	// customCreateDirMode is the file mode for directories created during
	// extraction that are not defined in the archive (respecting umask)
	customCreateDirMode fs.FileMode

	// customDecompressFileMode is the file mode for a decompressed
	// single-stream output file (respecting umask)
	customDecompressFileMode fs.FileMode

	// logger stream for extraction
	logger logger

	// maxExtractionSize is the maximum size of the content after
	// decompression. Set value to -1 to disable the check.
	maxExtractionSize int64

	// maxFiles is the maximum number of entries (including directories and
	// symlinks) in an archive. Set value to -1 to disable the check.
	maxFiles int64

	// rarSupport reflects whether rar decoding is available in this
	// deployment. It is an injected capability flag, not probed at runtime.
	rarSupport bool

	// telemetryHook is a function to consume telemetry data after finished
	// extraction. Important: do not adjust this value after extraction
	// started.
	telemetryHook TelemetryHook
}

// NewConfig creates a new [Config] with defaults and applies opts.
func NewConfig(opts ...ConfigOption) *Config {
	const (
		continueOnUnsupportedFiles = false
		customCreateDirMode        = 0750
		customDecompressFileMode   = 0640
		maxExtractionSize          = -1
		maxFiles                   = -1
		rarSupport                 = true
	)

	cfg := &Config{
		continueOnUnsupportedFiles: continueOnUnsupportedFiles,
		customCreateDirMode:        customCreateDirMode,
		customDecompressFileMode:   customDecompressFileMode,
		logger:                     discardLogger(),
		maxExtractionSize:          maxExtractionSize,
		maxFiles:                   maxFiles,
		rarSupport:                 rarSupport,
	}

	for _, opt := range opts {
		opt(cfg)
	}

	return cfg
}

// WithContinueOnUnsupportedFiles sets whether unsupported archive members are
// skipped instead of failing the extraction.
func WithContinueOnUnsupportedFiles(enable bool) ConfigOption {
	return func(c *Config) {
		c.continueOnUnsupportedFiles = enable
	}
}

// WithCreateDirMode sets the file mode for created directories that are not
// defined in the archive.
func WithCreateDirMode(mode fs.FileMode) ConfigOption {
	return func(c *Config) {
		c.customCreateDirMode = mode
	}
}

// WithDecompressFileMode sets the file mode for the output file of a
// single-stream decompression.
func WithDecompressFileMode(mode fs.FileMode) ConfigOption {
	return func(c *Config) {
		c.customDecompressFileMode = mode
	}
}

// WithLogger sets the logger for the extraction. l must be safe for
// concurrent use; [log/slog.Logger] qualifies.
func WithLogger(l logger) ConfigOption {
	return func(c *Config) {
		c.logger = l
	}
}

// WithMaxExtractionSize sets the maximum size of the decompressed content.
// Set to -1 to disable the check.
func WithMaxExtractionSize(maxExtractionSize int64) ConfigOption {
	return func(c *Config) {
		c.maxExtractionSize = maxExtractionSize
	}
}

// WithMaxFiles sets the maximum number of entries in an archive. Set to -1
// to disable the check.
func WithMaxFiles(maxFiles int64) ConfigOption {
	return func(c *Config) {
		c.maxFiles = maxFiles
	}
}

// WithRarSupport sets whether rar decoding is available. Extracting a rar
// archive with support disabled fails with [ErrMissingOptionalDependency].
func WithRarSupport(enable bool) ConfigOption {
	return func(c *Config) {
		c.rarSupport = enable
	}
}

// WithTelemetryHook sets a hook that receives the telemetry data of every
// finished extraction.
func WithTelemetryHook(hook TelemetryHook) ConfigOption {
	return func(c *Config) {
		c.telemetryHook = hook
	}
}

// ContinueOnUnsupportedFiles returns true if unsupported archive members
// should be skipped.
func (c *Config) ContinueOnUnsupportedFiles() bool {
	return c.continueOnUnsupportedFiles
}

// CustomCreateDirMode returns the file mode for created directories that are
// not defined in the archive. (respecting umask)
func (c *Config) CustomCreateDirMode() fs.FileMode {
	return c.customCreateDirMode
}

// CustomDecompressFileMode returns the file mode for a decompressed file.
// (respecting umask)
func (c *Config) CustomDecompressFileMode() fs.FileMode {
	return c.customDecompressFileMode
}

// Logger returns the logger.
func (c *Config) Logger() logger {
	return c.logger
}

// MaxExtractionSize returns the maximum size of the decompressed content.
func (c *Config) MaxExtractionSize() int64 {
	return c.maxExtractionSize
}

// MaxFiles returns the maximum number of entries in an archive.
func (c *Config) MaxFiles() int64 {
	return c.maxFiles
}

// RarSupport returns true if rar decoding is available.
func (c *Config) RarSupport() bool {
	return c.rarSupport
}

// TelemetryHook returns the configured telemetry hook or a noop hook if none
// is set.
func (c *Config) TelemetryHook() TelemetryHook {
	if c.telemetryHook == nil {
		return func(context.Context, *TelemetryData) {}
	}
	return c.telemetryHook
}

// CheckMaxFiles checks if counter exceeds the configured maximum. If the
// maximum is exceeded, an [ErrMaxFilesExceeded] error is returned.
func (c *Config) CheckMaxFiles(counter int64) error {
	if c.MaxFiles() == -1 {
		return nil
	}
	if counter > c.MaxFiles() {
		return ErrMaxFilesExceeded
	}
	return nil
}

// CheckExtractionSize checks if fileSize exceeds the configured maximum. If
// the maximum is exceeded, an [ErrMaxExtractionSizeExceeded] error is
// returned.
func (c *Config) CheckExtractionSize(fileSize int64) error {
	if c.MaxExtractionSize() == -1 {
		return nil
	}
	if fileSize > c.MaxExtractionSize() {
		return ErrMaxExtractionSizeExceeded
	}
	return nil
}
