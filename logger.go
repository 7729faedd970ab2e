// Copyright (c) Archivekit, Inc.
// SPDX-License-Identifier: MPL-2.0

package materialize

import (
	"io"
	"log/slog"
)

// logger is the logging interface used throughout the extraction. It is
// satisfied by [log/slog.Logger].
type logger interface {
	Debug(msg string, keysAndValues ...any)
	Info(msg string, keysAndValues ...any)
	Warn(msg string, keysAndValues ...any)
	Error(msg string, keysAndValues ...any)
}

// discardLogger returns a logger that drops everything, used when no logger
// is configured.
func discardLogger() logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
