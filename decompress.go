// Copyright (c) Archivekit, Inc.
// SPDX-License-Identifier: MPL-2.0

package materialize

import (
	"context"
	"errors"
	"io"
	"os"
)

// decompressionFunc opens a decompressing reader over src.
type decompressionFunc func(src io.Reader) (io.Reader, error)

// decompress handles the single-stream formats (gzip, xz): the archive wraps
// exactly one byte stream with no internal file tree, so the result is a
// regular file at dst rather than a directory.
//
// The caller pre-creates dst as a fresh, empty directory. The dir-to-file
// path-kind change is enacted here: the empty placeholder is removed with
// os.Remove, which refuses to delete a non-empty directory, so genuine
// content can never be lost by this step.
func decompress(ctx context.Context, t *TargetDisk, dst string, src string, cfg *Config, decFunc decompressionFunc, fileExt string) error {
	td := &TelemetryData{ExtractedType: fileExt}
	defer cfg.TelemetryHook()(ctx, td)
	defer captureExtractionDuration(td, now())

	cfg.Logger().Info("decompressing", "type", fileExt, "dst", dst)

	f, err := os.Open(src)
	if err != nil {
		return handleError(cfg, td, "cannot open archive", err)
	}
	defer f.Close()
	captureInputSize(td, f)

	decompressedStream, err := decFunc(f)
	if err != nil {
		return handleError(cfg, td, "cannot start decompression", corrupt(err))
	}
	defer func() {
		if closer, ok := decompressedStream.(io.Closer); ok {
			closer.Close()
		}
	}()

	if err := ctx.Err(); err != nil {
		return handleError(cfg, td, "context error", err)
	}

	if err := os.Remove(dst); err != nil && !os.IsNotExist(err) {
		return handleError(cfg, td, "cannot remove placeholder directory", err)
	}

	n, err := t.CreateFile(dst, decompressedStream, cfg.CustomDecompressFileMode(), cfg.MaxExtractionSize())
	td.ExtractionSize = n
	if err != nil {
		if errors.Is(err, ErrMaxExtractionSizeExceeded) {
			return handleError(cfg, td, "extraction size exceeded", err)
		}
		return handleError(cfg, td, "cannot write decompressed file", corrupt(err))
	}
	td.ExtractedFiles++

	return nil
}
