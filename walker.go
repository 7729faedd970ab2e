// Copyright (c) Archivekit, Inc.
// SPDX-License-Identifier: MPL-2.0

package materialize

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"path/filepath"
)

// archiveWalker provides sequential access to the entries of a multi-file
// archive.
type archiveWalker interface {
	// Type returns the file extension of the archive format.
	Type() string

	// Next returns the next entry in the archive or io.EOF when the end of
	// the archive is reached.
	Next() (archiveEntry, error)
}

// archiveEntry is one member of a multi-file archive.
type archiveEntry interface {
	Name() string
	Size() int64
	Mode() fs.FileMode
	Linkname() string
	IsRegular() bool
	IsDir() bool
	IsSymlink() bool
	Open() (io.ReadCloser, error)
}

// noopReaderCloser wraps an io.Reader with a no-op Close, for walkers whose
// entry contents are read from a shared underlying stream.
type noopReaderCloser struct {
	io.Reader
}

func (noopReaderCloser) Close() error { return nil }

// extractArchive walks the entries of w and materializes them below dst. It
// enforces the configured entry-count and extraction-size limits and keeps
// all created paths inside dst.
func extractArchive(ctx context.Context, t *TargetDisk, dst string, w archiveWalker, cfg *Config, td *TelemetryData) error {
	cfg.Logger().Info("extracting archive", "type", w.Type(), "dst", dst)

	var entryCount int64
	var declaredSize int64

	for {
		if err := ctx.Err(); err != nil {
			return handleError(cfg, td, "context error", err)
		}

		ae, err := w.Next()
		switch {
		case err == io.EOF:
			return nil
		case err != nil:
			return handleError(cfg, td, "cannot read archive entry", corrupt(err))
		}

		name := filepath.Clean(ae.Name())
		if name == "." {
			continue
		}

		entryCount++
		if err := cfg.CheckMaxFiles(entryCount); err != nil {
			return handleError(cfg, td, "too many entries in archive", err)
		}

		// keep every created path inside dst
		if !filepath.IsLocal(name) {
			return handleError(cfg, td, "entry path escapes destination", fmt.Errorf("%w: %s", ErrUnsupportedFile, ae.Name()))
		}

		switch {
		case ae.IsDir():
			if err := t.CreateDir(filepath.Join(dst, name), cfg.CustomCreateDirMode()); err != nil {
				return handleError(cfg, td, "cannot create directory", err)
			}
			td.ExtractedDirs++

		case ae.IsRegular():
			declaredSize += ae.Size()
			if err := cfg.CheckExtractionSize(declaredSize); err != nil {
				return handleError(cfg, td, "extraction size exceeded", err)
			}

			rc, err := ae.Open()
			if err != nil {
				return handleError(cfg, td, "cannot open archive entry", corrupt(err))
			}
			n, err := t.CreateFile(filepath.Join(dst, name), rc, ae.Mode(), remainingAllowance(cfg, td.ExtractionSize))
			rc.Close()
			td.ExtractionSize += n
			if err != nil {
				if errors.Is(err, ErrMaxExtractionSizeExceeded) {
					return handleError(cfg, td, "extraction size exceeded", err)
				}
				return handleError(cfg, td, "cannot create file", corrupt(err))
			}
			td.ExtractedFiles++

		case ae.IsSymlink():
			if !symlinkSupported(ae) {
				if skipped := skipUnsupported(cfg, td, ae.Name()); skipped {
					continue
				}
				return handleError(cfg, td, "unsupported symlink entry", fmt.Errorf("%w: %s", ErrUnsupportedFile, ae.Name()))
			}
			if err := t.CreateSymlink(ae.Linkname(), filepath.Join(dst, name)); err != nil {
				return handleError(cfg, td, "cannot create symlink", err)
			}
			td.ExtractedSymlinks++

		default:
			// FIFOs, devices, sockets
			if skipped := skipUnsupported(cfg, td, ae.Name()); skipped {
				continue
			}
			return handleError(cfg, td, "unsupported entry type", fmt.Errorf("%w: %s", ErrUnsupportedFile, ae.Name()))
		}
	}
}

// symlinkSupported reports whether the symlink entry can be materialized:
// the walker must expose a link target and the target must resolve inside
// the destination.
func symlinkSupported(ae archiveEntry) bool {
	linkname := ae.Linkname()
	if linkname == "" || filepath.IsAbs(linkname) {
		return false
	}
	resolved := filepath.Join(filepath.Dir(filepath.Clean(ae.Name())), linkname)
	return filepath.IsLocal(resolved)
}

// skipUnsupported records the skipped entry if the configuration allows
// continuing past unsupported files.
func skipUnsupported(cfg *Config, td *TelemetryData, name string) bool {
	if !cfg.ContinueOnUnsupportedFiles() {
		return false
	}
	td.UnsupportedFiles++
	td.LastUnsupportedFile = name
	cfg.Logger().Warn("skipping unsupported entry", "name", name)
	return true
}

// remainingAllowance returns how many bytes may still be written before the
// configured extraction size limit is hit, or -1 when unlimited.
func remainingAllowance(cfg *Config, written int64) int64 {
	maxSize := cfg.MaxExtractionSize()
	if maxSize == -1 {
		return -1
	}
	if remaining := maxSize - written; remaining > 0 {
		return remaining
	}
	return 0
}
