// Copyright (c) Archivekit, Inc.
// SPDX-License-Identifier: MPL-2.0

package materialize

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
)

// TargetDisk materializes archive contents on the local filesystem.
type TargetDisk struct{}

// NewTargetDisk creates a new [TargetDisk].
func NewTargetDisk() *TargetDisk {
	return &TargetDisk{}
}

// CreateDir creates a directory at the specified path with the specified
// mode. If the directory already exists, nothing is done.
func (d *TargetDisk) CreateDir(path string, mode fs.FileMode) error {
	if err := os.MkdirAll(path, mode.Perm()); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	return nil
}

// CreateFile creates a file at the specified path with src as content,
// creating missing parent directories as needed. The size of the written
// content must not exceed maxSize; if maxSize < 0 the size is not limited.
// CreateFile returns the number of bytes written, also on error.
func (d *TargetDisk) CreateFile(path string, src io.Reader, mode fs.FileMode, maxSize int64) (int64, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
		return 0, fmt.Errorf("failed to create parent directory: %w", err)
	}

	dstFile, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, mode.Perm())
	if err != nil {
		return 0, fmt.Errorf("failed to create file: %w", err)
	}
	defer dstFile.Close()

	n, err := io.Copy(limitWriter(dstFile, maxSize), src)
	if err != nil {
		if errors.Is(err, io.ErrShortWrite) {
			return n, ErrMaxExtractionSizeExceeded
		}
		return n, fmt.Errorf("failed to write file: %w", err)
	}
	return n, nil
}

// CreateSymlink creates a symbolic link at newname pointing to oldname,
// creating missing parent directories as needed.
func (d *TargetDisk) CreateSymlink(oldname string, newname string) error {
	if err := os.MkdirAll(filepath.Dir(newname), 0750); err != nil {
		return fmt.Errorf("failed to create parent directory: %w", err)
	}
	if err := os.Symlink(oldname, newname); err != nil {
		return fmt.Errorf("failed to create symlink: %w", err)
	}
	return nil
}

// limitErrorWriter is a wrapper around an io.Writer that returns
// io.ErrShortWrite when the limit is reached.
type limitErrorWriter struct {
	w io.Writer // underlying writer
	l int64     // limit
	n int64     // number of bytes written
}

// Write writes up to len(p) bytes from p to the underlying data stream. The
// limit is enforced by returning io.ErrShortWrite once it is reached.
func (l *limitErrorWriter) Write(p []byte) (n int, err error) {
	if l.n >= l.l {
		return 0, io.ErrShortWrite
	}

	// write the remaining allowance, then fail
	if int64(len(p)) > l.l-l.n {
		p = p[0 : l.l-l.n]
		n, err = l.w.Write(p)
		if err == nil {
			err = io.ErrShortWrite
		}
		l.n += int64(n)
		return n, err
	}

	n, err = l.w.Write(p)
	l.n += int64(n)
	return n, err
}

// limitWriter wraps w so that at most maxSize bytes can be written. If
// maxSize < 0, w is returned unchanged.
func limitWriter(w io.Writer, maxSize int64) io.Writer {
	if maxSize < 0 {
		return w
	}
	return &limitErrorWriter{w: w, l: maxSize}
}
