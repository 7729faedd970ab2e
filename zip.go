// Copyright (c) Archivekit, Inc.
// SPDX-License-Identifier: MPL-2.0

package materialize

import (
	"archive/zip"
	"context"
	"io"
	"io/fs"
	"os"
	"strings"
)

// fileExtensionZip is the file extension for zip files.
const fileExtensionZip = "zip"

// isZip checks if the file at path is a zip archive by locating and parsing
// its end-of-central-directory record.
func isZip(path string) bool {
	r, err := zip.OpenReader(path)
	if err != nil {
		return false
	}
	r.Close()
	return true
}

// unpackZip extracts the zip archive at src into dst.
func unpackZip(ctx context.Context, t *TargetDisk, dst string, src string, cfg *Config) error {
	td := &TelemetryData{ExtractedType: fileExtensionZip}
	defer cfg.TelemetryHook()(ctx, td)
	defer captureExtractionDuration(td, now())

	r, err := zip.OpenReader(src)
	if err != nil {
		return handleError(cfg, td, "cannot open archive", corrupt(err))
	}
	defer r.Close()

	if fi, err := os.Stat(src); err == nil {
		td.InputSize = fi.Size()
	}

	return extractArchive(ctx, t, dst, &zipWalker{files: r.File}, cfg, td)
}

// zipWalker is an archiveWalker for zip files.
type zipWalker struct {
	files []*zip.File
	next  int
}

// Type returns the file extension for zip files.
func (z *zipWalker) Type() string {
	return fileExtensionZip
}

// Next returns the next entry in the zip archive.
func (z *zipWalker) Next() (archiveEntry, error) {
	if z.next >= len(z.files) {
		return nil, io.EOF
	}
	f := z.files[z.next]
	z.next++
	return &zipEntry{f: f}, nil
}

// zipEntry is an entry in a zip archive.
type zipEntry struct {
	f *zip.File
}

func (z *zipEntry) Name() string {
	return z.f.Name
}

func (z *zipEntry) Size() int64 {
	return int64(z.f.UncompressedSize64)
}

func (z *zipEntry) Mode() fs.FileMode {
	return z.f.Mode()
}

// Linkname returns the symlink target, which zip stores as the entry
// content.
func (z *zipEntry) Linkname() string {
	rc, err := z.f.Open()
	if err != nil {
		return ""
	}
	defer rc.Close()
	data, err := io.ReadAll(rc)
	if err != nil {
		return ""
	}
	return string(data)
}

func (z *zipEntry) IsRegular() bool {
	return z.f.Mode().IsRegular()
}

func (z *zipEntry) IsDir() bool {
	return z.f.Mode().IsDir() || strings.HasSuffix(z.f.Name, "/")
}

func (z *zipEntry) IsSymlink() bool {
	return z.f.Mode()&fs.ModeSymlink != 0
}

func (z *zipEntry) Open() (io.ReadCloser, error) {
	return z.f.Open()
}
