// Copyright (c) Archivekit, Inc.
// SPDX-License-Identifier: MPL-2.0

package materialize

import (
	"context"
	"io"
	"io/fs"
	"os"

	"github.com/nwaples/rardecode"
)

// fileExtensionRar is the file extension for rar files.
const fileExtensionRar = "rar"

// magicBytesRar are the magic bytes for rar files.
var magicBytesRar = [][]byte{
	{0x52, 0x61, 0x72, 0x21, 0x1A, 0x07, 0x00},       // Rar 1.5
	{0x52, 0x61, 0x72, 0x21, 0x1A, 0x07, 0x01, 0x00}, // Rar 5.0
}

// isRar checks if the file at path starts with one of the rar signatures.
func isRar(path string) bool {
	return matchesMagicBytes(readHeader(path, 8), 0, magicBytesRar)
}

// unpackRar extracts the rar archive at src into dst. Rar decoding is an
// optional capability; when it is disabled in cfg the extraction fails with
// [ErrMissingOptionalDependency].
func unpackRar(ctx context.Context, t *TargetDisk, dst string, src string, cfg *Config) error {
	td := &TelemetryData{ExtractedType: fileExtensionRar}
	defer cfg.TelemetryHook()(ctx, td)
	defer captureExtractionDuration(td, now())

	if !cfg.RarSupport() {
		return handleError(cfg, td, "cannot extract rar archive", ErrMissingOptionalDependency)
	}

	a, err := rardecode.OpenReader(src, "")
	if err != nil {
		return handleError(cfg, td, "cannot open archive", corrupt(err))
	}
	defer a.Close()

	if fi, err := os.Stat(src); err == nil {
		td.InputSize = fi.Size()
	}

	return extractArchive(ctx, t, dst, &rarWalker{r: &a.Reader}, cfg, td)
}

// rarWalker is an archiveWalker for rar files.
type rarWalker struct {
	r *rardecode.Reader
}

// Type returns the file extension for rar files.
func (rw *rarWalker) Type() string {
	return fileExtensionRar
}

// Next returns the next entry in the rar archive.
func (rw *rarWalker) Next() (archiveEntry, error) {
	fh, err := rw.r.Next()
	if err != nil {
		return nil, err
	}
	return &rarEntry{f: fh, r: rw.r}, nil
}

// rarEntry is an entry in a rar archive.
type rarEntry struct {
	f *rardecode.FileHeader
	r io.Reader
}

func (re *rarEntry) Name() string {
	return re.f.Name
}

func (re *rarEntry) Size() int64 {
	return re.f.UnPackedSize
}

func (re *rarEntry) Mode() fs.FileMode {
	return re.f.Mode()
}

// Linkname returns the empty string; the decoder does not expose symlink
// targets, so symlink entries are treated as unsupported.
func (re *rarEntry) Linkname() string {
	return ""
}

func (re *rarEntry) IsRegular() bool {
	return re.f.Mode().IsRegular()
}

func (re *rarEntry) IsDir() bool {
	return re.f.IsDir
}

func (re *rarEntry) IsSymlink() bool {
	return re.f.Mode()&fs.ModeSymlink != 0
}

func (re *rarEntry) Open() (io.ReadCloser, error) {
	return noopReaderCloser{re.r}, nil
}
