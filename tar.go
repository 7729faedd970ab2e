// Copyright (c) Archivekit, Inc.
// SPDX-License-Identifier: MPL-2.0

package materialize

import (
	"archive/tar"
	"context"
	"io"
	"io/fs"
	"os"
)

// fileExtensionTar is the file extension for tar files.
const fileExtensionTar = "tar"

// isTar checks if the file at path forms a valid tar layout by reading and
// validating the first header block. Anything that does not parse as a tar
// header (including I/O errors while probing) does not match.
func isTar(path string) bool {
	f, err := os.Open(path)
	if err != nil {
		return false
	}
	defer f.Close()

	_, err = tar.NewReader(f).Next()
	return err == nil
}

// unpackTar extracts the tar archive at src into dst.
func unpackTar(ctx context.Context, t *TargetDisk, dst string, src string, cfg *Config) error {
	td := &TelemetryData{ExtractedType: fileExtensionTar}
	defer cfg.TelemetryHook()(ctx, td)
	defer captureExtractionDuration(td, now())

	f, err := os.Open(src)
	if err != nil {
		return handleError(cfg, td, "cannot open archive", err)
	}
	defer f.Close()
	captureInputSize(td, f)

	return extractArchive(ctx, t, dst, &tarWalker{tr: tar.NewReader(f)}, cfg, td)
}

// captureInputSize records the size of the input file in td.
func captureInputSize(td *TelemetryData, f *os.File) {
	if fi, err := f.Stat(); err == nil {
		td.InputSize = fi.Size()
	}
}

// tarWalker is an archiveWalker for tar files.
type tarWalker struct {
	tr *tar.Reader
}

// Type returns the file extension for tar files.
func (t *tarWalker) Type() string {
	return fileExtensionTar
}

// Next returns the next entry in the tar archive.
func (t *tarWalker) Next() (archiveEntry, error) {
	for {
		hdr, err := t.tr.Next()
		if err != nil {
			return nil, err
		}
		// skip nil headers instead of failing the whole archive
		if hdr == nil {
			continue
		}
		return &tarEntry{hdr, t.tr}, nil
	}
}

// tarEntry is an entry in a tar archive.
type tarEntry struct {
	hdr *tar.Header
	tr  *tar.Reader
}

func (t *tarEntry) Name() string {
	return t.hdr.Name
}

func (t *tarEntry) Size() int64 {
	return t.hdr.Size
}

func (t *tarEntry) Mode() fs.FileMode {
	return t.hdr.FileInfo().Mode()
}

func (t *tarEntry) Linkname() string {
	return t.hdr.Linkname
}

func (t *tarEntry) IsRegular() bool {
	return t.hdr.Typeflag == tar.TypeReg
}

func (t *tarEntry) IsDir() bool {
	return t.hdr.Typeflag == tar.TypeDir
}

func (t *tarEntry) IsSymlink() bool {
	return t.hdr.Typeflag == tar.TypeSymlink
}

func (t *tarEntry) Open() (io.ReadCloser, error) {
	return noopReaderCloser{t.tr}, nil
}
