// Copyright (c) Archivekit, Inc.
// SPDX-License-Identifier: MPL-2.0

package materialize

import (
	"context"
	"io"
	"os"

	"github.com/klauspost/compress/gzip"
)

// fileExtensionGZip is the file extension for gzip files.
const fileExtensionGZip = "gz"

// isGZip checks if the file at path opens as a gzip stream and yields at
// least one byte. This heuristic is deliberately weak: it validates the
// header and the start of the stream only, so corruption further in is not
// detected here and surfaces as [ErrCorruptArchive] during extraction.
func isGZip(path string) bool {
	f, err := os.Open(path)
	if err != nil {
		return false
	}
	defer f.Close()

	r, err := gzip.NewReader(f)
	if err != nil {
		return false
	}
	defer r.Close()

	buf := make([]byte, 1)
	_, err = r.Read(buf)
	return err == nil || err == io.EOF
}

// unpackGZip decompresses the gzip stream at src into a regular file at dst.
func unpackGZip(ctx context.Context, t *TargetDisk, dst string, src string, cfg *Config) error {
	return decompress(ctx, t, dst, src, cfg, decompressGZipStream, fileExtensionGZip)
}

// decompressGZipStream returns an io.Reader that decompresses src with the
// gzip algorithm.
func decompressGZipStream(src io.Reader) (io.Reader, error) {
	return gzip.NewReader(src)
}
