// Copyright (c) Archivekit, Inc.
// SPDX-License-Identifier: MPL-2.0

package materialize

import (
	"context"
	"io"

	"github.com/ulikunitz/xz"
)

// fileExtensionXz is the file extension for xz files.
const fileExtensionXz = "xz"

// magicBytesXz is the magic bytes for xz files.
// reference https://tukaani.org/xz/xz-file-format-1.0.4.txt
var magicBytesXz = [][]byte{
	{0xFD, 0x37, 0x7A, 0x58, 0x5A, 0x00},
}

// isXz checks if the file at path starts with the xz magic bytes.
func isXz(path string) bool {
	return matchesMagicBytes(readHeader(path, 6), 0, magicBytesXz)
}

// unpackXz decompresses the xz stream at src into a regular file at dst.
func unpackXz(ctx context.Context, t *TargetDisk, dst string, src string, cfg *Config) error {
	return decompress(ctx, t, dst, src, cfg, decompressXzStream, fileExtensionXz)
}

// decompressXzStream returns an io.Reader that decompresses src with the xz
// algorithm.
func decompressXzStream(src io.Reader) (io.Reader, error) {
	return xz.NewReader(src)
}
