// Copyright (c) Archivekit, Inc.
// SPDX-License-Identifier: MPL-2.0

package materialize

import (
	"bytes"
	"context"
	"io"
	"os"
)

// Format identifies one of the supported container formats. The set is
// closed; new formats require a new detector/unpacker pair and a deliberate
// position in the priority order.
type Format int

const (
	FormatUnknown Format = iota
	FormatTar
	FormatGzip
	FormatZip
	FormatXz
	FormatRar
)

// String returns the conventional file extension of the format.
func (f Format) String() string {
	switch f {
	case FormatTar:
		return fileExtensionTar
	case FormatGzip:
		return fileExtensionGZip
	case FormatZip:
		return fileExtensionZip
	case FormatXz:
		return fileExtensionXz
	case FormatRar:
		return fileExtensionRar
	default:
		return "unknown"
	}
}

// sniffFunc inspects the file at path and reports whether it plausibly is
// the format in question. Implementations are read-only and must not fail:
// I/O errors while probing are treated as "does not match".
type sniffFunc func(path string) bool

// unpackFunc extracts the archive at src into dst.
type unpackFunc func(ctx context.Context, t *TargetDisk, dst string, src string, cfg *Config) error

// formatEntry pairs a format with its detector and unpacker.
type formatEntry struct {
	Format Format
	Sniff  sniffFunc
	Unpack unpackFunc
}

// formats is the fixed priority order in which detectors are tried. The
// order matters: the tar check is the most structural and goes first, and
// gzip is deliberately tried before zip because a gzip body with a stray
// end-of-central-directory tail would otherwise be misdetected as zip.
var formats = []formatEntry{
	{FormatTar, isTar, unpackTar},
	{FormatGzip, isGZip, unpackGZip},
	{FormatZip, isZip, unpackZip},
	{FormatXz, isXz, unpackXz},
	{FormatRar, isRar, unpackRar},
}

// sniffFormat tries each detector in priority order and returns the first
// match.
func sniffFormat(path string) (formatEntry, bool) {
	for _, e := range formats {
		if e.Sniff(path) {
			return e, true
		}
	}
	return formatEntry{}, false
}

// DetectFormat identifies the container format of the file at path by
// content. It returns [FormatUnknown] if no detector matches.
func DetectFormat(path string) Format {
	e, ok := sniffFormat(path)
	if !ok {
		return FormatUnknown
	}
	return e.Format
}

// readHeader reads up to n bytes from the start of the file at path. It
// returns nil on any I/O error, which makes magic-byte probes fail closed.
func readHeader(path string, n int) []byte {
	f, err := os.Open(path)
	if err != nil {
		return nil
	}
	defer f.Close()

	buf := make([]byte, n)
	m, err := io.ReadFull(f, buf)
	if err != nil && err != io.ErrUnexpectedEOF {
		return nil
	}
	return buf[:m]
}

// matchesMagicBytes checks if the bytes in data at offset match any of the
// given magic byte sequences.
func matchesMagicBytes(data []byte, offset int, magicBytes [][]byte) bool {
	for _, mb := range magicBytes {
		if offset+len(mb) > len(data) {
			continue
		}
		if bytes.Equal(mb, data[offset:offset+len(mb)]) {
			return true
		}
	}
	return false
}
