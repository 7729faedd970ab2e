// Copyright (c) Archivekit, Inc.
// SPDX-License-Identifier: MPL-2.0

// Package materialize identifies the container format of a downloaded file by
// inspecting its content and extracts it into a destination path, safely under
// concurrent access from independent OS processes sharing one filesystem.
//
// File extensions are never consulted; detection is purely content-based. The
// supported formats form a closed, ordered set (tar, gzip, zip, xz, rar) and
// the order is significant: more structural checks run before looser
// stream-based heuristics, so ambiguous inputs resolve deterministically.
//
// [Extract] serializes work per input file with an advisory lock on
// <input>.lock, recreates the destination from scratch while holding the lock,
// and only then unpacks. A second caller for the same input either waits and
// then observes the finished output, or (after a failure) re-runs the full
// sequence itself; re-runs are always safe because the destination is
// recreated unconditionally. Multi-file containers (tar, zip, rar) produce a
// directory tree at the destination; single-stream formats (gzip, xz) produce
// a single regular file at that same path.
//
// [IsExtractable] is the read-only companion probe: it reports whether any
// registered detector matches, never errors, and never touches the
// destination.
package materialize
