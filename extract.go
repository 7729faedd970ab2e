// Copyright (c) Archivekit, Inc.
// SPDX-License-Identifier: MPL-2.0

package materialize

import (
	"context"
	"fmt"
	"os"
)

// IsExtractable reports whether any registered detector matches the file at
// path, evaluated in the fixed priority order and short-circuiting on the
// first match. It is a read-only probe: it never errors and never mutates
// filesystem state, so it is safe to call any number of times.
func IsExtractable(path string) bool {
	_, ok := sniffFormat(path)
	return ok
}

// Extract identifies the container format of src by inspecting its content
// and unpacks it into dst. Multi-file containers produce a directory tree at
// dst; single-stream formats (gzip, xz) produce a single regular file at
// that same path.
//
// Extraction of one input file is serialized system-wide with an advisory
// lock on src + ".lock", so concurrent callers — including unrelated OS
// processes sharing the filesystem — never race on the same input. While the
// lock is held, any prior content of dst is discarded and dst is recreated
// from scratch; a failed extraction may leave dst partially populated, and a
// re-run is the recovery path.
//
// If no detector matches src, Extract returns [ErrUnknownArchiveFormat]
// without having taken the lock or touched dst. Decode failures return an
// error matching [ErrCorruptArchive]; a rar input with rar support disabled
// returns one matching [ErrMissingOptionalDependency]. ctx is honored at
// checkpoints of the entry walkers but does not interrupt a blocked lock
// acquisition.
//
// A nil cfg is equivalent to NewConfig().
func Extract(ctx context.Context, src string, dst string, cfg *Config) error {
	if cfg == nil {
		cfg = NewConfig()
	}

	// detection runs before any destructive action and without the lock: it
	// is read-only, cheap to redo, and a miss must leave dst untouched
	if _, ok := sniffFormat(src); !ok {
		return fmt.Errorf("%w: %s", ErrUnknownArchiveFormat, src)
	}

	return extractLocked(ctx, src, dst, cfg)
}

// extractLocked is the transactional boundary of an extraction: everything
// between lock acquisition and release, including the clean-slate recreation
// of dst and a re-run of format matching.
func extractLocked(ctx context.Context, src string, dst string, cfg *Config) error {
	lock, err := acquireFileLock(src)
	if err != nil {
		return err
	}
	defer lock.release()

	cfg.Logger().Debug("acquired extraction lock", "src", src)

	if err := os.RemoveAll(dst); err != nil {
		return fmt.Errorf("cannot clear destination: %w", err)
	}
	if err := os.MkdirAll(dst, cfg.CustomCreateDirMode().Perm()); err != nil {
		return fmt.Errorf("cannot create destination: %w", err)
	}

	// re-run format matching inside the lock; the orchestrator's check ran
	// unlocked and the file may have changed since
	e, ok := sniffFormat(src)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownArchiveFormat, src)
	}
	cfg.Logger().Debug("detected archive format", "format", e.Format.String(), "src", src)

	return e.Unpack(ctx, NewTargetDisk(), dst, src, cfg)
}
