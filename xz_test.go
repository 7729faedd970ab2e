package materialize_test

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/archivekit/materialize"
)

func TestExtractXzProducesRegularFile(t *testing.T) {
	plaintext := []byte("xz wraps exactly one byte stream")
	src := newTestFile(t, "test.xz", compressXz(t, plaintext))
	dst := filepath.Join(t.TempDir(), "out")

	if got := materialize.DetectFormat(src); got != materialize.FormatXz {
		t.Fatalf("DetectFormat() = %v, want %v", got, materialize.FormatXz)
	}

	if err := materialize.Extract(context.Background(), src, dst, nil); err != nil {
		t.Fatalf("extraction failed: %v", err)
	}

	fi, err := os.Stat(dst)
	if err != nil {
		t.Fatalf("cannot stat output: %v", err)
	}
	if fi.IsDir() {
		t.Fatal("expected a regular file at the destination, got a directory")
	}

	data, err := os.ReadFile(dst)
	if err != nil {
		t.Fatalf("cannot read output: %v", err)
	}
	if !bytes.Equal(data, plaintext) {
		t.Errorf("output = %q, want %q", data, plaintext)
	}
}

// The xz detector only checks the six magic bytes, so a corrupt body passes
// detection and fails during extraction.
func TestExtractXzCorruptBody(t *testing.T) {
	compressed := compressXz(t, randomData(t, 64*1024))
	corrupted := append([]byte{}, compressed...)
	for i := len(corrupted) / 2; i < len(corrupted)/2+16; i++ {
		corrupted[i] ^= 0xFF
	}
	src := newTestFile(t, "corrupt.xz", corrupted)
	dst := filepath.Join(t.TempDir(), "out")

	if !materialize.IsExtractable(src) {
		t.Fatal("expected corrupt xz to pass detection")
	}

	err := materialize.Extract(context.Background(), src, dst, nil)
	if !errors.Is(err, materialize.ErrCorruptArchive) {
		t.Fatalf("Extract() = %v, want ErrCorruptArchive", err)
	}
}
