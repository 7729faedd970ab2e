package materialize_test

import (
	"archive/tar"
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"io/fs"
	"math/rand"
	"os"
	"path/filepath"
	"testing"

	"github.com/klauspost/compress/gzip"
	"github.com/ulikunitz/xz"
	"golang.org/x/sync/errgroup"

	"github.com/archivekit/materialize"
)

// newTestFile writes data to name inside a fresh temp dir and returns the
// full path.
func newTestFile(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatalf("cannot write test file: %v", err)
	}
	return path
}

// newTestTar builds a tar archive with a directory, two files and a symlink.
func newTestTar(t *testing.T) string {
	t.Helper()
	var buf bytes.Buffer
	tw := tar.NewWriter(&buf)

	writeEntry := func(hdr *tar.Header, content []byte) {
		hdr.Size = int64(len(content))
		if err := tw.WriteHeader(hdr); err != nil {
			t.Fatalf("cannot write tar header: %v", err)
		}
		if _, err := tw.Write(content); err != nil {
			t.Fatalf("cannot write tar content: %v", err)
		}
	}

	if err := tw.WriteHeader(&tar.Header{Name: "dir/", Typeflag: tar.TypeDir, Mode: 0755}); err != nil {
		t.Fatalf("cannot write tar header: %v", err)
	}
	writeEntry(&tar.Header{Name: "dir/a.txt", Typeflag: tar.TypeReg, Mode: 0644}, []byte("content a"))
	writeEntry(&tar.Header{Name: "b.txt", Typeflag: tar.TypeReg, Mode: 0644}, []byte("content b"))
	if err := tw.WriteHeader(&tar.Header{Name: "link", Typeflag: tar.TypeSymlink, Linkname: "b.txt", Mode: 0777}); err != nil {
		t.Fatalf("cannot write tar header: %v", err)
	}
	if err := tw.Close(); err != nil {
		t.Fatalf("cannot close tar writer: %v", err)
	}
	return newTestFile(t, "test.tar", buf.Bytes())
}

// newTestZip builds a zip archive with a directory and two files.
func newTestZip(t *testing.T) string {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)

	entries := map[string][]byte{
		"dir/":      nil,
		"dir/a.txt": []byte("content a"),
		"b.txt":     []byte("content b"),
	}
	for _, name := range []string{"dir/", "dir/a.txt", "b.txt"} {
		w, err := zw.Create(name)
		if err != nil {
			t.Fatalf("cannot create zip entry: %v", err)
		}
		if _, err := w.Write(entries[name]); err != nil {
			t.Fatalf("cannot write zip content: %v", err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("cannot close zip writer: %v", err)
	}
	return newTestFile(t, "test.zip", buf.Bytes())
}

// compressGzip compresses data with gzip.
func compressGzip(t *testing.T, data []byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	gw := gzip.NewWriter(&buf)
	if _, err := gw.Write(data); err != nil {
		t.Fatalf("cannot compress with gzip: %v", err)
	}
	if err := gw.Close(); err != nil {
		t.Fatalf("cannot close gzip writer: %v", err)
	}
	return buf.Bytes()
}

// compressXz compresses data with xz.
func compressXz(t *testing.T, data []byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	xw, err := xz.NewWriter(&buf)
	if err != nil {
		t.Fatalf("cannot create xz writer: %v", err)
	}
	if _, err := xw.Write(data); err != nil {
		t.Fatalf("cannot compress with xz: %v", err)
	}
	if err := xw.Close(); err != nil {
		t.Fatalf("cannot close xz writer: %v", err)
	}
	return buf.Bytes()
}

// readTree reads all regular files below root into a map of relative path to
// content.
func readTree(t *testing.T, root string) map[string]string {
	t.Helper()
	tree := map[string]string{}
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.Type().IsRegular() {
			return nil
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		tree[rel] = string(data)
		return nil
	})
	if err != nil {
		t.Fatalf("cannot read tree: %v", err)
	}
	return tree
}

func TestExtractUnknownFormat(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{"empty file", nil},
		{"plain text", []byte("just some text, no archive\n")},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			src := newTestFile(t, "input", test.data)
			dst := filepath.Join(t.TempDir(), "out")

			err := materialize.Extract(context.Background(), src, dst, nil)
			if !errors.Is(err, materialize.ErrUnknownArchiveFormat) {
				t.Fatalf("Extract() = %v, want ErrUnknownArchiveFormat", err)
			}

			// no filesystem mutation: neither the destination nor the lock
			// file may exist
			if _, err := os.Stat(dst); !os.IsNotExist(err) {
				t.Errorf("expected destination to be absent, got %v", err)
			}
			if _, err := os.Stat(src + ".lock"); !os.IsNotExist(err) {
				t.Errorf("expected no lock file, got %v", err)
			}

			if materialize.IsExtractable(src) {
				t.Error("IsExtractable() = true, want false")
			}
		})
	}
}

func TestExtractIdempotence(t *testing.T) {
	src := newTestZip(t)
	dst := filepath.Join(t.TempDir(), "out")
	ctx := context.Background()

	if err := materialize.Extract(ctx, src, dst, nil); err != nil {
		t.Fatalf("first extraction failed: %v", err)
	}
	first := readTree(t, dst)

	if err := materialize.Extract(ctx, src, dst, nil); err != nil {
		t.Fatalf("second extraction failed: %v", err)
	}
	second := readTree(t, dst)

	if len(first) != len(second) {
		t.Fatalf("tree changed between runs: %v vs %v", first, second)
	}
	for name, content := range first {
		if second[name] != content {
			t.Errorf("content of %s changed between runs", name)
		}
	}
}

func TestExtractDiscardsPriorContent(t *testing.T) {
	src := newTestZip(t)
	dst := filepath.Join(t.TempDir(), "out")

	// plant a leftover from a hypothetical earlier failed attempt
	if err := os.MkdirAll(dst, 0755); err != nil {
		t.Fatalf("cannot create destination: %v", err)
	}
	leftover := filepath.Join(dst, "leftover.txt")
	if err := os.WriteFile(leftover, []byte("stale"), 0644); err != nil {
		t.Fatalf("cannot write leftover: %v", err)
	}

	if err := materialize.Extract(context.Background(), src, dst, nil); err != nil {
		t.Fatalf("extraction failed: %v", err)
	}

	if _, err := os.Stat(leftover); !os.IsNotExist(err) {
		t.Errorf("expected leftover to be removed, got %v", err)
	}
	if _, err := os.Stat(filepath.Join(dst, "b.txt")); err != nil {
		t.Errorf("expected extracted file, got %v", err)
	}
}

func TestExtractConcurrentSameInput(t *testing.T) {
	src := newTestZip(t)
	dst := filepath.Join(t.TempDir(), "out")
	ctx := context.Background()

	var g errgroup.Group
	for i := 0; i < 4; i++ {
		g.Go(func() error {
			return materialize.Extract(ctx, src, dst, nil)
		})
	}
	if err := g.Wait(); err != nil {
		t.Fatalf("concurrent extraction failed: %v", err)
	}

	tree := readTree(t, dst)
	if tree["b.txt"] != "content b" || tree["dir/a.txt"] != "content a" {
		t.Errorf("unexpected tree after concurrent extraction: %v", tree)
	}
}

// A gzip stream with a stray zip end-of-central-directory tail matches both
// the gzip and the zip heuristic; the fixed priority order must hand it to
// the gzip extractor. The tail is not valid gzip data, so the extraction
// itself reports corruption — of a gzip archive, not a zip one.
func TestExtractAmbiguousInput(t *testing.T) {
	plaintext := []byte("ambiguous payload")
	eocd := append([]byte{0x50, 0x4B, 0x05, 0x06}, make([]byte, 18)...)
	src := newTestFile(t, "ambiguous", append(compressGzip(t, plaintext), eocd...))
	dst := filepath.Join(t.TempDir(), "out")

	if got := materialize.DetectFormat(src); got != materialize.FormatGzip {
		t.Fatalf("DetectFormat() = %v, want %v", got, materialize.FormatGzip)
	}

	var got *materialize.TelemetryData
	cfg := materialize.NewConfig(
		materialize.WithTelemetryHook(func(_ context.Context, td *materialize.TelemetryData) {
			got = td
		}),
	)

	err := materialize.Extract(context.Background(), src, dst, cfg)
	if !errors.Is(err, materialize.ErrCorruptArchive) {
		t.Fatalf("Extract() = %v, want ErrCorruptArchive", err)
	}
	if got == nil || got.ExtractedType != "gz" {
		t.Fatalf("extraction was not handled by the gzip extractor: %v", got)
	}
}

func TestExtractLeavesLockFile(t *testing.T) {
	src := newTestZip(t)
	dst := filepath.Join(t.TempDir(), "out")

	if err := materialize.Extract(context.Background(), src, dst, nil); err != nil {
		t.Fatalf("extraction failed: %v", err)
	}
	if _, err := os.Stat(src + ".lock"); err != nil {
		t.Errorf("expected lock file next to input: %v", err)
	}
}

func TestExtractCanceledContext(t *testing.T) {
	src := newTestTar(t)
	dst := filepath.Join(t.TempDir(), "out")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := materialize.Extract(ctx, src, dst, nil)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Extract() = %v, want context.Canceled", err)
	}
}

// randomData returns incompressible data with a fixed seed.
func randomData(t *testing.T, n int) []byte {
	t.Helper()
	data := make([]byte, n)
	r := rand.New(rand.NewSource(42))
	if _, err := r.Read(data); err != nil {
		t.Fatalf("cannot generate random data: %v", err)
	}
	return data
}
