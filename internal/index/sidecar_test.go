package index

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestSidecarPathIsHidden(t *testing.T) {
	t.Parallel()

	p := SidecarPath("/home/x/photos")
	if p != "/home/x/photos/.photos.pkl" {
		t.Fatalf("unexpected side-car path %q", p)
	}
	if !strings.HasPrefix(filepath.Base(p), ".") {
		t.Fatalf("side-car must be hidden: %q", p)
	}
}

func TestStoreLoadRoundTrip(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	x := New()
	x.Add(mkDigest(1), filepath.Join(dir, "a"))
	x.Add(mkDigest(1), filepath.Join(dir, "b"))
	x.Add(mkDigest(2), filepath.Join(dir, "c"))
	x.normalize()

	if err := Store(dir, x, "sha256"); err != nil {
		t.Fatalf("Store: %v", err)
	}

	got, algo, err := Load(dir)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if algo != "sha256" {
		t.Fatalf("expected algo sha256, got %q", algo)
	}
	if !got.Equal(x) {
		t.Fatalf("loaded index differs from stored index")
	}
}

func TestStoreLoadEmptyIndex(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	if err := Store(dir, New(), "sha256"); err != nil {
		t.Fatalf("Store: %v", err)
	}

	got, _, err := Load(dir)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.Len() != 0 {
		t.Fatalf("expected empty index, got %d buckets", got.Len())
	}
}

func TestLoadMissingSidecar(t *testing.T) {
	t.Parallel()

	_, _, err := Load(t.TempDir())
	if !errors.Is(err, ErrNoIndex) {
		t.Fatalf("expected ErrNoIndex, got %v", err)
	}
}

func TestLoadCorruptSidecar(t *testing.T) {
	t.Parallel()

	t.Run("garbage", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		if err := os.WriteFile(SidecarPath(dir), []byte("not an index at all"), 0o600); err != nil {
			t.Fatalf("write: %v", err)
		}

		_, _, err := Load(dir)
		if !errors.Is(err, ErrCorruptIndex) {
			t.Fatalf("expected ErrCorruptIndex, got %v", err)
		}
	})

	t.Run("truncated", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		x := New()
		x.Add(mkDigest(9), "/p/q")
		x.normalize()
		if err := Store(dir, x, "sha256"); err != nil {
			t.Fatalf("Store: %v", err)
		}

		p := SidecarPath(dir)
		b, err := os.ReadFile(p)
		if err != nil {
			t.Fatalf("read: %v", err)
		}
		if err = os.WriteFile(p, b[:len(b)/2], 0o600); err != nil {
			t.Fatalf("truncate: %v", err)
		}

		_, _, err = Load(dir)
		if !errors.Is(err, ErrCorruptIndex) {
			t.Fatalf("expected ErrCorruptIndex, got %v", err)
		}
	})

	t.Run("wrong magic", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		if err := os.WriteFile(SidecarPath(dir), []byte("#!other sha256 1\n"), 0o600); err != nil {
			t.Fatalf("write: %v", err)
		}

		_, _, err := Load(dir)
		if !errors.Is(err, ErrCorruptIndex) {
			t.Fatalf("expected ErrCorruptIndex, got %v", err)
		}
	})
}

func TestLoadMigratesLegacySidecar(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	x := New()
	x.Add(mkDigest(7), "/old/file")
	x.normalize()
	if err := Store(dir, x, "sha256"); err != nil {
		t.Fatalf("Store: %v", err)
	}

	// demote the side-car to the legacy non-hidden name
	if err := os.Rename(SidecarPath(dir), legacySidecarPath(dir)); err != nil {
		t.Fatalf("rename: %v", err)
	}

	got, _, err := Load(dir)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !got.Equal(x) {
		t.Fatalf("migrated index differs")
	}

	if _, err = os.Stat(SidecarPath(dir)); err != nil {
		t.Fatalf("expected hidden side-car after migration: %v", err)
	}
	if _, err = os.Stat(legacySidecarPath(dir)); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected legacy side-car to be gone, got %v", err)
	}
}
