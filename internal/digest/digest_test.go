package digest

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, dir, name string, content []byte) string {
	t.Helper()
	p := filepath.Join(dir, name)
	if err := os.WriteFile(p, content, 0o600); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return p
}

func TestParseRoundTrip(t *testing.T) {
	t.Parallel()

	var d Digest
	d[0] = 0xab
	d[31] = 0x01

	s := d.String()
	if len(s) != 64 {
		t.Fatalf("expected 64-char hex, got %d", len(s))
	}

	got, err := Parse(s)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if got != d {
		t.Fatalf("round trip mismatch: %s != %s", got, d)
	}

	if _, err = Parse("abcd"); err == nil {
		t.Fatalf("expected error for short input")
	}
	if _, err = Parse(string(bytes.Repeat([]byte("zz"), 32))); err == nil {
		t.Fatalf("expected error for non-hex input")
	}
}

func TestFileMatchesSha256(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	content := bytes.Repeat([]byte("0123456789abcdef"), 512)
	p := writeFile(t, dir, "file.bin", content)

	hgen, err := Generator("sha256")
	if err != nil {
		t.Fatalf("Generator: %v", err)
	}

	sum, sz, err := File(p, hgen)
	if err != nil {
		t.Fatalf("File: %v", err)
	}
	if sz != int64(len(content)) {
		t.Fatalf("size: expected %d, got %d", len(content), sz)
	}

	want := sha256.Sum256(content)
	if sum.String() != hex.EncodeToString(want[:]) {
		t.Fatalf("digest mismatch")
	}
}

func TestFileDeterministicAndSensitive(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	p := writeFile(t, dir, "a.txt", []byte("hello world\n"))

	hgen, _ := Generator(Default)

	first, _, err := File(p, hgen)
	if err != nil {
		t.Fatalf("File: %v", err)
	}
	second, _, err := File(p, hgen)
	if err != nil {
		t.Fatalf("File: %v", err)
	}
	if first != second {
		t.Fatalf("same content produced different digests")
	}

	q := writeFile(t, dir, "b.txt", []byte("hello worle\n"))
	other, _, err := File(q, hgen)
	if err != nil {
		t.Fatalf("File: %v", err)
	}
	if other == first {
		t.Fatalf("one changed byte did not change the digest")
	}
}

func TestPrefixFileWeakness(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	shared := bytes.Repeat([]byte("x"), 4096)

	// same prefix, same size, different tails
	a := writeFile(t, dir, "a.bin", append(append([]byte(nil), shared...), []byte("tail-one")...))
	b := writeFile(t, dir, "b.bin", append(append([]byte(nil), shared...), []byte("tail-two")...))

	hgen, _ := Generator(Default)

	pa, _, err := PrefixFile(a, hgen, 1024)
	if err != nil {
		t.Fatalf("PrefixFile: %v", err)
	}
	pb, _, err := PrefixFile(b, hgen, 1024)
	if err != nil {
		t.Fatalf("PrefixFile: %v", err)
	}
	if pa != pb {
		t.Fatalf("expected prefix digests to collide for shared prefix and size")
	}

	fa, _, _ := File(a, hgen)
	fb, _, _ := File(b, hgen)
	if fa == fb {
		t.Fatalf("whole-file digests must differ")
	}
}

func TestPrefixFileSizeMatters(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	a := writeFile(t, dir, "a.bin", []byte("samesame"))
	b := writeFile(t, dir, "b.bin", []byte("samesame-longer"))

	hgen, _ := Generator(Default)

	pa, _, _ := PrefixFile(a, hgen, 4)
	pb, _, _ := PrefixFile(b, hgen, 4)
	if pa == pb {
		t.Fatalf("same prefix but different sizes must not collide")
	}
}

func TestPrefixZeroIsWholeFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	p := writeFile(t, dir, "c.bin", []byte("short content"))

	hgen, _ := Generator(Default)

	full, _, _ := File(p, hgen)
	zero, _, err := PrefixFile(p, hgen, 0)
	if err != nil {
		t.Fatalf("PrefixFile: %v", err)
	}
	if full != zero {
		t.Fatalf("prefix=0 must fall back to the whole-file digest")
	}
}

func TestRegistryAllThirtyTwoBytes(t *testing.T) {
	t.Parallel()

	for _, nm := range Names() {
		hgen, err := Generator(nm)
		if err != nil {
			t.Fatalf("%s: %v", nm, err)
		}
		if n := hgen().Size(); n != Size {
			t.Fatalf("%s: output size %d, want %d", nm, n, Size)
		}
	}

	if _, err := Generator("md5"); err == nil {
		t.Fatalf("expected unknown-algorithm error")
	}
}
