// hashfile.go - hash a file's content into a Digest
//
// Author: Sudhi Herle (sw@herle.net)
// License: GPLv2
package digest

import (
	"fmt"
	"hash"
	"io"
	"os"

	"github.com/opencoff/go-mmap"
)

// File hashes the whole content of 'fn' and returns the digest and
// file size. The digest depends only on content - never on path,
// inode or timestamps.
func File(fn string, hgen func() hash.Hash) (Digest, int64, error) {
	var d Digest

	fd, err := os.Open(fn)
	if err != nil {
		return d, 0, err
	}
	defer fd.Close()

	h := hgen()
	sz, err := mmap.Reader(fd, func(b []byte) error {
		h.Write(b)
		return nil
	})
	if err != nil {
		return d, 0, err
	}

	copy(d[:], h.Sum(nil))
	return d, sz, nil
}

// PrefixFile hashes the first 'prefix' bytes of 'fn' along with its
// byte size. Two files sharing a prefix and a size collide under this
// fingerprint even when they differ later; callers accept that risk
// in exchange for bounded I/O per file. prefix <= 0 falls back to the
// whole-file digest.
func PrefixFile(fn string, hgen func() hash.Hash, prefix int64) (Digest, int64, error) {
	var d Digest

	if prefix <= 0 {
		return File(fn, hgen)
	}

	fd, err := os.Open(fn)
	if err != nil {
		return d, 0, err
	}
	defer fd.Close()

	fi, err := fd.Stat()
	if err != nil {
		return d, 0, err
	}

	h := hgen()
	if _, err = io.Copy(h, io.LimitReader(fd, prefix)); err != nil {
		return d, 0, err
	}
	fmt.Fprintf(h, "%d", fi.Size())

	copy(d[:], h.Sum(nil))
	return d, fi.Size(), nil
}
