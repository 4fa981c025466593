// digest.go - fixed-size content fingerprints and hash algorithms
//
// Author: Sudhi Herle (sw@herle.net)
// License: GPLv2
package digest

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"hash"
	"sort"

	"github.com/zeebo/blake3"
	"golang.org/x/crypto/blake2b"
	"golang.org/x/crypto/blake2s"
	"golang.org/x/crypto/sha3"
)

// Size is the fixed digest length in bytes. Every algorithm in the
// registry produces exactly this many bytes.
const Size = 32

// Digest is the content fingerprint of one file. It renders to a
// 64-char lowercase hex string; the hex form is the canonical index key.
type Digest [Size]byte

func (d Digest) String() string {
	return hex.EncodeToString(d[:])
}

// Parse decodes a 64-char lowercase hex string into a Digest.
func Parse(s string) (Digest, error) {
	var d Digest

	if len(s) != 2*Size {
		return d, fmt.Errorf("digest: bad length %d for %q", len(s), s)
	}

	b, err := hex.DecodeString(s)
	if err != nil {
		return d, fmt.Errorf("digest: %q: %w", s, err)
	}

	copy(d[:], b)
	return d, nil
}

// Default is the algorithm used when callers don't pick one.
const Default = "sha256"

// registry of 32-byte output hash algorithms
var algos = map[string]func() hash.Hash{
	"sha256":   func() hash.Hash { return sha256.New() },
	"sha3-256": func() hash.Hash { return sha3.New256() },
	"blake2s":  func() hash.Hash { return keyedHashGen1(blake2s.New256) },
	"blake2b":  func() hash.Hash { return keyedHashGen1(blake2b.New256) },
	"blake3":   func() hash.Hash { return keyedHashGen2(blake3.NewKeyed) },
}

// Generator returns the hash constructor for the named algorithm.
func Generator(name string) (func() hash.Hash, error) {
	g, ok := algos[name]
	if !ok {
		return nil, fmt.Errorf("digest: unknown hash algorithm '%s'", name)
	}
	return g, nil
}

// Names returns the supported algorithm names in sorted order.
func Names() []string {
	nm := make([]string, 0, len(algos))
	for k := range algos {
		nm = append(nm, k)
	}
	sort.Strings(nm)
	return nm
}

func keyedHashGen1(hg func(key []byte) (hash.Hash, error)) hash.Hash {
	var zeroes [32]byte
	h, err := hg(zeroes[:])
	if err != nil {
		panic(fmt.Sprintf("%p: %s", hg, err))
	}
	return h
}

func keyedHashGen2(hg func(key []byte) (*blake3.Hasher, error)) hash.Hash {
	var zeroes [32]byte
	h, err := hg(zeroes[:])
	if err != nil {
		panic(fmt.Sprintf("%p: %s", hg, err))
	}
	return h
}
