// index.go - mapping from content digest to the paths sharing it
//
// Author: Sudhi Herle (sw@herle.net)
// License: GPLv2
package index

import (
	"maps"
	"slices"
	"sort"
	"unicode/utf8"

	"fsdup/internal/digest"
	"fsdup/internal/scan"
)

// Index maps a 64-char hex digest to the set of file paths whose
// content hashes to it. An index is built whole by one scan and never
// patched; a path appears under exactly one digest.
type Index struct {
	m map[string][]string
}

func New() *Index {
	return &Index{m: make(map[string][]string)}
}

// FromScan groups scan results into an index. Slots with errors are
// skipped (the engine already warned about them); paths that are not
// valid UTF-8 are skipped via warn.
func FromScan(results []scan.Result, warn func(path string, err error)) *Index {
	x := New()
	for i := range results {
		r := &results[i]
		if r.Err != nil {
			continue
		}
		if !utf8.ValidString(r.Path) {
			if warn != nil {
				warn(r.Path, errBadPath)
			}
			continue
		}
		x.Add(r.Sum, r.Path)
	}
	x.normalize()
	return x
}

// Add records one path under a digest.
func (x *Index) Add(sum digest.Digest, path string) {
	key := sum.String()
	x.m[key] = append(x.m[key], path)
}

// Paths returns the bucket for a hex digest, or nil.
func (x *Index) Paths(hexsum string) []string {
	v := x.m[hexsum]
	if v == nil {
		return nil
	}
	return slices.Clone(v)
}

// Digests returns every hex digest in the index, sorted.
func (x *Index) Digests() []string {
	keys := make([]string, 0, len(x.m))
	for k := range x.m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Len is the number of distinct digests.
func (x *Index) Len() int {
	return len(x.m)
}

// PathCount is the total number of indexed paths across all buckets.
func (x *Index) PathCount() int {
	n := 0
	for _, v := range x.m {
		n += len(v)
	}
	return n
}

// Has reports whether a hex digest is present.
func (x *Index) Has(hexsum string) bool {
	_, ok := x.m[hexsum]
	return ok
}

// Equal reports whether two indices hold the same digest -> path-set
// mapping.
func (x *Index) Equal(o *Index) bool {
	return maps.EqualFunc(x.m, o.m, slices.Equal)
}

// sort each bucket and drop duplicate paths
func (x *Index) normalize() {
	for k, v := range x.m {
		sort.Strings(v)
		x.m[k] = slices.Compact(v)
	}
}
