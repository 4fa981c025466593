// query.go - duplicate detection and directory comparison on indices
//
// Author: Sudhi Herle (sw@herle.net)
// License: GPLv2
package index

import "sort"

// Duplicates returns every bucket whose path count is strictly
// greater than keep, i.e. keep is the number of copies to retain, not
// a cap on what is reported. Groups are ordered by their first path.
func Duplicates(x *Index, keep uint) [][]string {
	groups := make([][]string, 0, 8)
	for _, v := range x.m {
		if uint(len(v)) > keep {
			groups = append(groups, append([]string(nil), v...))
		}
	}

	sort.Slice(groups, func(i, j int) bool {
		return groups[i][0] < groups[j][0]
	})
	return groups
}

// Comparison is the digest set-algebra between two directory indices.
type Comparison struct {
	// Common holds the digests present in both indices (sorted hex).
	Common []string

	// OnlyA holds the digests present in A but not B (sorted hex).
	OnlyA []string

	// ATotal is A's indexed path count. Percentages in summaries are
	// computed against this, not against a live re-walk of A.
	ATotal int
}

// Compare intersects and differences the digest sets of a and b.
// OnlyA is the complement of Common within a's digest set.
func Compare(a, b *Index) Comparison {
	c := Comparison{
		Common: make([]string, 0, min(a.Len(), b.Len())),
		OnlyA:  make([]string, 0, a.Len()),
		ATotal: a.PathCount(),
	}

	for _, k := range a.Digests() {
		if b.Has(k) {
			c.Common = append(c.Common, k)
		} else {
			c.OnlyA = append(c.OnlyA, k)
		}
	}
	return c
}
