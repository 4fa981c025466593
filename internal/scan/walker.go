// walker.go - enumerate regular files under a directory tree
//
// Author: Sudhi Herle (sw@herle.net)
// License: GPLv2
package scan

import (
	"fmt"
	"os"
	"sort"
	"sync"

	"github.com/opencoff/go-fio/walk"
)

// Options controls one enumeration of a directory tree.
type Options struct {
	// FollowSymlinks descends into symlinked directories and hashes
	// symlinked files.
	FollowSymlinks bool

	// Excludes are name patterns to skip (walk(3) style).
	Excludes []string

	// Warn receives traversal errors - unreadable subtrees, entries
	// that vanished mid-walk. The walk continues past them. Nil means
	// the errors are dropped.
	Warn func(error)
}

// Enumerate returns the absolute paths of every regular file under
// root, sorted. Unreadable subtrees are reported via opt.Warn and
// skipped; one bad branch never aborts the walk.
func Enumerate(root string, opt Options) ([]string, error) {
	st, err := os.Stat(root)
	if err != nil {
		return nil, err
	}
	if !st.IsDir() {
		return nil, fmt.Errorf("%s: not a directory", root)
	}

	wo := walk.Options{
		FollowSymlinks: opt.FollowSymlinks,
		Type:           walk.FILE,
		Excludes:       opt.Excludes,
	}

	ch, ech := walk.Walk([]string{root}, wo)

	// harvest traversal errors while the walk continues
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		for e := range ech {
			if opt.Warn != nil {
				opt.Warn(e)
			}
		}
		wg.Done()
	}()

	paths := make([]string, 0, 1024)
	for fi := range ch {
		paths = append(paths, fi.Path())
	}
	wg.Wait()

	sort.Strings(paths)
	return paths, nil
}
