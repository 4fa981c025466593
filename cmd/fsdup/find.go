// find.go - find duplicate files across one or more dirs, no index
//
// Author: Sudhi Herle (sw@herle.net)
// License: GPLv2
package main

import (
	"fmt"
	"sort"
	"strings"

	"github.com/opencoff/go-fio"
	"github.com/opencoff/go-fio/walk"
	flag "github.com/opencoff/pflag"
	"github.com/puzpuzpuz/xsync/v3"

	"fsdup/internal/digest"
)

func findCmd(args []string) {
	var shell, follow bool
	var halgo string
	var ignores []string = []string{".git", ".hg"}

	fs := flag.NewFlagSet("find", flag.ExitOnError)
	fs.BoolVarP(&follow, "follow-symlinks", "L", false, "Follow symlinks")
	fs.BoolVarP(&shell, "shell", "s", false, "Generate shell commands")
	fs.StringVarP(&halgo, "hash", "H", digest.Default, "Use hash algorithm `H`")
	fs.StringSliceVarP(&ignores, "ignore", "i", ignores, "Ignore names that match these patterns")
	fs.Usage = func() {
		fmt.Printf(
			`%s find - find duplicate files in one or more dirs.

Files that have the same content digest are considered to be
identical. The names of the identical files are sorted on modification
time - with the most recent file at the top. Nothing is persisted.

Usage: %s find [options] dir [dir...]

Options:
`, Z, Z)
		fs.PrintDefaults()
	}

	fs.Parse(args)
	args = fs.Args()
	if len(args) == 0 {
		Die("find: insufficient args. Try '%s find -h'", Z)
	}

	hgen, err := digest.Generator(halgo)
	if err != nil {
		Die("%s", err)
	}

	opt := walk.Options{
		FollowSymlinks: follow,
		Type:           walk.FILE,
		Excludes:       ignores,
	}

	dups := xsync.NewMapOf[string, *[]*fio.Info]()
	err = walk.WalkFunc(args, opt, func(fi *fio.Info) error {
		sum, _, err := digest.File(fi.Path(), hgen)
		if err != nil {
			return err
		}

		empty := []*fio.Info{}
		x, _ := dups.LoadOrStore(sum.String(), &empty)
		*x = append(*x, fi)
		return nil
	})

	if err != nil {
		Die("%s", err)
	}

	dups.Range(func(k string, pv *[]*fio.Info) bool {
		v := *pv
		if len(v) < 2 {
			return true
		}

		sort.Sort(byMtime(v))

		fmt.Printf("\n# %s\n", k)
		if shell {
			fmt.Printf("# rm -f '%s'\n", v[0].Path())
			for _, r := range v[1:] {
				fmt.Printf("rm -f '%s'\n", r.Path())
			}
		} else {
			fmt.Printf("    %s\n", names(v))
		}

		return true
	})
}

func names(v []*fio.Info) string {
	var b strings.Builder

	b.WriteString(v[0].Path())
	for _, r := range v[1:] {
		b.WriteString("\n    ")
		b.WriteString(r.Path())
	}
	return b.String()
}

type byMtime []*fio.Info

func (r byMtime) Len() int {
	return len(r)
}

func (r byMtime) Swap(i, j int) {
	r[i], r[j] = r[j], r[i]
}

func (r byMtime) Less(i, j int) bool {
	a, b := r[i], r[j]

	x := a.ModTime().Compare(b.ModTime())

	// we want to keep the most recent mtime at the top.
	return x > 0
}
