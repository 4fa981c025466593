// describe.go - quick overview of a directory's contents
//
// Author: Sudhi Herle (sw@herle.net)
// License: GPLv2
package main

import (
	"errors"
	"fmt"
	"sync"

	"github.com/dustin/go-humanize"
	"github.com/opencoff/go-fio/walk"
	"github.com/opencoff/go-utils"
	flag "github.com/opencoff/pflag"

	"fsdup/internal/index"
)

func describeCmd(args []string) {
	var follow bool
	var excludes []string

	fs := flag.NewFlagSet("describe", flag.ExitOnError)
	fs.BoolVarP(&follow, "follow-symlinks", "L", false, "Follow symlinks")
	fs.StringSliceVarP(&excludes, "exclude", "", nil, "Exclude names starting with `N`")
	fs.Usage = func() {
		fmt.Printf(
			`%s describe - summarize a directory's contents.

Usage: %s describe [options] dir

Options:
`, Z, Z)
		fs.PrintDefaults()
	}

	fs.Parse(args)
	args = fs.Args()
	if len(args) != 1 {
		Die("describe: need exactly one directory. Try '%s describe -h'", Z)
	}

	d, err := index.Open(args[0], false)
	if err != nil {
		Die("%s", err)
	}

	opt := walk.Options{
		FollowSymlinks: follow,
		Type:           walk.FILE,
		Excludes:       excludes,

		// don't count hardlinked content twice
		IgnoreDuplicateInode: true,
	}

	ch, ech := walk.Walk([]string{d.Path}, opt)

	// harvest errors
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		for e := range ech {
			Warn("%s", e)
		}
		wg.Done()
	}()

	var nFiles, total uint64
	var largest string
	var largestSz uint64
	for fi := range ch {
		sz := uint64(fi.Size())
		nFiles++
		total += sz
		if sz > largestSz {
			largest, largestSz = fi.Path(), sz
		}
	}
	wg.Wait()

	fmt.Printf("%s:\n", d.Path)
	fmt.Printf("    files    %s\n", humanize.Comma(int64(nFiles)))
	fmt.Printf("    size     %s\n", utils.HumanizeSize(total))
	if largest != "" {
		fmt.Printf("    largest  %s (%s)\n", largest, utils.HumanizeSize(largestSz))
	}

	// report on a saved index, when one exists
	x, halgo, err := index.Load(d.Path)
	switch {
	case err == nil:
		nDup := len(index.Duplicates(x, 1))
		fmt.Printf("    index    %s files, %s distinct digests, %s duplicate groups (%s)\n",
			humanize.Comma(int64(x.PathCount())), humanize.Comma(int64(x.Len())),
			humanize.Comma(int64(nDup)), halgo)
	case errors.Is(err, index.ErrNoIndex):
		fmt.Printf("    index    none; run '%s scan %s'\n", Z, d.Path)
	default:
		Warn("%s", err)
	}
}
