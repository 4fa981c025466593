// scan.go - rebuild a directory's content index
//
// Author: Sudhi Herle (sw@herle.net)
// License: GPLv2
package main

import (
	"context"
	"fmt"

	"github.com/dustin/go-humanize"
	flag "github.com/opencoff/pflag"
	"github.com/schollz/progressbar/v3"

	"fsdup/internal/digest"
	"fsdup/internal/index"
	"fsdup/internal/scan"
)

func scanCmd(ctx context.Context, args []string) {
	var follow, progress, create bool
	var halgo string
	var threads int
	var prefix int64
	var ignores []string = []string{".git", ".hg"}

	fs := flag.NewFlagSet("scan", flag.ExitOnError)
	fs.BoolVarP(&follow, "follow-symlinks", "L", false, "Follow symlinks")
	fs.BoolVarP(&progress, "progress", "p", false, "Show hashing progress")
	fs.BoolVarP(&create, "create", "c", false, "Create the directory if it doesn't exist")
	fs.IntVarP(&threads, "threads", "j", scan.DefaultThreads, "Use `T` hashing threads")
	fs.StringVarP(&halgo, "hash", "H", digest.Default, "Use hash algorithm `H`")
	fs.Int64VarP(&prefix, "prefix", "", 0, "Fingerprint only the first `N` bytes of each file")
	fs.StringSliceVarP(&ignores, "ignore", "i", ignores, "Ignore names that match these patterns")
	fs.Usage = func() {
		fmt.Printf(
			`%s scan - rehash every file under a directory and rewrite its index.

The index is written whole to the hidden side-car file inside the
directory; any previous index is discarded first.

Usage: %s scan [options] dir

Options:
`, Z, Z)
		fs.PrintDefaults()
	}

	fs.Parse(args)
	args = fs.Args()
	if len(args) != 1 {
		Die("scan: need exactly one directory. Try '%s scan -h'", Z)
	}

	d, err := index.Open(args[0], create)
	if err != nil {
		Die("%s", err)
	}

	d.Walk = scan.Options{
		FollowSymlinks: follow,
		Excludes:       ignores,
		Warn:           warnErr,
	}
	d.Engine = scan.Config{
		Threads: threads,
		Algo:    halgo,
		Prefix:  prefix,
		Warn:    warnFile,
	}
	if progress {
		d.Engine.Progress = hashProgress()
	}
	if prefix > 0 {
		Warn("prefix fingerprints: files sharing their first %d bytes and size are grouped as identical", prefix)
	}

	x, err := d.Rebuild(ctx, true)
	if err != nil {
		Die("%s", err)
	}

	fmt.Printf("%s: %s files, %s distinct digests\n", d.Path,
		humanize.Comma(int64(x.PathCount())), humanize.Comma(int64(x.Len())))
}

// hashProgress renders the engine's progress counter as a bar. The
// bar is created on the first callback - only then is the file count
// known.
func hashProgress() func(done, total int) {
	var bar *progressbar.ProgressBar
	return func(done, total int) {
		if bar == nil {
			bar = progressbar.NewOptions(total,
				progressbar.OptionSetDescription("hashing"),
				progressbar.OptionShowCount(),
			)
		}
		bar.Set(done)
	}
}
