// diff.go - compare the content of two directories
//
// Author: Sudhi Herle (sw@herle.net)
// License: GPLv2
package main

import (
	"context"
	"fmt"

	"github.com/dustin/go-humanize"
	flag "github.com/opencoff/pflag"

	"fsdup/internal/index"
	"fsdup/internal/scan"
)

func diffCmd(ctx context.Context, args []string) {
	var list, quiet, follow bool

	fs := flag.NewFlagSet("diff", flag.ExitOnError)
	fs.BoolVarP(&list, "list", "l", false, "List the digests in each set")
	fs.BoolVarP(&quiet, "quiet", "q", false, "Suppress the summary")
	fs.BoolVarP(&follow, "follow-symlinks", "L", false, "Follow symlinks when scanning")
	fs.Usage = func() {
		fmt.Printf(
			`%s diff - compare the content of two directories.

Both directories are indexed (reusing saved indices where present)
and their digest sets intersected. Percentages are relative to the
number of files in the first directory's index.

Usage: %s diff [options] dir1 dir2

Options:
`, Z, Z)
		fs.PrintDefaults()
	}

	fs.Parse(args)
	args = fs.Args()
	if len(args) != 2 {
		Die("diff: need exactly two directories. Try '%s diff -h'", Z)
	}

	da, err := index.Open(args[0], false)
	if err != nil {
		Die("%s", err)
	}
	db, err := index.Open(args[1], false)
	if err != nil {
		Die("%s", err)
	}

	wopt := scan.Options{FollowSymlinks: follow, Warn: warnErr}
	cfg := scan.Config{Warn: warnFile}
	da.Walk, db.Walk = wopt, wopt
	da.Engine, db.Engine = cfg, cfg

	cmp, err := da.Compare(ctx, db)
	if err != nil {
		Die("%s", err)
	}

	if !quiet {
		fmt.Printf("%s vs %s:\n", da.Path, db.Path)
		fmt.Printf("    common  %8s digests  (%s)\n",
			humanize.Comma(int64(len(cmp.Common))), pct(len(cmp.Common), cmp.ATotal))
		fmt.Printf("    only A  %8s digests  (%s)\n",
			humanize.Comma(int64(len(cmp.OnlyA))), pct(len(cmp.OnlyA), cmp.ATotal))
		fmt.Printf("    %s indexed files in %s\n",
			humanize.Comma(int64(cmp.ATotal)), da.Path)
	}

	if list {
		for _, k := range cmp.Common {
			fmt.Printf("= %s\n", k)
		}
		for _, k := range cmp.OnlyA {
			fmt.Printf("< %s\n", k)
		}
	}
}

// pct formats n as a percentage of the first directory's indexed
// file count.
func pct(n, total int) string {
	if total == 0 {
		return "-"
	}
	return fmt.Sprintf("%.1f%%", float64(n)*100/float64(total))
}
