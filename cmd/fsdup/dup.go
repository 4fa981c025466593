// dup.go - report duplicate files within one directory
//
// Author: Sudhi Herle (sw@herle.net)
// License: GPLv2
package main

import (
	"context"
	"fmt"
	"strings"

	flag "github.com/opencoff/pflag"

	"fsdup/internal/index"
	"fsdup/internal/scan"
)

func dupCmd(ctx context.Context, args []string) {
	var rescan, shell, follow bool
	var keep uint

	fs := flag.NewFlagSet("dup", flag.ExitOnError)
	fs.UintVarP(&keep, "keep", "k", 2, "Report groups with more than `K` copies")
	fs.BoolVarP(&rescan, "rescan", "r", false, "Rescan the directory instead of reusing the saved index")
	fs.BoolVarP(&shell, "shell", "s", false, "Generate shell commands")
	fs.BoolVarP(&follow, "follow-symlinks", "L", false, "Follow symlinks when rescanning")
	fs.Usage = func() {
		fmt.Printf(
			`%s dup - report groups of identical files within a directory.

Files with the same content digest are considered identical. A group
is reported only when it holds strictly more than K copies; K is the
number of copies to retain, not a cap on what is shown.

Usage: %s dup [options] dir

Options:
`, Z, Z)
		fs.PrintDefaults()
	}

	fs.Parse(args)
	args = fs.Args()
	if len(args) != 1 {
		Die("dup: need exactly one directory. Try '%s dup -h'", Z)
	}

	d, err := index.Open(args[0], false)
	if err != nil {
		Die("%s", err)
	}
	d.Walk = scan.Options{FollowSymlinks: follow, Warn: warnErr}
	d.Engine = scan.Config{Warn: warnFile}

	groups, err := d.Duplicates(ctx, keep, rescan)
	if err != nil {
		Die("%s", err)
	}

	for _, g := range groups {
		fmt.Printf("\n# %d copies\n", len(g))
		if shell {
			fmt.Printf("# rm -f '%s'\n", g[0])
			for _, p := range g[1:] {
				fmt.Printf("rm -f '%s'\n", p)
			}
		} else {
			fmt.Printf("    %s\n", strings.Join(g, "\n    "))
		}
	}
}
