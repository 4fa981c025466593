// main.go -- content-addressed directory dedup toolkit
//
// (c) 2023 Sudhi Herle <sudhi@herle.net>
//
// Licensing Terms: GPLv2
//
// If you need a commercial license for this work, please contact
// the author.
//
// This software does not come with any express or implied
// warranty; it is provided "as is". No claim  is made to its
// suitability for any purpose.

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path"
	"strings"
	"syscall"

	"fsdup/internal/digest"
)

// basename of argv[0]
var Z string = path.Base(os.Args[0])

func main() {
	args := os.Args[1:]
	if len(args) == 0 {
		Die("insufficient arguments. Try '%s help'", Z)
	}

	switch args[0] {
	case "-V", "--version", "version":
		fmt.Printf("%s - %s [%s]\n", Z, ProductVersion, RepoVersion)
		os.Exit(0)
	case "-h", "--help", "help":
		usage(0)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cmd, rest := args[0], args[1:]
	switch cmd {
	case "scan":
		scanCmd(ctx, rest)
	case "dup":
		dupCmd(ctx, rest)
	case "diff":
		diffCmd(ctx, rest)
	case "verify":
		verifyCmd(ctx, rest)
	case "find":
		findCmd(rest)
	case "describe":
		describeCmd(rest)
	default:
		Die("unknown command '%s'. Try '%s help'", cmd, Z)
	}
}

func usage(c int) {
	x := fmt.Sprintf(`%s is a toolkit for content-addressed directory deduplication.

Every regular file under a directory is fingerprinted with a strong
hash; the digest index is persisted in a hidden side-car file inside
the directory and reused by later queries.

Usage: %s COMMAND [options] args...

Commands:
  scan DIR        Rehash every file under DIR and rewrite its index
  dup DIR         Report groups of identical files within DIR
  diff DIR1 DIR2  Compare the content of two directories
  verify DIR      Re-hash DIR and report files that changed or vanished
  find DIR...     Find identical files across directories (no index)
  describe DIR    Summarize file counts and sizes under DIR
  help            Show this help and exit
  version         Show version info and exit

Use '%s COMMAND -h' for per-command options.

Hash algorithms: %s
`, Z, Z, Z, strings.Join(digest.Names(), ", "))

	os.Stdout.Write([]byte(x))
	os.Exit(c)
}

// This will be filled in by "build"
var RepoVersion string = "UNDEFINED"
var ProductVersion string = "UNDEFINED"
