// verify.go - re-hash indexed files and report drift
//
// Author: Sudhi Herle (sw@herle.net)
// License: GPLv2
package main

import (
	"context"
	"fmt"
	"hash"
	"os"
	"runtime"
	"strings"
	"sync"

	"crypto/subtle"

	flag "github.com/opencoff/pflag"

	"fsdup/internal/digest"
	"fsdup/internal/index"
)

const _parallelism int = 2

var nWorkers = runtime.NumCPU() * _parallelism

type vitem struct {
	expsum string
	file   string
}

func verifyCmd(ctx context.Context, args []string) {
	var prefix int64

	fs := flag.NewFlagSet("verify", flag.ExitOnError)
	fs.Int64VarP(&prefix, "prefix", "", 0, "Fingerprint only the first `N` bytes (must match the scan)")
	fs.Usage = func() {
		fmt.Printf(
			`%s verify - re-hash the files recorded in a directory's index.

Every indexed path is hashed again with the algorithm recorded in the
side-car; files that changed or vanished since the scan are reported.

Usage: %s verify [options] dir

Options:
`, Z, Z)
		fs.PrintDefaults()
	}

	fs.Parse(args)
	args = fs.Args()
	if len(args) != 1 {
		Die("verify: need exactly one directory. Try '%s verify -h'", Z)
	}

	d, err := index.Open(args[0], false)
	if err != nil {
		Die("%s", err)
	}

	x, halgo, err := index.Load(d.Path)
	if err != nil {
		Die("%s", err)
	}

	hgen, err := digest.Generator(halgo)
	if err != nil {
		Die("%s: %s", index.SidecarPath(d.Path), err)
	}

	var wg sync.WaitGroup
	ch := make(chan vitem, nWorkers)
	errch := make(chan error, 1)

	// workers re-hash and compare
	wg.Add(nWorkers)
	for i := 0; i < nWorkers; i++ {
		go func(ch chan vitem, errch chan error) {
			for it := range ch {
				if err := verifyFile(it, hgen, prefix); err != nil {
					errch <- err
				}
			}
			wg.Done()
		}(ch, errch)
	}

	// feed every indexed path
	var nFiles int
	wg.Add(1)
	go func(ch chan vitem) {
		for _, k := range x.Digests() {
			for _, p := range x.Paths(k) {
				nFiles++
				select {
				case ch <- vitem{expsum: k, file: p}:
				case <-ctx.Done():
					close(ch)
					wg.Done()
					return
				}
			}
		}
		close(ch)
		wg.Done()
	}(ch)

	// harvest errors
	var errs []string
	var ewg sync.WaitGroup
	ewg.Add(1)
	go func(errch chan error) {
		for err := range errch {
			errs = append(errs, fmt.Sprintf("%s", err))
		}
		ewg.Done()
	}(errch)

	// don't reorder these:
	//  - we want to first wait for the workers to complete
	//  - then, close the error harvestor
	//  - and finally wait for it to drain
	wg.Wait()
	close(errch)
	ewg.Wait()

	if len(errs) > 0 {
		Warn("%s", strings.Join(errs, "\n"))
		fmt.Printf("%s: %d of %d files drifted from the index\n", d.Path, len(errs), nFiles)
		os.Exit(1)
	}

	fmt.Printf("%s: %d files verified\n", d.Path, nFiles)
}

func verifyFile(it vitem, hgen func() hash.Hash, prefix int64) error {
	fi, err := os.Stat(it.file)
	if err != nil {
		return fmt.Errorf("%s: %w", it.file, err)
	}
	if !fi.Mode().IsRegular() {
		return fmt.Errorf("%s: not a file", it.file)
	}

	sum, _, err := digest.PrefixFile(it.file, hgen, prefix)
	if err != nil {
		return fmt.Errorf("%s: can't hash: %w", it.file, err)
	}

	csum := sum.String()
	if subtle.ConstantTimeCompare([]byte(csum), []byte(it.expsum)) != 1 {
		return fmt.Errorf("%s: file modified", it.file)
	}
	return nil
}
