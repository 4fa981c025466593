// die.go - simple stderr diagnostics
//
// Author: Sudhi Herle (sw@herle.net)
// License: GPLv2
package main

import (
	"fmt"
	"os"
)

// Die prints an error to stderr and exits with code 1.
func Die(f string, v ...any) {
	Warn(f, v...)
	os.Exit(1)
}

// Warn prints a warning to stderr.
func Warn(f string, v ...any) {
	s := fmt.Sprintf(f, v...)
	if n := len(s); n == 0 || s[n-1] != '\n' {
		s += "\n"
	}
	fmt.Fprintf(os.Stderr, "%s: %s", Z, s)
	os.Stderr.Sync()
}

// warnErr adapts Warn for traversal error callbacks.
func warnErr(err error) {
	Warn("%s", err)
}

// warnFile adapts Warn for per-file hash failure callbacks.
func warnFile(path string, err error) {
	Warn("%s: %s", path, err)
}
