// sidecar.go - load/store the hidden per-directory index file
//
// Author: Sudhi Herle (sw@herle.net)
// License: GPLv2
package index

import (
	"bufio"
	"encoding/gob"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	fio "github.com/opencoff/go-fio"
)

// side-car file magic; first header field
const MAGIC = "#!fsdup"

// side-car format version
const sidecarVersion = "1"

var (
	// ErrNoIndex means the directory has no side-car file; the
	// directory was never scanned (or its index was removed).
	ErrNoIndex = errors.New("no index for directory")

	// ErrCorruptIndex means a side-car file exists but can't be
	// decoded. Callers must not treat this as an empty index.
	ErrCorruptIndex = errors.New("corrupt index")

	errBadPath = errors.New("path is not valid utf-8")
)

// SidecarPath returns the hidden index file for dir:
// <dir>/.<basename>.pkl
func SidecarPath(dir string) string {
	return filepath.Join(dir, "."+filepath.Base(dir)+".pkl")
}

// older versions wrote a non-hidden side-car
func legacySidecarPath(dir string) string {
	return filepath.Join(dir, filepath.Base(dir)+".pkl")
}

// Load reads the side-car of dir and returns the index and the hash
// algorithm it was built with. A missing side-car yields ErrNoIndex;
// a present but undecodable one yields ErrCorruptIndex.
func Load(dir string) (*Index, string, error) {
	p := SidecarPath(dir)

	// migrate a legacy non-hidden side-car to the hidden name
	if _, err := os.Stat(p); errors.Is(err, fs.ErrNotExist) {
		if lp := legacySidecarPath(dir); lp != p {
			if _, lerr := os.Stat(lp); lerr == nil {
				if rerr := os.Rename(lp, p); rerr != nil {
					return nil, "", fmt.Errorf("migrate %s: %w", lp, rerr)
				}
			}
		}
	}

	fd, err := os.Open(p)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, "", fmt.Errorf("%s: %w", dir, ErrNoIndex)
		}
		return nil, "", err
	}
	defer fd.Close()

	rd := bufio.NewReader(fd)
	line, err := rd.ReadString('\n')
	if err != nil {
		return nil, "", fmt.Errorf("%s: header: %w", p, ErrCorruptIndex)
	}

	fields := strings.Fields(line)
	if len(fields) < 3 || fields[0] != MAGIC {
		return nil, "", fmt.Errorf("%s: bad magic: %w", p, ErrCorruptIndex)
	}
	algo := fields[1]

	var m map[string][]string
	if err = gob.NewDecoder(rd).Decode(&m); err != nil {
		return nil, "", fmt.Errorf("%s: decode: %w", p, ErrCorruptIndex)
	}
	if m == nil {
		m = make(map[string][]string)
	}

	x := &Index{m: m}
	x.normalize()
	return x, algo, nil
}

// Store serializes the full index and overwrites the side-car of dir
// in one shot. A reader never observes a partial write.
func Store(dir string, x *Index, algo string) error {
	p := SidecarPath(dir)

	sf, err := fio.NewSafeFile(p, fio.OPT_OVERWRITE, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return err
	}
	defer sf.Abort()

	if _, err = fmt.Fprintf(sf, "%s %s %s\n", MAGIC, algo, sidecarVersion); err != nil {
		return fmt.Errorf("%s: %w", p, err)
	}
	if err = gob.NewEncoder(sf).Encode(x.m); err != nil {
		return fmt.Errorf("%s: encode: %w", p, err)
	}

	return sf.Close()
}

// Remove deletes the side-car of dir if present.
func Remove(dir string) error {
	err := os.Remove(SidecarPath(dir))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}
