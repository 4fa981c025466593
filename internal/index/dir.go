// dir.go - directory object: scan, persist, query
//
// Author: Sudhi Herle (sw@herle.net)
// License: GPLv2
package index

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"golang.org/x/sync/errgroup"

	"fsdup/internal/scan"
)

// Dir is a directory whose content index lives in a hidden side-car
// file inside it. One Dir owns that side-car; concurrent writers from
// separate processes are not coordinated.
type Dir struct {
	// Path is the absolute directory path.
	Path string

	// Walk controls file enumeration under Path.
	Walk scan.Options

	// Engine configures the parallel hash engine for rebuilds.
	Engine scan.Config
}

// Open returns a Dir for path. A missing path is an error unless
// create is set; directories are never created implicitly.
func Open(path string, create bool) (*Dir, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}

	fi, err := os.Stat(abs)
	switch {
	case err == nil:
		if !fi.IsDir() {
			return nil, fmt.Errorf("%s: not a directory", abs)
		}
	case errors.Is(err, fs.ErrNotExist) && create:
		if err = os.MkdirAll(abs, 0750); err != nil {
			return nil, err
		}
	default:
		return nil, err
	}

	return &Dir{Path: abs}, nil
}

// Rebuild returns the directory's index. With replace unset, an
// existing side-car is loaded as-is and the directory is not
// rescanned. With replace set, any side-car is deleted, every file is
// rehashed, and the result is persisted - even when the directory is
// empty, so a later load sees "scanned and empty" rather than "never
// scanned".
func (d *Dir) Rebuild(ctx context.Context, replace bool) (*Index, error) {
	if !replace {
		x, _, err := Load(d.Path)
		if err == nil {
			return x, nil
		}
		if !errors.Is(err, ErrNoIndex) {
			return nil, err
		}
		// no side-car yet; fall through to a scan
	}

	if err := Remove(d.Path); err != nil {
		return nil, err
	}

	eng, err := scan.New(d.Engine)
	if err != nil {
		return nil, err
	}

	// never index our own side-car
	wopt := d.Walk
	wopt.Excludes = append(append([]string(nil), wopt.Excludes...),
		filepath.Base(SidecarPath(d.Path)))

	paths, err := scan.Enumerate(d.Path, wopt)
	if err != nil {
		return nil, err
	}

	var x *Index
	if len(paths) == 0 {
		x = New()
	} else {
		results := eng.Run(ctx, paths)
		if err = ctx.Err(); err != nil {
			return nil, err
		}
		x = FromScan(results, d.Engine.Warn)
	}

	if err = Store(d.Path, x, eng.Algo()); err != nil {
		return nil, err
	}
	return x, nil
}

// Duplicates reports groups of identical files in d with more than
// keep copies. forceRescan rebuilds the index first; otherwise a
// previously persisted index is reused.
func (d *Dir) Duplicates(ctx context.Context, keep uint, forceRescan bool) ([][]string, error) {
	x, err := d.Rebuild(ctx, forceRescan)
	if err != nil {
		return nil, err
	}
	return Duplicates(x, keep), nil
}

// Compare builds both directory indices (concurrently) and returns
// their digest set-algebra relative to d.
func (d *Dir) Compare(ctx context.Context, other *Dir) (Comparison, error) {
	var xa, xb *Index

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		xa, err = d.Rebuild(gctx, false)
		return err
	})
	g.Go(func() error {
		var err error
		xb, err = other.Rebuild(gctx, false)
		return err
	})
	if err := g.Wait(); err != nil {
		return Comparison{}, err
	}

	return Compare(xa, xb), nil
}
