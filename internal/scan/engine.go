// engine.go - parallel hash engine with static work partitioning
//
// Author: Sudhi Herle (sw@herle.net)
// License: GPLv2
package scan

import (
	"context"
	"hash"
	"sync"
	"time"

	"fsdup/internal/digest"
)

// DefaultThreads is the worker count used when Config.Threads is zero.
const DefaultThreads = 16

// progressInterval is how often the reporter samples the shared counter.
const progressInterval = 100 * time.Millisecond

// Config configures a hash Engine. The zero value is usable: sha256,
// whole-file digests, DefaultThreads workers, no progress reporting.
type Config struct {
	// Threads is the fixed worker count for one run.
	Threads int

	// Algo names the hash algorithm; see digest.Names().
	Algo string

	// Prefix > 0 switches to the prefix fingerprint: only the first
	// Prefix bytes plus the byte size are hashed. Weaker grouping
	// guarantee; see digest.PrefixFile.
	Prefix int64

	// Progress, when non-nil, is invoked from a single reporter
	// goroutine with (files done, files total) roughly every 100ms,
	// and once more after all workers finish.
	Progress func(done, total int)

	// Warn receives per-file hashing failures. Nil means dropped.
	// Must be safe to call from multiple goroutines.
	Warn func(path string, err error)
}

// Result is one file's slot in the engine output. A non-nil Err means
// the file has no digest and must be excluded from the index.
type Result struct {
	Path string
	Sum  digest.Digest
	Err  error
}

// Engine computes digests for a batch of files using a bounded pool
// of workers. Each run's buffers are scoped to that run.
type Engine struct {
	cfg  Config
	hgen func() hash.Hash
}

// New validates cfg and returns an Engine.
func New(cfg Config) (*Engine, error) {
	if cfg.Threads <= 0 {
		cfg.Threads = DefaultThreads
	}
	if cfg.Algo == "" {
		cfg.Algo = digest.Default
	}

	hgen, err := digest.Generator(cfg.Algo)
	if err != nil {
		return nil, err
	}

	return &Engine{cfg: cfg, hgen: hgen}, nil
}

// Algo returns the configured algorithm name.
func (e *Engine) Algo() string {
	return e.cfg.Algo
}

// Run hashes every path and returns one Result per input, index
// aligned with 'paths'. Within a worker's range files are hashed in
// order; per-file failures land in that slot's Err and never abort
// the batch. Cancelling ctx marks the remaining slots with ctx.Err().
func (e *Engine) Run(ctx context.Context, paths []string) []Result {
	n := len(paths)
	res := make([]Result, n)
	if n == 0 {
		return res
	}

	nw := e.cfg.Threads
	if nw > n {
		nw = n
	}

	// progress counter; shared by all workers, guarded by its own
	// mutex, used for reporting only
	var pmu sync.Mutex
	var nDone int

	var wg sync.WaitGroup
	wg.Add(nw)
	for t := 0; t < nw; t++ {
		// worker t exclusively owns slots [start, end) of res
		start := t * n / nw
		end := (t + 1) * n / nw

		go func(start, end int) {
			defer wg.Done()
			for i := start; i < end; i++ {
				res[i] = e.hashOne(ctx, paths[i])
				pmu.Lock()
				nDone++
				pmu.Unlock()
			}
		}(start, end)
	}

	// optional reporter; terminates when the done flag is set after
	// all workers have joined
	var rmu sync.Mutex
	var rwg sync.WaitGroup
	finished := false

	if e.cfg.Progress != nil {
		rwg.Add(1)
		go func() {
			defer rwg.Done()
			tick := time.NewTicker(progressInterval)
			defer tick.Stop()
			for {
				rmu.Lock()
				stop := finished
				rmu.Unlock()
				if stop {
					return
				}

				pmu.Lock()
				cur := nDone
				pmu.Unlock()
				e.cfg.Progress(cur, n)
				<-tick.C
			}
		}()
	}

	wg.Wait()

	rmu.Lock()
	finished = true
	rmu.Unlock()
	rwg.Wait()

	if e.cfg.Progress != nil {
		pmu.Lock()
		cur := nDone
		pmu.Unlock()
		e.cfg.Progress(cur, n)
	}

	return res
}

func (e *Engine) hashOne(ctx context.Context, fn string) Result {
	if err := ctx.Err(); err != nil {
		return Result{Path: fn, Err: err}
	}

	sum, _, err := digest.PrefixFile(fn, e.hgen, e.cfg.Prefix)
	if err != nil {
		if e.cfg.Warn != nil {
			e.cfg.Warn(fn, err)
		}
		return Result{Path: fn, Err: err}
	}

	return Result{Path: fn, Sum: sum}
}
