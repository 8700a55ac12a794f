// Package workpool bounds the parallelism of scan and clean work.
package workpool

import (
	"context"
	"errors"
	"runtime"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"
)

// ErrInvalidThreads is returned for a negative thread count.
var ErrInvalidThreads = errors.New("thread count must be zero (auto) or positive")

// Pool limits concurrent filesystem operations. A single Pool is shared by
// the scanner and the cleaner of one run.
type Pool struct {
	size int
	sem  *semaphore.Weighted
}

// New creates a Pool with the given number of workers. Zero selects the
// number of logical CPUs.
func New(threads int) (*Pool, error) {
	if threads < 0 {
		return nil, ErrInvalidThreads
	}
	if threads == 0 {
		threads = runtime.NumCPU()
	}
	return &Pool{size: threads, sem: semaphore.NewWeighted(int64(threads))}, nil
}

// Size returns the worker count.
func (p *Pool) Size() int {
	if p == nil {
		return 1
	}
	return p.size
}

// Run acquires a slot, runs fn and releases the slot. Returns ctx.Err() if
// the context is cancelled while waiting. A nil Pool runs fn directly.
//
// Callers must not call Run from inside fn: slots are held for the whole
// call, so nested acquisition can deadlock.
func (p *Pool) Run(ctx context.Context, fn func() error) error {
	if p == nil || p.sem == nil {
		return fn()
	}
	if err := p.sem.Acquire(ctx, 1); err != nil {
		return err
	}
	defer p.sem.Release(1)
	return fn()
}

// ForEach calls fn(ctx, i) for every i in [0, n) on at most Size()
// goroutines. The first error cancels the remaining items and is returned.
// Items that have not started when ctx is cancelled are skipped.
func ForEach(ctx context.Context, p *Pool, n int, fn func(ctx context.Context, i int) error) error {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.Size())
	for i := 0; i < n; i++ {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			return fn(gctx, i)
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	return ctx.Err()
}
