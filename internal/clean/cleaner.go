// Package clean deletes the build artifacts of selected projects.
package clean

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog"

	"github.com/lakshaymaurya-felt/purgedev/internal/core"
	"github.com/lakshaymaurya-felt/purgedev/internal/preserve"
	"github.com/lakshaymaurya-felt/purgedev/internal/project"
	"github.com/lakshaymaurya-felt/purgedev/internal/workpool"
)

// Preserver copies outputs worth keeping out of a project before its
// artifacts are deleted.
type Preserver interface {
	Preserve(p project.Project) ([]preserve.File, error)
}

// Remover measures and deletes one artifact directory, returning the bytes
// it reclaimed.
type Remover interface {
	Remove(path string) (int64, error)
}

// StrategyRemover deletes with core.SafeDelete using a fixed strategy.
type StrategyRemover struct {
	Strategy core.RemovalStrategy
}

// Remove implements Remover.
func (r StrategyRemover) Remove(path string) (int64, error) {
	return core.SafeDelete(path, r.Strategy)
}

// Progress receives one increment per finished project.
type Progress interface {
	Increment(n int)
	SetMessage(msg string)
	Finish(msg string)
}

type nopProgress struct{}

func (nopProgress) Increment(int)     {}
func (nopProgress) SetMessage(string) {}
func (nopProgress) Finish(string)     {}

// Result summarizes a clean run. It is built once all projects are done.
type Result struct {
	SuccessCount  int             `json:"success_count" yaml:"success_count"`
	FailureCount  int             `json:"failure_count" yaml:"failure_count"`
	SkippedCount  int             `json:"skipped_count,omitempty" yaml:"skipped_count,omitempty"`
	TotalFreed    int64           `json:"total_freed" yaml:"total_freed"`
	EstimatedSize int64           `json:"estimated_size" yaml:"estimated_size"`
	Errors        []string        `json:"errors" yaml:"errors"`
	Preserved     []preserve.File `json:"preserved,omitempty" yaml:"preserved,omitempty"`
}

// Cleaner deletes artifacts in parallel on a shared pool.
type Cleaner struct {
	pool      *workpool.Pool
	remover   Remover
	preserver Preserver
	guard     *Guard
	log       zerolog.Logger
	progress  Progress
}

// Option configures a Cleaner.
type Option func(*Cleaner)

// WithPreserver enables executable preservation before deletion.
func WithPreserver(p Preserver) Option {
	return func(c *Cleaner) { c.preserver = p }
}

// WithGuard replaces the default protected-path guard.
func WithGuard(g *Guard) Option {
	return func(c *Cleaner) { c.guard = g }
}

// WithLogger sets the logger for per-project diagnostics.
func WithLogger(l zerolog.Logger) Option {
	return func(c *Cleaner) { c.log = l }
}

// WithProgress sets the sink advanced once per finished project.
func WithProgress(p Progress) Option {
	return func(c *Cleaner) {
		if p != nil {
			c.progress = p
		}
	}
}

// New creates a Cleaner that deletes through remover.
func New(pool *workpool.Pool, remover Remover, options ...Option) *Cleaner {
	c := &Cleaner{
		pool:     pool,
		remover:  remover,
		guard:    NewGuard(nil),
		log:      zerolog.Nop(),
		progress: nopProgress{},
	}
	for _, opt := range options {
		opt(c)
	}
	return c
}

// run is the shared state of one Clean call.
type run struct {
	freed     atomic.Int64
	failed    atomic.Int64
	processed atomic.Int64

	mu        sync.Mutex
	errors    []string
	preserved []preserve.File
}

func (r *run) fail(path string, err error) {
	var pe *core.PathError
	if errors.As(err, &pe) {
		err = pe.Err
	}
	r.mu.Lock()
	r.errors = append(r.errors, fmt.Sprintf("failed to clean %s: %v", path, err))
	r.mu.Unlock()
}

// Clean deletes every artifact of every project. One project's failure
// never stops the others, and within a project every artifact is
// attempted. Cancelling ctx stops new projects from starting; the returned
// error is then ctx.Err() and Result covers the projects that ran.
func (c *Cleaner) Clean(ctx context.Context, projects project.Collection) (Result, error) {
	r := &run{}
	err := workpool.ForEach(ctx, c.pool, len(projects), func(_ context.Context, i int) error {
		c.cleanProject(r, projects[i])
		return nil
	})

	processed := int(r.processed.Load())
	failed := int(r.failed.Load())
	res := Result{
		SuccessCount:  processed - failed,
		FailureCount:  failed,
		SkippedCount:  len(projects) - processed,
		TotalFreed:    r.freed.Load(),
		EstimatedSize: projects.TotalSize(),
		Errors:        r.errors,
		Preserved:     r.preserved,
	}
	if res.Errors == nil {
		res.Errors = []string{}
	}
	c.progress.Finish(fmt.Sprintf("Cleaned %d of %d projects", res.SuccessCount, len(projects)))
	return res, err
}

// cleanProject walks one project through preserve, measure and delete.
// It is the only writer of its project's outcome.
func (c *Cleaner) cleanProject(r *run, p project.Project) {
	defer func() {
		r.processed.Add(1)
		c.progress.Increment(1)
	}()
	c.progress.SetMessage("Cleaning " + p.Root)
	log := c.log.With().Str("project", p.Root).Stringer("kind", p.Kind).Logger()

	if c.preserver != nil {
		files, err := c.preserver.Preserve(p)
		if err != nil {
			log.Warn().Err(err).Msg("failed to preserve executables")
		}
		if len(files) > 0 {
			log.Info().Int("files", len(files)).Msg("preserved executables")
			r.mu.Lock()
			r.preserved = append(r.preserved, files...)
			r.mu.Unlock()
		}
	}

	ok := true
	for _, a := range p.Artifacts {
		if err := c.guard.Check(p.Root, a.Path); err != nil {
			r.fail(a.Path, err)
			ok = false
			continue
		}

		if _, err := os.Lstat(a.Path); err != nil {
			if os.IsNotExist(err) {
				log.Debug().Str("path", a.Path).Msg("artifact already gone")
				continue
			}
			r.fail(a.Path, err)
			ok = false
			continue
		}

		freed, err := c.remover.Remove(a.Path)
		if err != nil {
			r.fail(a.Path, err)
			ok = false
			continue
		}
		r.freed.Add(freed)
		log.Debug().Str("path", a.Path).Int64("freed", freed).Msg("removed")
	}

	if !ok {
		r.failed.Add(1)
	}
}
