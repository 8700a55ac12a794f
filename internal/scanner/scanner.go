package scanner

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog"

	"github.com/lakshaymaurya-felt/purgedev/internal/core"
	"github.com/lakshaymaurya-felt/purgedev/internal/project"
	"github.com/lakshaymaurya-felt/purgedev/internal/workpool"
)

var (
	errNotDir       = errors.New("not a directory")
	errReparsePoint = errors.New("skipping junction or reparse point")
)

// Scanner performs parallel project discovery. A Scanner is single-use per
// run: its error log and found counter accumulate across calls.
type Scanner struct {
	opts       Options
	pool       *workpool.Pool
	log        zerolog.Logger
	progress   Progress
	kinds      map[project.Kind]bool
	skip       map[string]bool
	ignore     []string
	workspaces *workspaceIndex
	errs       errorLog
	found      atomic.Int64
}

// Option configures optional Scanner collaborators.
type Option func(*Scanner)

// WithLogger sets the logger used for scan diagnostics.
func WithLogger(l zerolog.Logger) Option {
	return func(s *Scanner) { s.log = l }
}

// WithProgress sets the sink that receives the running project count.
func WithProgress(p Progress) Option {
	return func(s *Scanner) {
		if p != nil {
			s.progress = p
		}
	}
}

// New creates a scanner whose directory reads are bounded by pool.
func New(pool *workpool.Pool, opts Options, options ...Option) *Scanner {
	s := &Scanner{
		opts:       opts,
		pool:       pool,
		log:        zerolog.Nop(),
		progress:   nopProgress{},
		kinds:      make(map[project.Kind]bool, len(opts.Kinds)),
		skip:       make(map[string]bool, len(opts.Skip)),
		workspaces: newWorkspaceIndex(),
	}
	for _, k := range opts.Kinds {
		s.kinds[k] = true
	}
	for _, name := range opts.Skip {
		s.skip[name] = true
	}
	for _, dir := range opts.Ignore {
		if abs, err := filepath.Abs(dir); err == nil {
			s.ignore = append(s.ignore, abs)
		}
	}
	for _, opt := range options {
		opt(s)
	}
	return s
}

// Errors returns the recovered per-path failures and how many more were
// dropped once the log was full.
func (s *Scanner) Errors() ([]ScanError, int) {
	return s.errs.snapshot()
}

// Found returns the number of projects discovered so far.
func (s *Scanner) Found() int64 {
	return s.found.Load()
}

// ScanAll scans each root in order and concatenates the results. Duplicate
// roots are scanned once. Scanning never fails: unreadable paths end up in
// Errors and a cancelled context returns what was found before it.
func (s *Scanner) ScanAll(ctx context.Context, roots []string) project.Collection {
	seen := make(map[string]bool, len(roots))
	var all project.Collection
	for _, root := range roots {
		abs, err := filepath.Abs(root)
		if err != nil {
			s.errs.add(root, err)
			continue
		}
		if seen[abs] {
			continue
		}
		seen[abs] = true
		all = append(all, s.Scan(ctx, abs)...)
	}
	s.progress.Finish(fmt.Sprintf("Found %d projects", len(all)))
	s.logErrors()
	return all
}

// Scan discovers and measures the projects under root. Projects come back
// ordered by root path; projects whose artifacts total zero bytes are
// dropped.
func (s *Scanner) Scan(ctx context.Context, root string) project.Collection {
	root = filepath.Clean(root)
	s.progress.SetMessage("Scanning " + root)

	found := s.discover(ctx, root)
	if len(found) == 0 {
		return nil
	}

	s.progress.SetMessage(fmt.Sprintf("Measuring %d projects", len(found)))
	return s.measure(ctx, found)
}

// ─── Discovery ───────────────────────────────────────────────────────────────

func (s *Scanner) discover(ctx context.Context, root string) project.Collection {
	info, err := os.Stat(longPath(root))
	if err != nil {
		s.errs.add(root, err)
		return nil
	}
	if !info.IsDir() {
		s.errs.add(root, errNotDir)
		return nil
	}
	for _, ig := range s.ignore {
		if root == ig {
			return nil
		}
	}

	var mu sync.Mutex
	var found project.Collection
	emit := func(p project.Project) {
		mu.Lock()
		found = append(found, p)
		mu.Unlock()
		s.found.Add(1)
		s.progress.Increment(1)
	}

	s.walkDir(ctx, root, root, 0, emit)

	sort.Slice(found, func(i, j int) bool { return found[i].Root < found[j].Root })
	return found
}

// walkDir classifies dir and recurses into its surviving subdirectories,
// one goroutine each. The pool slot is held only while reading and
// classifying dir, never while waiting on children, so nested walks cannot
// deadlock.
func (s *Scanner) walkDir(ctx context.Context, root, dir string, depth int, emit func(project.Project)) {
	if ctx.Err() != nil {
		return
	}

	var entries []os.DirEntry
	var p project.Project
	var matched bool
	err := s.pool.Run(ctx, func() error {
		var err error
		entries, err = os.ReadDir(longPath(dir))
		if err != nil && len(entries) == 0 {
			return err
		}
		if err != nil {
			s.errs.add(dir, err)
		}
		p, matched = s.classify(dir, newListing(entries))
		return nil
	})
	if err != nil {
		if ctx.Err() == nil {
			s.errs.add(dir, err)
		}
		return
	}
	if matched {
		emit(p)
	}

	if s.opts.MaxDepth > 0 && depth >= s.opts.MaxDepth {
		return
	}

	var wg sync.WaitGroup
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		child := filepath.Join(dir, e.Name())
		if reason := s.pruneReason(root, child); reason != "" {
			s.log.Trace().Str("path", child).Str("reason", reason).Msg("pruned")
			continue
		}
		if isReparsePoint(child) {
			s.errs.add(child, errReparsePoint)
			continue
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.walkDir(ctx, root, child, depth+1, emit)
		}()
	}
	wg.Wait()
}

// ─── Sizing ──────────────────────────────────────────────────────────────────

// measure fills in every unknown artifact size, then drops projects that
// total zero bytes or could not be fully measured. It is the only writer of
// BuildArtifact.Size.
func (s *Scanner) measure(ctx context.Context, found project.Collection) project.Collection {
	err := workpool.ForEach(ctx, s.pool, len(found), func(_ context.Context, i int) error {
		arts := found[i].Artifacts
		for j := range arts {
			if !arts[j].Sized() {
				arts[j].Size = core.DirSize(arts[j].Path)
			}
		}
		return nil
	})
	if err != nil {
		s.log.Debug().Err(err).Msg("sizing interrupted")
	}

	kept := make(project.Collection, 0, len(found))
	for _, p := range found {
		if fullySized(p) && p.TotalSize() > 0 {
			kept = append(kept, p)
		}
	}
	return kept
}

func fullySized(p project.Project) bool {
	for _, a := range p.Artifacts {
		if !a.Sized() {
			return false
		}
	}
	return true
}

func (s *Scanner) logErrors() {
	if !s.opts.Verbose {
		return
	}
	errs, dropped := s.errs.snapshot()
	for _, e := range errs {
		s.log.Warn().Str("path", e.Path).Str("error", e.Err).Msg("scan error")
	}
	if dropped > 0 {
		s.log.Warn().Int("dropped", dropped).Msg("further scan errors not recorded")
	}
}
