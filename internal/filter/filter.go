// Package filter narrows and orders scan results.
package filter

import (
	"context"
	"time"

	"github.com/lakshaymaurya-felt/purgedev/internal/project"
	"github.com/lakshaymaurya-felt/purgedev/internal/workpool"
)

// Options are the post-scan retention thresholds.
type Options struct {
	// MinSize is the smallest total artifact size, in bytes, still listed.
	MinSize uint64
	// MinAgeDays keeps only projects whose primary artifact directory was
	// last modified at least this many days ago. Zero disables the check.
	MinAgeDays int
}

// Filter returns the projects meeting opts, preserving their order. The
// age check stats each project's artifact directory; a project whose
// modification time cannot be read is kept.
func Filter(ctx context.Context, pool *workpool.Pool, projects project.Collection, opts Options) (project.Collection, error) {
	return filterAt(ctx, pool, projects, opts, time.Now())
}

func filterAt(ctx context.Context, pool *workpool.Pool, projects project.Collection, opts Options, now time.Time) (project.Collection, error) {
	cutoff := now.AddDate(0, 0, -opts.MinAgeDays)
	keep := make([]bool, len(projects))

	err := workpool.ForEach(ctx, pool, len(projects), func(_ context.Context, i int) error {
		keep[i] = meetsSize(projects[i], opts.MinSize) && meetsAge(projects[i], opts.MinAgeDays, cutoff)
		return nil
	})
	if err != nil {
		return nil, err
	}

	out := make(project.Collection, 0, len(projects))
	for i, p := range projects {
		if keep[i] {
			out = append(out, p)
		}
	}
	return out, nil
}

func meetsSize(p project.Project, min uint64) bool {
	size := p.TotalSize()
	return size >= 0 && uint64(size) >= min
}

func meetsAge(p project.Project, days int, cutoff time.Time) bool {
	if days == 0 {
		return true
	}
	mtime, ok := p.ModTime()
	if !ok {
		return true
	}
	return !mtime.After(cutoff)
}
