// Package report renders scan and cleanup outcomes, either as styled text
// for a terminal or as JSON / YAML documents for scripts.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/lakshaymaurya-felt/purgedev/internal/clean"
	"github.com/lakshaymaurya-felt/purgedev/internal/core"
	"github.com/lakshaymaurya-felt/purgedev/internal/project"
	"github.com/lakshaymaurya-felt/purgedev/internal/scanner"
)

// Mode names the kind of run a document describes.
type Mode string

const (
	ModeDryRun  Mode = "dry_run"
	ModeCleanup Mode = "cleanup"
)

// Format selects how a Document is written.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ParseFormat validates an output format name. Empty means text.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case "":
		return FormatText, nil
	case FormatText, FormatJSON, FormatYAML:
		return f, nil
	default:
		return "", fmt.Errorf("unknown output format %q (want text, json or yaml)", s)
	}
}

// Structured reports whether the format is machine-readable.
func (f Format) Structured() bool {
	return f == FormatJSON || f == FormatYAML
}

// ─── Document model ──────────────────────────────────────────────────────────

// Document is the complete machine-readable outcome of one run. ScanErrors
// lists paths the scan could not read; callers fill it for verbose runs.
type Document struct {
	Mode       Mode                `json:"mode" yaml:"mode"`
	Projects   []Entry             `json:"projects" yaml:"projects"`
	Summary    Summary             `json:"summary" yaml:"summary"`
	Result     *ResultEntry        `json:"result,omitempty" yaml:"result,omitempty"`
	ScanErrors []scanner.ScanError `json:"scan_errors,omitempty" yaml:"scan_errors,omitempty"`
}

// Entry is one project in a Document.
type Entry struct {
	Name               string          `json:"name" yaml:"name"`
	Type               project.Kind    `json:"type" yaml:"type"`
	RootPath           string          `json:"root_path" yaml:"root_path"`
	Artifacts          []ArtifactEntry `json:"build_artifacts" yaml:"build_artifacts"`
	TotalSize          int64           `json:"total_size" yaml:"total_size"`
	TotalSizeFormatted string          `json:"total_size_formatted" yaml:"total_size_formatted"`
}

// ArtifactEntry is one artifact directory of an Entry.
type ArtifactEntry struct {
	Path          string `json:"path" yaml:"path"`
	Size          int64  `json:"size" yaml:"size"`
	SizeFormatted string `json:"size_formatted" yaml:"size_formatted"`
}

// Summary aggregates a collection. ByType is keyed by kind name; both
// encoders emit map keys in sorted order.
type Summary struct {
	TotalProjects      int                    `json:"total_projects" yaml:"total_projects"`
	TotalSize          int64                  `json:"total_size" yaml:"total_size"`
	TotalSizeFormatted string                 `json:"total_size_formatted" yaml:"total_size_formatted"`
	ByType             map[string]TypeSummary `json:"by_type" yaml:"by_type"`
}

// TypeSummary is the count and size of one kind.
type TypeSummary struct {
	Count         int    `json:"count" yaml:"count"`
	Size          int64  `json:"size" yaml:"size"`
	SizeFormatted string `json:"size_formatted" yaml:"size_formatted"`
}

// ResultEntry is the cleanup outcome of a Document.
type ResultEntry struct {
	SuccessCount        int              `json:"success_count" yaml:"success_count"`
	FailureCount        int              `json:"failure_count" yaml:"failure_count"`
	SkippedCount        int              `json:"skipped_count,omitempty" yaml:"skipped_count,omitempty"`
	TotalFreed          int64            `json:"total_freed" yaml:"total_freed"`
	TotalFreedFormatted string           `json:"total_freed_formatted" yaml:"total_freed_formatted"`
	EstimatedSize       int64            `json:"estimated_size" yaml:"estimated_size"`
	Errors              []string         `json:"errors" yaml:"errors"`
	Preserved           []PreservedEntry `json:"preserved,omitempty" yaml:"preserved,omitempty"`
}

// PreservedEntry is one file copied out before deletion.
type PreservedEntry struct {
	Source      string `json:"source" yaml:"source"`
	Destination string `json:"destination" yaml:"destination"`
}

// ─── Builders ────────────────────────────────────────────────────────────────

// DryRun builds the document for a run that deleted nothing.
func DryRun(projects project.Collection) Document {
	return Document{
		Mode:     ModeDryRun,
		Projects: entries(projects),
		Summary:  Summarize(projects),
	}
}

// Cleanup builds the document for a finished (or cancelled) cleanup.
func Cleanup(projects project.Collection, res clean.Result) Document {
	errs := res.Errors
	if errs == nil {
		errs = []string{}
	}
	r := &ResultEntry{
		SuccessCount:        res.SuccessCount,
		FailureCount:        res.FailureCount,
		SkippedCount:        res.SkippedCount,
		TotalFreed:          res.TotalFreed,
		TotalFreedFormatted: core.FormatSize(res.TotalFreed),
		EstimatedSize:       res.EstimatedSize,
		Errors:              errs,
	}
	for _, f := range res.Preserved {
		r.Preserved = append(r.Preserved, PreservedEntry{Source: f.Source, Destination: f.Destination})
	}
	return Document{
		Mode:     ModeCleanup,
		Projects: entries(projects),
		Summary:  Summarize(projects),
		Result:   r,
	}
}

// Summarize computes totals and the per-kind breakdown.
func Summarize(projects project.Collection) Summary {
	total := projects.TotalSize()
	s := Summary{
		TotalProjects:      len(projects),
		TotalSize:          total,
		TotalSizeFormatted: core.FormatSize(total),
		ByType:             make(map[string]TypeSummary),
	}
	for _, st := range projects.Breakdown() {
		s.ByType[st.Kind.String()] = TypeSummary{
			Count:         st.Count,
			Size:          st.Size,
			SizeFormatted: core.FormatSize(st.Size),
		}
	}
	return s
}

func entries(projects project.Collection) []Entry {
	out := make([]Entry, 0, len(projects))
	for _, p := range projects {
		e := Entry{
			Name:               p.DisplayName(),
			Type:               p.Kind,
			RootPath:           p.Root,
			TotalSize:          p.TotalSize(),
			TotalSizeFormatted: core.FormatSize(p.TotalSize()),
		}
		for _, a := range p.Artifacts {
			e.Artifacts = append(e.Artifacts, ArtifactEntry{
				Path:          a.Path,
				Size:          a.Size,
				SizeFormatted: core.FormatSize(a.Size),
			})
		}
		out = append(out, e)
	}
	return out
}

// ─── Encoding ────────────────────────────────────────────────────────────────

// Write encodes doc to w in the given structured format.
func Write(w io.Writer, f Format, doc Document) error {
	switch f {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(doc); err != nil {
			return fmt.Errorf("encode json report: %w", err)
		}
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(doc); err != nil {
			return fmt.Errorf("encode yaml report: %w", err)
		}
		if err := enc.Close(); err != nil {
			return fmt.Errorf("encode yaml report: %w", err)
		}
	default:
		return fmt.Errorf("format %q is not a structured format", f)
	}
	return nil
}
