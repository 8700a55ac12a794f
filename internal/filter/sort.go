package filter

import (
	"fmt"
	"slices"
	"sort"
	"strings"
	"time"

	"github.com/lakshaymaurya-felt/purgedev/internal/project"
)

// Criterion selects the sort key.
type Criterion string

const (
	SortNone Criterion = ""
	SortSize Criterion = "size"
	SortAge  Criterion = "age"
	SortName Criterion = "name"
	SortType Criterion = "type"
)

// ParseCriterion validates a criterion name. "" and "none" both mean no
// sorting.
func ParseCriterion(s string) (Criterion, error) {
	switch c := Criterion(strings.ToLower(strings.TrimSpace(s))); c {
	case SortNone, SortSize, SortAge, SortName, SortType:
		return c, nil
	case "none":
		return SortNone, nil
	default:
		return SortNone, fmt.Errorf("invalid sort criterion %q (want size, age, name or type)", s)
	}
}

// SortOptions selects the ordering of the result list.
type SortOptions struct {
	By      Criterion
	Reverse bool
}

// typeOrder ranks kinds alphabetically by identifier.
var typeOrder = map[project.Kind]int{
	project.KindCpp:     0,
	project.KindDart:    1,
	project.KindDeno:    2,
	project.KindDotNet:  3,
	project.KindElixir:  4,
	project.KindGo:      5,
	project.KindHaskell: 6,
	project.KindJava:    7,
	project.KindNode:    8,
	project.KindPHP:     9,
	project.KindPython:  10,
	project.KindRuby:    11,
	project.KindRust:    12,
	project.KindScala:   13,
	project.KindSwift:   14,
	project.KindZig:     15,
}

// Sort orders projects in place. All criteria are stable; Reverse flips
// the final order. SortNone is a no-op, Reverse included.
func Sort(projects project.Collection, opts SortOptions) {
	switch opts.By {
	case SortSize:
		sort.SliceStable(projects, func(i, j int) bool {
			return projects[i].TotalSize() > projects[j].TotalSize()
		})
	case SortAge:
		sortByAge(projects)
	case SortName:
		sort.SliceStable(projects, func(i, j int) bool {
			return strings.ToLower(projects[i].Name) < strings.ToLower(projects[j].Name)
		})
	case SortType:
		sort.SliceStable(projects, func(i, j int) bool {
			return typeOrder[projects[i].Kind] < typeOrder[projects[j].Kind]
		})
	default:
		return
	}
	if opts.Reverse {
		slices.Reverse(projects)
	}
}

// sortByAge orders oldest first. Each modification time is read once;
// unreadable times sort as the Unix epoch.
func sortByAge(projects project.Collection) {
	type decorated struct {
		p     project.Project
		mtime time.Time
	}
	items := make([]decorated, len(projects))
	for i, p := range projects {
		mtime, ok := p.ModTime()
		if !ok {
			mtime = time.Unix(0, 0)
		}
		items[i] = decorated{p, mtime}
	}
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].mtime.Before(items[j].mtime)
	})
	for i := range items {
		projects[i] = items[i].p
	}
}
