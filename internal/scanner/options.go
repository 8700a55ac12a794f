// Package scanner finds development projects with regenerable build
// artifacts below one or more root directories.
package scanner

import (
	"github.com/lakshaymaurya-felt/purgedev/internal/project"
)

// Options controls discovery.
type Options struct {
	// Verbose records manifest read errors in the error log and logs every
	// recorded error once the scan ends.
	Verbose bool
	// Skip lists directory names; a directory is not walked when any path
	// component below the scan root matches one of them. Components of the
	// root itself are not checked, so a root inside a skipped name is still
	// scanned.
	Skip []string
	// Ignore lists absolute directories whose subtree is not walked.
	Ignore []string
	// MaxDepth limits how far below the root directories are classified.
	// Zero means unlimited.
	MaxDepth int
	// Kinds restricts detection to these ecosystems. Empty means all.
	Kinds []project.Kind
}

// Progress receives discovery progress. Implementations must be safe for
// concurrent use.
type Progress interface {
	Increment(n int)
	SetMessage(msg string)
	Finish(msg string)
}

type nopProgress struct{}

func (nopProgress) Increment(int)     {}
func (nopProgress) SetMessage(string) {}
func (nopProgress) Finish(string)     {}
