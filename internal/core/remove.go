package core

import (
	"fmt"
	"os"
)

// RemovalStrategy selects how an artifact directory is removed.
type RemovalStrategy int

const (
	// Permanent removes the tree irrecoverably.
	Permanent RemovalStrategy = iota
	// Trash moves the tree into the platform's recoverable trash.
	Trash
)

// StrategyFromUseTrash maps the boolean use-trash option onto a strategy.
func StrategyFromUseTrash(useTrash bool) RemovalStrategy {
	if useTrash {
		return Trash
	}
	return Permanent
}

func (s RemovalStrategy) String() string {
	if s == Trash {
		return "trash"
	}
	return "permanent"
}

// Remove deletes path with the given strategy. Permanent removal of a path
// that no longer exists succeeds; moving a missing path to the trash fails.
func Remove(path string, strategy RemovalStrategy) error {
	switch strategy {
	case Trash:
		if err := moveToTrash(path); err != nil {
			return &PathError{Op: "trash", Path: path, Err: err}
		}
		return nil
	case Permanent:
		if err := os.RemoveAll(path); err != nil {
			return &PathError{Op: "remove", Path: path, Err: err}
		}
		return nil
	default:
		return fmt.Errorf("unknown removal strategy %d", strategy)
	}
}

// SafeDelete measures path and then removes it, returning the number of
// bytes the removal reclaimed. The size is taken immediately before the
// delete, so it reflects the tree as it is now rather than at scan time.
func SafeDelete(path string, strategy RemovalStrategy) (int64, error) {
	size := DirSize(path)
	if err := Remove(path, strategy); err != nil {
		return 0, err
	}
	return size, nil
}
