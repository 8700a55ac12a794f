package core

import (
	"io/fs"
	"path/filepath"
)

// DirSize returns the total size of all regular files below path.
// It never fails: entries that cannot be read or stat'ed (permissions,
// dangling links, files removed mid-walk) are skipped, and a missing path
// yields 0. Symlinks are not followed.
func DirSize(path string) int64 {
	var total int64

	_ = filepath.WalkDir(path, func(_ string, d fs.DirEntry, err error) error {
		if err != nil {
			// Unreadable directory or vanished entry: skip it.
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return nil
		}
		total += info.Size()
		return nil
	})

	return total
}
