//go:build darwin

package core

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/sys/unix"
)

// moveToTrash renames path into ~/.Trash, picking a unique name when an
// entry with the same base name is already there.
func moveToTrash(path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	if _, err := os.Lstat(abs); err != nil {
		return err
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrTrashUnavailable, err)
	}
	trashDir := filepath.Join(home, ".Trash")
	if info, err := os.Stat(trashDir); err != nil || !info.IsDir() {
		return fmt.Errorf("%w: %s missing", ErrTrashUnavailable, trashDir)
	}

	name := uniqueTrashName(trashDir, "", filepath.Base(abs))
	if err := os.Rename(abs, filepath.Join(trashDir, name)); err != nil {
		if errors.Is(err, unix.EXDEV) {
			return fmt.Errorf("%w: %s is on a different volume than %s", ErrTrashUnavailable, abs, trashDir)
		}
		return err
	}
	return nil
}
