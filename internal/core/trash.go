package core

import (
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// uniqueTrashName returns a name for base that collides with nothing in
// filesDir (nor, when infoDir is set, with an existing .trashinfo record).
func uniqueTrashName(filesDir, infoDir, base string) string {
	name := base
	for attempt := 0; attempt < 8; attempt++ {
		if !trashEntryExists(filesDir, infoDir, name) {
			return name
		}
		name = base + "." + uuid.NewString()[:8]
	}
	return base + "." + uuid.NewString()
}

func trashEntryExists(filesDir, infoDir, name string) bool {
	if _, err := os.Lstat(filepath.Join(filesDir, name)); err == nil {
		return true
	}
	if infoDir == "" {
		return false
	}
	_, err := os.Lstat(filepath.Join(infoDir, name+".trashinfo"))
	return err == nil
}
