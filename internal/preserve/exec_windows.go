//go:build windows

package preserve

import (
	"path/filepath"
	"strings"
)

func isExecutable(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".exe")
}
