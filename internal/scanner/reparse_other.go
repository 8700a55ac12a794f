//go:build !windows

package scanner

// Symlinked directories are reported as non-directories by os.ReadDir and
// are never followed, so no extra check is needed here.
func isReparsePoint(string) bool { return false }

func longPath(path string) string { return path }
