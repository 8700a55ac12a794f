package scanner

import (
	"path/filepath"
	"strings"
)

// excludedDirs are never walked: build outputs, VCS metadata, virtual
// environments and temp dirs. Artifact directories are detected from their
// parent, so descending into them would only waste time.
var excludedDirs = map[string]bool{
	"target":        true,
	"build":         true,
	"dist":          true,
	"out":           true,
	".git":          true,
	".svn":          true,
	".hg":           true,
	"__pycache__":   true,
	"venv":          true,
	".venv":         true,
	"env":           true,
	".env":          true,
	"temp":          true,
	"tmp":           true,
	"vendor":        true,
	".pytest_cache": true,
	".tox":          true,
	".eggs":         true,
	".coverage":     true,
	"node_modules":  true,
	"obj":           true,
	"_build":        true,
	".stack-work":   true,
	"dist-newstyle": true,
	".dart_tool":    true,
	"zig-cache":     true,
	".zig-cache":    true,
	"zig-out":       true,
}

// hiddenAllowed is the one dot-directory that is still walked.
const hiddenAllowed = ".cargo"

// pruneReason names the rule that rejected a directory, or "" when the
// directory is walked.
func (s *Scanner) pruneReason(root, dir string) string {
	name := filepath.Base(dir)

	if len(s.skip) > 0 {
		if rel, err := filepath.Rel(root, dir); err == nil {
			for _, comp := range strings.Split(rel, string(filepath.Separator)) {
				if s.skip[comp] {
					return "skip list"
				}
			}
		}
	}

	for _, ig := range s.ignore {
		if dir == ig || strings.HasPrefix(dir, ig+string(filepath.Separator)) {
			return "ignore list"
		}
	}

	if insideNodeModules(dir) {
		return "inside node_modules"
	}

	if strings.HasPrefix(name, ".") && name != hiddenAllowed {
		return "hidden"
	}

	if excludedDirs[name] {
		return "excluded"
	}
	return ""
}

// insideNodeModules reports whether any ancestor of dir is a node_modules
// directory.
func insideNodeModules(dir string) bool {
	parent := filepath.Dir(dir)
	for _, comp := range strings.Split(filepath.ToSlash(parent), "/") {
		if comp == "node_modules" {
			return true
		}
	}
	return false
}
