package clean

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

// ErrProtectedPath is returned for an artifact the cleaner must not touch.
var ErrProtectedPath = errors.New("refusing to delete protected path")

// Guard rejects deletions of filesystem roots, the home directory, system
// paths and anything outside the owning project.
type Guard struct {
	home  string
	never []string
}

// NewGuard builds a guard protecting never plus the current user's home.
func NewGuard(never []string) *Guard {
	g := &Guard{}
	if home, err := os.UserHomeDir(); err == nil {
		g.home = normalize(home)
	}
	for _, p := range never {
		if p != "" {
			g.never = append(g.never, normalize(p))
		}
	}
	return g
}

// Check returns nil when artifact may be deleted as part of the project
// rooted at root.
func (g *Guard) Check(root, artifact string) error {
	a := normalize(artifact)
	r := normalize(root)

	if filepath.Dir(a) == a {
		return protectedErr("filesystem root")
	}
	if g.home != "" && (a == g.home || within(g.home, a)) {
		return protectedErr("home directory")
	}
	for _, p := range g.never {
		if a == p || within(p, a) {
			return protectedErr("system path " + p)
		}
	}
	if !within(a, r) {
		return protectedErr("not inside project root " + root)
	}
	return nil
}

func protectedErr(why string) error {
	return &guardError{why: why}
}

type guardError struct{ why string }

func (e *guardError) Error() string { return ErrProtectedPath.Error() + ": " + e.why }
func (e *guardError) Unwrap() error { return ErrProtectedPath }

// within reports whether path lies strictly below dir.
func within(path, dir string) bool {
	rel, err := filepath.Rel(dir, path)
	if err != nil || rel == "." {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

func normalize(p string) string {
	if abs, err := filepath.Abs(p); err == nil {
		p = abs
	}
	p = filepath.Clean(p)
	if runtime.GOOS == "windows" {
		p = strings.ToLower(p)
	}
	return p
}
