package scanner

import (
	"bufio"
	"bytes"
	"os"
	"path/filepath"

	lru "github.com/hashicorp/golang-lru/v2"
)

const workspaceCacheSize = 4096

// workspaceIndex answers "does this Cargo.toml declare a [workspace]" and
// memoizes the answer for the duration of a scan. Sibling crates share
// ancestors, so the same manifests are asked about repeatedly.
type workspaceIndex struct {
	cache *lru.Cache[string, bool]
}

func newWorkspaceIndex() *workspaceIndex {
	cache, err := lru.New[string, bool](workspaceCacheSize)
	if err != nil {
		// Only returned for a non-positive size.
		panic(err)
	}
	return &workspaceIndex{cache: cache}
}

// declaresWorkspace reports whether the manifest at path has a
// [workspace] table. Unreadable manifests do not.
func (w *workspaceIndex) declaresWorkspace(path string) bool {
	if v, ok := w.cache.Get(path); ok {
		return v
	}
	v := false
	if data, err := os.ReadFile(path); err == nil {
		v = hasWorkspaceTable(data)
	}
	w.cache.Add(path, v)
	return v
}

func hasWorkspaceTable(data []byte) bool {
	sc := bufio.NewScanner(bytes.NewReader(data))
	for sc.Scan() {
		if string(bytes.TrimSpace(sc.Bytes())) == "[workspace]" {
			return true
		}
	}
	return false
}

// insideWorkspace reports whether a strict ancestor of dir holds a
// Cargo.toml declaring a workspace. The workspace root owns the single
// shared target directory, so members must not be reported on their own.
func (w *workspaceIndex) insideWorkspace(dir string) bool {
	for cur := filepath.Dir(dir); ; {
		if w.declaresWorkspace(filepath.Join(cur, "Cargo.toml")) {
			return true
		}
		next := filepath.Dir(cur)
		if next == cur {
			return false
		}
		cur = next
	}
}
