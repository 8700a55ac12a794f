// Package preserve copies useful build outputs out of artifact directories
// before they are deleted.
package preserve

import (
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/lakshaymaurya-felt/purgedev/internal/project"
)

// File records one preserved output.
type File struct {
	Source      string `json:"source" yaml:"source"`
	Destination string `json:"destination" yaml:"destination"`
}

// Hooks is the default preservation policy: Rust executables and Python
// wheels and native extensions are kept; every other kind has nothing worth
// preserving.
type Hooks struct{}

// Preserve copies the project's outputs into <root>/bin and returns what
// was copied.
func (Hooks) Preserve(p project.Project) ([]File, error) {
	switch p.Kind {
	case project.KindRust:
		return preserveRust(p)
	case project.KindPython:
		return preservePython(p)
	default:
		return nil, nil
	}
}

// rustSkipExt lists library and metadata outputs that are never runnable.
var rustSkipExt = map[string]bool{
	".d": true, ".rmeta": true, ".rlib": true, ".a": true,
	".so": true, ".dylib": true, ".dll": true, ".pdb": true,
}

func preserveRust(p project.Project) ([]File, error) {
	if len(p.Artifacts) == 0 {
		return nil, nil
	}
	target := p.Artifacts[0].Path

	var out []File
	for _, profile := range []string{"release", "debug"} {
		profileDir := filepath.Join(target, profile)
		entries, err := os.ReadDir(profileDir)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return out, fmt.Errorf("read %s: %w", profileDir, err)
		}

		dest := filepath.Join(p.Root, "bin", profile)
		for _, e := range entries {
			if !e.Type().IsRegular() || rustSkipExt[strings.ToLower(filepath.Ext(e.Name()))] {
				continue
			}
			src := filepath.Join(profileDir, e.Name())
			if !isExecutable(src) {
				continue
			}
			f, err := copyInto(src, dest)
			if err != nil {
				return out, err
			}
			out = append(out, f)
		}
	}
	return out, nil
}

func preservePython(p project.Project) ([]File, error) {
	bin := filepath.Join(p.Root, "bin")
	var out []File

	dist := filepath.Join(p.Root, "dist")
	if entries, err := os.ReadDir(dist); err == nil {
		for _, e := range entries {
			if !e.Type().IsRegular() || filepath.Ext(e.Name()) != ".whl" {
				continue
			}
			f, err := copyInto(filepath.Join(dist, e.Name()), bin)
			if err != nil {
				return out, err
			}
			out = append(out, f)
		}
	}

	build := filepath.Join(p.Root, "build")
	err := filepath.WalkDir(build, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			// Unreadable subtrees are skipped; a missing build/ is fine.
			if d != nil && d.IsDir() && path != build {
				return fs.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}
		if ext := filepath.Ext(path); ext != ".so" && ext != ".pyd" {
			return nil
		}
		f, err := copyInto(path, bin)
		if err != nil {
			return err
		}
		out = append(out, f)
		return nil
	})
	return out, err
}

// copyInto copies src into dir under the same base name, creating dir and
// keeping the source's permission bits.
func copyInto(src, dir string) (File, error) {
	dst := filepath.Join(dir, filepath.Base(src))
	f := File{Source: src, Destination: dst}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return f, fmt.Errorf("create %s: %w", dir, err)
	}

	in, err := os.Open(src)
	if err != nil {
		return f, fmt.Errorf("open %s: %w", src, err)
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return f, fmt.Errorf("stat %s: %w", src, err)
	}

	outFile, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, info.Mode().Perm())
	if err != nil {
		return f, fmt.Errorf("create %s: %w", dst, err)
	}
	if _, err := io.Copy(outFile, in); err != nil {
		outFile.Close()
		return f, fmt.Errorf("copy %s to %s: %w", src, dst, err)
	}
	if err := outFile.Close(); err != nil {
		return f, fmt.Errorf("close %s: %w", dst, err)
	}
	return f, nil
}
