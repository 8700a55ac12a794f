package scanner

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/lakshaymaurya-felt/purgedev/internal/project"
)

// listing is a directory's entries keyed by name; the value reports whether
// the entry is a real directory (symlinks are not).
type listing map[string]bool

func newListing(entries []os.DirEntry) listing {
	l := make(listing, len(entries))
	for _, e := range entries {
		l[e.Name()] = e.IsDir()
	}
	return l
}

func (l listing) file(name string) bool {
	isDir, ok := l[name]
	return ok && !isDir
}

func (l listing) dir(name string) bool {
	return l[name]
}

// anyFile reports whether at least one of names is present as a file.
func (l listing) anyFile(names ...string) bool {
	for _, n := range names {
		if l.file(n) {
			return true
		}
	}
	return false
}

// withSuffix returns the sorted names ending in suffix whose directory-ness
// matches wantDir.
func (l listing) withSuffix(suffix string, wantDir bool) []string {
	var out []string
	for name, isDir := range l {
		if isDir == wantDir && strings.HasSuffix(name, suffix) && len(name) > len(suffix) {
			out = append(out, name)
		}
	}
	sort.Strings(out)
	return out
}

// detector matches one ecosystem. It returns the artifact directory names
// present in dir (relative, in a fixed order) and a name resolver, or nil
// when dir is not a project of that kind.
type detector struct {
	kind   project.Kind
	detect func(s *Scanner, dir string, l listing) (artifacts []string, name func() string)
}

// detectors is evaluated in order and the first match wins. Narrow
// signatures precede broad ones sharing artifact names: Deno before Node
// (a deno.json project may carry node_modules), JVM and Dart before C/C++
// and Python (all may own build/).
var detectors = []detector{
	{project.KindRust, detectRust},
	{project.KindDeno, detectDeno},
	{project.KindNode, detectNode},
	{project.KindScala, detectScala},
	{project.KindJava, detectJava},
	{project.KindDart, detectDart},
	{project.KindSwift, detectSwift},
	{project.KindDotNet, detectDotNet},
	{project.KindPython, detectPython},
	{project.KindGo, detectGo},
	{project.KindPHP, detectPHP},
	{project.KindHaskell, detectHaskell},
	{project.KindZig, detectZig},
	{project.KindCpp, detectCpp},
	{project.KindRuby, detectRuby},
	{project.KindElixir, detectElixir},
}

// presentDirs filters names down to those that are directories in l.
func presentDirs(l listing, names ...string) []string {
	var out []string
	for _, n := range names {
		if l.dir(n) {
			out = append(out, n)
		}
	}
	return out
}

// ─── Detectors ───────────────────────────────────────────────────────────────

func detectRust(s *Scanner, dir string, l listing) ([]string, func() string) {
	if !l.file("Cargo.toml") || !l.dir("target") {
		return nil, nil
	}
	if s.workspaces.insideWorkspace(dir) {
		return nil, nil
	}
	return []string{"target"}, func() string {
		return tomlName(s.readManifest(filepath.Join(dir, "Cargo.toml")))
	}
}

func detectDeno(s *Scanner, dir string, l listing) ([]string, func() string) {
	manifest := ""
	for _, m := range []string{"deno.json", "deno.jsonc"} {
		if l.file(m) {
			manifest = m
			break
		}
	}
	if manifest == "" {
		return nil, nil
	}

	var arts []string
	switch {
	case l.dir("vendor"):
		arts = []string{"vendor"}
	case l.dir("node_modules") && !l.file("package.json"):
		arts = []string{"node_modules"}
	default:
		return nil, nil
	}
	return arts, func() string {
		return jsonName(s.readManifest(filepath.Join(dir, manifest)))
	}
}

func detectNode(s *Scanner, dir string, l listing) ([]string, func() string) {
	if !l.file("package.json") || !l.dir("node_modules") {
		return nil, nil
	}
	return []string{"node_modules"}, func() string {
		return jsonName(s.readManifest(filepath.Join(dir, "package.json")))
	}
}

func detectScala(s *Scanner, dir string, l listing) ([]string, func() string) {
	if !l.file("build.sbt") || !l.dir("target") {
		return nil, nil
	}
	return []string{"target"}, func() string {
		return sbtName(s.readManifest(filepath.Join(dir, "build.sbt")))
	}
}

func detectJava(s *Scanner, dir string, l listing) ([]string, func() string) {
	if l.file("pom.xml") && l.dir("target") {
		return []string{"target"}, func() string {
			return mavenName(s.readManifest(filepath.Join(dir, "pom.xml")))
		}
	}
	if l.anyFile("build.gradle", "build.gradle.kts") && l.dir("build") {
		return []string{"build"}, func() string {
			for _, settings := range []string{"settings.gradle", "settings.gradle.kts"} {
				if !l.file(settings) {
					continue
				}
				if name := gradleName(s.readManifest(filepath.Join(dir, settings))); name != "" {
					return name
				}
			}
			return ""
		}
	}
	return nil, nil
}

func detectDart(s *Scanner, dir string, l listing) ([]string, func() string) {
	if !l.file("pubspec.yaml") {
		return nil, nil
	}
	arts := presentDirs(l, ".dart_tool", "build")
	if len(arts) == 0 {
		return nil, nil
	}
	return arts, func() string {
		return yamlName(s.readManifest(filepath.Join(dir, "pubspec.yaml")))
	}
}

func detectSwift(s *Scanner, dir string, l listing) ([]string, func() string) {
	if !l.file("Package.swift") || !l.dir(".build") {
		return nil, nil
	}
	return []string{".build"}, func() string {
		return swiftName(s.readManifest(filepath.Join(dir, "Package.swift")))
	}
}

func detectDotNet(_ *Scanner, _ string, l listing) ([]string, func() string) {
	var projFile string
	for _, ext := range []string{".csproj", ".fsproj", ".vbproj"} {
		if found := l.withSuffix(ext, false); len(found) > 0 {
			projFile = found[0]
			break
		}
	}
	if projFile == "" {
		return nil, nil
	}
	arts := presentDirs(l, "bin", "obj")
	if len(arts) == 0 {
		return nil, nil
	}
	return arts, func() string {
		return strings.TrimSuffix(projFile, filepath.Ext(projFile))
	}
}

var (
	pythonManifests = []string{
		"requirements.txt", "setup.py", "pyproject.toml", "setup.cfg",
		"Pipfile", "pipenv.lock", "poetry.lock",
	}
	pythonArtifacts = []string{
		"__pycache__", ".pytest_cache", "venv", ".venv", "build", "dist",
		".eggs", ".tox", ".coverage",
	}
)

func detectPython(s *Scanner, dir string, l listing) ([]string, func() string) {
	if !l.anyFile(pythonManifests...) {
		return nil, nil
	}
	arts := presentDirs(l, pythonArtifacts...)
	arts = append(arts, l.withSuffix(".egg-info", true)...)
	if len(arts) == 0 {
		return nil, nil
	}
	return arts, func() string {
		if l.file("pyproject.toml") {
			if name := tomlName(s.readManifest(filepath.Join(dir, "pyproject.toml"))); name != "" {
				return name
			}
		}
		if l.file("setup.py") {
			if name := setupPyName(s.readManifest(filepath.Join(dir, "setup.py"))); name != "" {
				return name
			}
		}
		if l.file("setup.cfg") {
			return setupCfgName(s.readManifest(filepath.Join(dir, "setup.cfg")))
		}
		return ""
	}
}

func detectGo(s *Scanner, dir string, l listing) ([]string, func() string) {
	if !l.file("go.mod") || !l.dir("vendor") {
		return nil, nil
	}
	return []string{"vendor"}, func() string {
		return goModName(s.readManifest(filepath.Join(dir, "go.mod")))
	}
}

func detectPHP(s *Scanner, dir string, l listing) ([]string, func() string) {
	if !l.file("composer.json") || !l.dir("vendor") {
		return nil, nil
	}
	return []string{"vendor"}, func() string {
		return jsonName(s.readManifest(filepath.Join(dir, "composer.json")))
	}
}

func detectHaskell(s *Scanner, dir string, l listing) ([]string, func() string) {
	cabalFiles := l.withSuffix(".cabal", false)
	if !l.anyFile("stack.yaml", "cabal.project") && len(cabalFiles) == 0 {
		return nil, nil
	}
	arts := presentDirs(l, ".stack-work", "dist-newstyle")
	if len(arts) == 0 {
		return nil, nil
	}
	return arts, func() string {
		if len(cabalFiles) > 0 {
			if name := cabalName(s.readManifest(filepath.Join(dir, cabalFiles[0]))); name != "" {
				return name
			}
		}
		if l.file("package.yaml") {
			return yamlName(s.readManifest(filepath.Join(dir, "package.yaml")))
		}
		return ""
	}
}

func detectZig(s *Scanner, dir string, l listing) ([]string, func() string) {
	if !l.file("build.zig") {
		return nil, nil
	}
	arts := presentDirs(l, "zig-cache", ".zig-cache", "zig-out")
	if len(arts) == 0 {
		return nil, nil
	}
	return arts, func() string {
		if !l.file("build.zig.zon") {
			return ""
		}
		return zigName(s.readManifest(filepath.Join(dir, "build.zig.zon")))
	}
}

func detectCpp(s *Scanner, dir string, l listing) ([]string, func() string) {
	if !l.anyFile("CMakeLists.txt", "Makefile") || !l.dir("build") {
		return nil, nil
	}
	return []string{"build"}, func() string {
		if !l.file("CMakeLists.txt") {
			return ""
		}
		return cmakeName(s.readManifest(filepath.Join(dir, "CMakeLists.txt")))
	}
}

func detectRuby(s *Scanner, dir string, l listing) ([]string, func() string) {
	if !l.file("Gemfile") {
		return nil, nil
	}
	arts := presentDirs(l, ".bundle")
	if l.dir("vendor") {
		if info, err := os.Lstat(filepath.Join(dir, "vendor", "bundle")); err == nil && info.IsDir() {
			arts = append(arts, filepath.Join("vendor", "bundle"))
		}
	}
	if len(arts) == 0 {
		return nil, nil
	}
	return arts, func() string {
		for _, spec := range l.withSuffix(".gemspec", false) {
			if name := gemspecName(s.readManifest(filepath.Join(dir, spec))); name != "" {
				return name
			}
		}
		return ""
	}
}

func detectElixir(s *Scanner, dir string, l listing) ([]string, func() string) {
	if !l.file("mix.exs") || !l.dir("_build") {
		return nil, nil
	}
	return []string{"_build"}, func() string {
		return mixName(s.readManifest(filepath.Join(dir, "mix.exs")))
	}
}

// ─── Classification ──────────────────────────────────────────────────────────

// classify runs the enabled detectors over one directory listing and
// returns the first match.
func (s *Scanner) classify(dir string, l listing) (project.Project, bool) {
	for _, d := range detectors {
		if !s.enabled(d.kind) {
			continue
		}
		arts, nameFn := d.detect(s, dir, l)
		if arts == nil {
			continue
		}

		name := nameFn()
		if name == "" {
			name = filepath.Base(dir)
		}
		paths := make([]string, len(arts))
		for i, a := range arts {
			paths[i] = filepath.Join(dir, a)
		}
		return project.New(d.kind, dir, name, paths...), true
	}
	return project.Project{}, false
}

// Classify reads dir and returns the project it holds, if any. Prune rules
// do not apply: dir is classified even if the walker would skip it.
func (s *Scanner) Classify(dir string) (project.Project, bool) {
	dir = filepath.Clean(dir)
	entries, err := os.ReadDir(longPath(dir))
	if err != nil {
		s.errs.add(dir, err)
		return project.Project{}, false
	}
	return s.classify(dir, newListing(entries))
}

func (s *Scanner) enabled(k project.Kind) bool {
	return len(s.kinds) == 0 || s.kinds[k]
}

// readManifest reads a manifest for name extraction. Failures are recorded
// only in verbose mode and yield nil, which every extractor treats as
// "no name".
func (s *Scanner) readManifest(path string) []byte {
	data, err := os.ReadFile(path)
	if err != nil {
		if s.opts.Verbose {
			s.errs.add(path, err)
		}
		return nil
	}
	return data
}
