package scanner

import (
	"bufio"
	"bytes"
	"path"
	"strings"
	"unicode"

	"github.com/buger/jsonparser"
	"gopkg.in/yaml.v3"
)

// Name extraction is best-effort. Every function returns "" when the
// manifest has no recognizable name; the caller falls back to the
// directory basename.

func eachLine(data []byte, fn func(line string) bool) {
	sc := bufio.NewScanner(bytes.NewReader(data))
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		if fn(strings.TrimSpace(sc.Text())) {
			return
		}
	}
}

// quoted returns the text between the first and last double quote.
func quoted(line string) string {
	start := strings.IndexByte(line, '"')
	end := strings.LastIndexByte(line, '"')
	if start < 0 || start == end {
		return ""
	}
	return line[start+1 : end]
}

// firstQuoted returns the first double- or single-quoted string in line.
func firstQuoted(line string) string {
	for i := 0; i < len(line); i++ {
		q := line[i]
		if q != '"' && q != '\'' {
			continue
		}
		if end := strings.IndexByte(line[i+1:], q); end >= 0 {
			return line[i+1 : i+1+end]
		}
		return ""
	}
	return ""
}

// isAssignment reports whether line assigns to key, as in `key = ...`.
func isAssignment(line, key string) bool {
	rest, ok := strings.CutPrefix(line, key)
	if !ok {
		return false
	}
	rest = strings.TrimLeft(rest, " \t")
	return strings.HasPrefix(rest, "=")
}

// jsonName reads the top-level "name" field of package.json, deno.json or
// composer.json.
func jsonName(data []byte) string {
	name, err := jsonparser.GetString(data, "name")
	if err != nil {
		return ""
	}
	return strings.TrimSpace(name)
}

// yamlName reads the top-level name of pubspec.yaml or package.yaml.
func yamlName(data []byte) string {
	var doc struct {
		Name string `yaml:"name"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return ""
	}
	return strings.TrimSpace(doc.Name)
}

// tomlName returns the first `name = "..."` value in Cargo.toml or
// pyproject.toml.
func tomlName(data []byte) string {
	var name string
	eachLine(data, func(line string) bool {
		if isAssignment(line, "name") {
			name = quoted(line)
			return true
		}
		return false
	})
	return name
}

// setupPyName returns the quoted value of the first line that mentions
// name and an assignment, e.g. `name="pkg",` inside setup().
func setupPyName(data []byte) string {
	var name string
	eachLine(data, func(line string) bool {
		if strings.Contains(line, "name") && strings.Contains(line, "=") {
			name = firstQuoted(line[strings.Index(line, "name"):])
			return true
		}
		return false
	})
	return name
}

// setupCfgName reads name from the [metadata] section.
func setupCfgName(data []byte) string {
	var name string
	inMetadata := false
	eachLine(data, func(line string) bool {
		switch {
		case line == "[metadata]":
			inMetadata = true
		case strings.HasPrefix(line, "[") && strings.HasSuffix(line, "]"):
			inMetadata = false
		case inMetadata && isAssignment(line, "name"):
			_, v, _ := strings.Cut(line, "=")
			name = strings.TrimSpace(v)
			return true
		}
		return false
	})
	return name
}

// goModName returns the last element of the module path.
func goModName(data []byte) string {
	var name string
	eachLine(data, func(line string) bool {
		mod, ok := strings.CutPrefix(line, "module ")
		if !ok {
			return false
		}
		mod = strings.Trim(strings.TrimSpace(mod), `"`)
		name = path.Base(mod)
		return true
	})
	return name
}

// mavenName returns the project's own <artifactId>, skipping the one inside
// a <parent> block.
func mavenName(data []byte) string {
	var name string
	inParent := false
	eachLine(data, func(line string) bool {
		switch {
		case strings.HasPrefix(line, "<parent>"):
			inParent = !strings.Contains(line, "</parent>")
		case strings.HasPrefix(line, "</parent>"):
			inParent = false
		case !inParent && strings.HasPrefix(line, "<artifactId>"):
			v := strings.TrimPrefix(line, "<artifactId>")
			if end := strings.Index(v, "</artifactId>"); end >= 0 {
				name = strings.TrimSpace(v[:end])
				return true
			}
		}
		return false
	})
	return name
}

// gradleName reads rootProject.name from settings.gradle(.kts).
func gradleName(data []byte) string {
	var name string
	eachLine(data, func(line string) bool {
		if !isAssignment(line, "rootProject.name") {
			return false
		}
		if name = firstQuoted(line); name == "" {
			_, v, _ := strings.Cut(line, "=")
			name = strings.TrimSpace(v)
		}
		return true
	})
	return name
}

// sbtName reads `name := "..."` from build.sbt.
func sbtName(data []byte) string {
	var name string
	eachLine(data, func(line string) bool {
		i := strings.Index(line, "name")
		if i < 0 || !strings.HasPrefix(strings.TrimLeft(line[i+len("name"):], " \t"), ":=") {
			return false
		}
		name = firstQuoted(line[i:])
		return name != ""
	})
	return name
}

// swiftName reads the first `name: "..."` argument in Package.swift.
func swiftName(data []byte) string {
	var name string
	eachLine(data, func(line string) bool {
		i := strings.Index(line, "name:")
		if i < 0 {
			return false
		}
		name = firstQuoted(line[i:])
		return true
	})
	return name
}

// cmakeName reads the first token of project(...).
func cmakeName(data []byte) string {
	var name string
	eachLine(data, func(line string) bool {
		const prefix = "project("
		if len(line) < len(prefix) || !strings.EqualFold(line[:len(prefix)], prefix) {
			return false
		}
		inner := strings.TrimSuffix(line[len(prefix):], ")")
		fields := strings.Fields(inner)
		if len(fields) == 0 {
			return false
		}
		name = strings.Trim(fields[0], `"')`)
		return name != ""
	})
	return name
}

// cabalName reads the `name:` field of a .cabal file.
func cabalName(data []byte) string {
	var name string
	eachLine(data, func(line string) bool {
		// Field names are case-insensitive, values are not.
		const prefix = "name:"
		if len(line) < len(prefix) || !strings.EqualFold(line[:len(prefix)], prefix) {
			return false
		}
		name = strings.TrimSpace(line[len(prefix):])
		return name != ""
	})
	return name
}

// zigName reads .name from build.zig.zon. Both `.name = "pkg"` and the
// enum-literal form `.name = .pkg` are accepted.
func zigName(data []byte) string {
	var name string
	eachLine(data, func(line string) bool {
		if !isAssignment(line, ".name") {
			return false
		}
		_, v, _ := strings.Cut(line, "=")
		v = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(v), ","))
		name = strings.TrimPrefix(strings.Trim(v, `"`), ".")
		return name != ""
	})
	return name
}

// gemspecName reads `spec.name = "..."` (any receiver) from a .gemspec.
func gemspecName(data []byte) string {
	var name string
	eachLine(data, func(line string) bool {
		i := strings.Index(line, ".name")
		if i < 0 || !isAssignment(line[i:], ".name") {
			return false
		}
		name = firstQuoted(line[i:])
		return name != ""
	})
	return name
}

// mixName reads the `app: :name` atom from mix.exs.
func mixName(data []byte) string {
	var name string
	eachLine(data, func(line string) bool {
		i := strings.Index(line, "app:")
		if i < 0 {
			return false
		}
		rest := strings.TrimSpace(line[i+len("app:"):])
		atom, ok := strings.CutPrefix(rest, ":")
		if !ok {
			return false
		}
		end := strings.IndexFunc(atom, func(r rune) bool {
			return !(unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_')
		})
		if end >= 0 {
			atom = atom[:end]
		}
		name = atom
		return name != ""
	})
	return name
}
