package project

import (
	"fmt"
	"strings"
)

// Kind identifies the ecosystem a project belongs to.
type Kind int

const (
	KindRust Kind = iota
	KindNode
	KindPython
	KindGo
	KindJava
	KindCpp
	KindSwift
	KindDotNet
	KindRuby
	KindElixir
	KindDeno
	KindPHP
	KindHaskell
	KindDart
	KindZig
	KindScala
)

// kindInfo is the static per-ecosystem metadata.
type kindInfo struct {
	name  string // stable identifier used in config, flags and JSON
	label string // human-readable label
	icon  string
}

var kinds = [...]kindInfo{
	KindRust:    {"rust", "Rust", "🦀"},
	KindNode:    {"node", "Node.js", "📦"},
	KindPython:  {"python", "Python", "🐍"},
	KindGo:      {"go", "Go", "🐹"},
	KindJava:    {"java", "Java/Kotlin", "☕"},
	KindCpp:     {"cpp", "C/C++", "⚙️"},
	KindSwift:   {"swift", "Swift", "🐦"},
	KindDotNet:  {"dotnet", ".NET/C#", "🔷"},
	KindRuby:    {"ruby", "Ruby", "💎"},
	KindElixir:  {"elixir", "Elixir", "💧"},
	KindDeno:    {"deno", "Deno", "🦕"},
	KindPHP:     {"php", "PHP", "🐘"},
	KindHaskell: {"haskell", "Haskell", "λ"},
	KindDart:    {"dart", "Dart/Flutter", "🎯"},
	KindZig:     {"zig", "Zig", "⚡"},
	KindScala:   {"scala", "Scala", "🔴"},
}

// AllKinds lists every supported ecosystem in declaration order.
func AllKinds() []Kind {
	out := make([]Kind, len(kinds))
	for i := range kinds {
		out[i] = Kind(i)
	}
	return out
}

func (k Kind) valid() bool {
	return k >= 0 && int(k) < len(kinds)
}

// String returns the stable identifier ("rust", "dotnet", ...).
func (k Kind) String() string {
	if !k.valid() {
		return fmt.Sprintf("Kind(%d)", int(k))
	}
	return kinds[k].name
}

// Label returns the human-readable ecosystem name.
func (k Kind) Label() string {
	if !k.valid() {
		return k.String()
	}
	return kinds[k].label
}

// Icon returns the emoji shown next to projects of this kind.
func (k Kind) Icon() string {
	if !k.valid() {
		return "?"
	}
	return kinds[k].icon
}

// ParseKind resolves a kind identifier, case-insensitively.
func ParseKind(s string) (Kind, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for i, info := range kinds {
		if info.name == s {
			return Kind(i), nil
		}
	}
	return 0, fmt.Errorf("unknown project type %q", s)
}

// MarshalText encodes the kind as its identifier in JSON and YAML documents.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText is the inverse of MarshalText.
func (k *Kind) UnmarshalText(text []byte) error {
	parsed, err := ParseKind(string(text))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}
