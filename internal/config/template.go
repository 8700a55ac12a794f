package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// Template is the commented config written by `config init`. Its values
// equal Defaults().
const Template = `# purgedev configuration
# Command-line flags override these values when given explicitly.

# Ecosystem to look for: all, rust, node, python, go, java, cpp, swift,
# dotnet, ruby, elixir, deno, php, haskell, dart, zig, scala
project_type = "all"

# Directories scanned when none are given on the command line.
dir = ["."]

[filtering]
# Hide projects whose artifacts are smaller than this (e.g. "100MB", "1.5GiB").
keep_size = "0"
# Hide projects whose build output changed in the last N days.
keep_days = 0
# Sort by size, age, name or type. Empty keeps scan order.
sort = ""
reverse = false

[scanning]
# Worker threads; 0 uses every CPU.
threads = 0
verbose = false
# Directory names never descended into.
skip = []
# Absolute directories never descended into.
ignore = []
# Maximum depth below each root; 0 is unlimited.
max_depth = 0

[execution]
# Copy compiled executables to <project>/bin before cleaning.
keep_executables = false
interactive = false
dry_run = false
# Move artifacts to the trash instead of deleting them.
use_trash = true
`

// ErrConfigExists is returned by Init when the file is already present.
var ErrConfigExists = errors.New("config file already exists")

// Init writes Template to path, creating its directory. An existing file
// is left alone.
func Init(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		if errors.Is(err, os.ErrExist) {
			return fmt.Errorf("%w: %s", ErrConfigExists, path)
		}
		return fmt.Errorf("create %s: %w", path, err)
	}
	if _, err := f.WriteString(Template); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	return f.Close()
}
