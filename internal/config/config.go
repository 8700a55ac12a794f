// Package config loads purgedev's file and environment configuration.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/viper"

	"github.com/lakshaymaurya-felt/purgedev/internal/core"
	"github.com/lakshaymaurya-felt/purgedev/internal/filter"
	"github.com/lakshaymaurya-felt/purgedev/internal/project"
)

// ErrConfig marks a malformed config file or an invalid option value.
var ErrConfig = errors.New("invalid configuration")

// File mirrors config.toml.
type File struct {
	ProjectType string    `mapstructure:"project_type"`
	Dir         []string  `mapstructure:"dir"`
	Filtering   Filtering `mapstructure:"filtering"`
	Scanning    Scanning  `mapstructure:"scanning"`
	Execution   Execution `mapstructure:"execution"`
}

// Filtering is the [filtering] table.
type Filtering struct {
	KeepSize string `mapstructure:"keep_size"`
	KeepDays int    `mapstructure:"keep_days"`
	Sort     string `mapstructure:"sort"`
	Reverse  bool   `mapstructure:"reverse"`
}

// Scanning is the [scanning] table.
type Scanning struct {
	Threads  int      `mapstructure:"threads"`
	Verbose  bool     `mapstructure:"verbose"`
	Skip     []string `mapstructure:"skip"`
	Ignore   []string `mapstructure:"ignore"`
	MaxDepth int      `mapstructure:"max_depth"`
}

// Execution is the [execution] table.
type Execution struct {
	KeepExecutables bool `mapstructure:"keep_executables"`
	Interactive     bool `mapstructure:"interactive"`
	DryRun          bool `mapstructure:"dry_run"`
	UseTrash        bool `mapstructure:"use_trash"`
}

// Defaults returns the built-in configuration.
func Defaults() File {
	return File{
		ProjectType: "all",
		Dir:         []string{"."},
		Filtering:   Filtering{KeepSize: "0"},
		Execution:   Execution{UseTrash: true},
	}
}

func setDefaults(v *viper.Viper) {
	d := Defaults()
	v.SetDefault("project_type", d.ProjectType)
	v.SetDefault("dir", d.Dir)
	v.SetDefault("filtering.keep_size", d.Filtering.KeepSize)
	v.SetDefault("filtering.keep_days", d.Filtering.KeepDays)
	v.SetDefault("filtering.sort", d.Filtering.Sort)
	v.SetDefault("filtering.reverse", d.Filtering.Reverse)
	v.SetDefault("scanning.threads", d.Scanning.Threads)
	v.SetDefault("scanning.verbose", d.Scanning.Verbose)
	v.SetDefault("scanning.skip", d.Scanning.Skip)
	v.SetDefault("scanning.ignore", d.Scanning.Ignore)
	v.SetDefault("scanning.max_depth", d.Scanning.MaxDepth)
	v.SetDefault("execution.keep_executables", d.Execution.KeepExecutables)
	v.SetDefault("execution.interactive", d.Execution.Interactive)
	v.SetDefault("execution.dry_run", d.Execution.DryRun)
	v.SetDefault("execution.use_trash", d.Execution.UseTrash)
}

// Load reads the config file at path, layered over the defaults and under
// PURGEDEV_* environment variables (PURGEDEV_SCANNING_THREADS, ...).
// A missing file is not an error; found reports whether one was read.
func Load(path string) (cfg File, found bool, err error) {
	v := viper.New()
	v.SetConfigType("toml")
	v.SetEnvPrefix("PURGEDEV")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			if !isNotExist(err) {
				return Defaults(), false, fmt.Errorf("%w: read %s: %v", ErrConfig, path, err)
			}
		} else {
			found = true
		}
	}

	if err := v.Unmarshal(&cfg); err != nil {
		return Defaults(), found, fmt.Errorf("%w: decode %s: %v", ErrConfig, path, err)
	}
	cfg.normalize()
	if err := cfg.Validate(); err != nil {
		return Defaults(), found, err
	}
	return cfg, found, nil
}

// normalize maps empty lists to their default so a decoded file compares
// equal to Defaults() field by field.
func (f *File) normalize() {
	if len(f.Dir) == 0 {
		f.Dir = Defaults().Dir
	}
	if len(f.Scanning.Skip) == 0 {
		f.Scanning.Skip = nil
	}
	if len(f.Scanning.Ignore) == 0 {
		f.Scanning.Ignore = nil
	}
}

func isNotExist(err error) bool {
	var notFound viper.ConfigFileNotFoundError
	return errors.As(err, &notFound) || errors.Is(err, os.ErrNotExist)
}

// Validate checks every value that has a fixed grammar.
func (f File) Validate() error {
	if _, err := core.ParseSize(f.Filtering.KeepSize); err != nil {
		return fmt.Errorf("%w: filtering.keep_size: %v", ErrConfig, err)
	}
	if f.Filtering.KeepDays < 0 {
		return fmt.Errorf("%w: filtering.keep_days must not be negative", ErrConfig)
	}
	if _, err := filter.ParseCriterion(f.Filtering.Sort); err != nil {
		return fmt.Errorf("%w: filtering.sort: %v", ErrConfig, err)
	}
	if f.Scanning.Threads < 0 {
		return fmt.Errorf("%w: scanning.threads must not be negative", ErrConfig)
	}
	if f.Scanning.MaxDepth < 0 {
		return fmt.Errorf("%w: scanning.max_depth must not be negative", ErrConfig)
	}
	if _, err := ParseProjectType(f.ProjectType); err != nil {
		return fmt.Errorf("%w: project_type: %v", ErrConfig, err)
	}
	return nil
}

// ParseProjectType resolves "all" (or "") to nil and any other value to a
// single kind.
func ParseProjectType(s string) ([]project.Kind, error) {
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, "all") {
		return nil, nil
	}
	k, err := project.ParseKind(s)
	if err != nil {
		return nil, err
	}
	return []project.Kind{k}, nil
}

// Entry is one effective setting as printed by `config show`.
type Entry struct {
	Key     string
	Value   string
	Default bool
}

func (f File) flatten() [][2]string {
	list := func(v []string) string { return "[" + strings.Join(v, ", ") + "]" }
	return [][2]string{
		{"project_type", f.ProjectType},
		{"dir", list(f.Dir)},
		{"filtering.keep_size", f.Filtering.KeepSize},
		{"filtering.keep_days", strconv.Itoa(f.Filtering.KeepDays)},
		{"filtering.sort", f.Filtering.Sort},
		{"filtering.reverse", strconv.FormatBool(f.Filtering.Reverse)},
		{"scanning.threads", strconv.Itoa(f.Scanning.Threads)},
		{"scanning.verbose", strconv.FormatBool(f.Scanning.Verbose)},
		{"scanning.skip", list(f.Scanning.Skip)},
		{"scanning.ignore", list(f.Scanning.Ignore)},
		{"scanning.max_depth", strconv.Itoa(f.Scanning.MaxDepth)},
		{"execution.keep_executables", strconv.FormatBool(f.Execution.KeepExecutables)},
		{"execution.interactive", strconv.FormatBool(f.Execution.Interactive)},
		{"execution.dry_run", strconv.FormatBool(f.Execution.DryRun)},
		{"execution.use_trash", strconv.FormatBool(f.Execution.UseTrash)},
	}
}

// Entries lists every setting in file order, marking those equal to the
// built-in default.
func (f File) Entries() []Entry {
	defaults := Defaults().flatten()
	values := f.flatten()
	out := make([]Entry, len(values))
	for i, kv := range values {
		out[i] = Entry{Key: kv[0], Value: kv[1], Default: kv[1] == defaults[i][1]}
	}
	return out
}
