package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/lakshaymaurya-felt/purgedev/internal/config"
	"github.com/lakshaymaurya-felt/purgedev/internal/core"
	"github.com/lakshaymaurya-felt/purgedev/internal/filter"
	"github.com/lakshaymaurya-felt/purgedev/internal/project"
	"github.com/lakshaymaurya-felt/purgedev/internal/report"
	"github.com/lakshaymaurya-felt/purgedev/internal/scanner"
)

var errJSONInteractive = errors.New("--json and --interactive cannot be used together")

// flagAliases keeps older flag spellings working.
var flagAliases = map[string]string{
	"min-size": "keep-size",
	"min-age":  "keep-days",
	"type":     "project-type",
}

func normalizeFlag(_ *pflag.FlagSet, name string) pflag.NormalizedName {
	if canonical, ok := flagAliases[name]; ok {
		name = canonical
	}
	return pflag.NormalizedName(name)
}

// addScanFlags registers the discovery, filter, sort and output flags
// shared by purge and scan.
func addScanFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.SetNormalizeFunc(normalizeFlag)

	f.StringP("project-type", "p", "", "Only look for one ecosystem (all, rust, node, python, go, java, ...)")
	f.StringP("keep-size", "s", "", "Ignore projects with less reclaimable space than this (e.g. 100MB)")
	f.IntP("keep-days", "d", 0, "Ignore projects built within the last N days")
	f.String("sort", "", "Sort by size, age, name or type")
	f.BoolP("reverse", "r", false, "Reverse the sort order")
	f.IntP("threads", "t", 0, "Worker threads (0 = all CPUs)")
	f.StringSlice("skip", nil, "Directory names to skip (repeatable)")
	f.StringSlice("ignore", nil, "Directories whose whole subtree is ignored (repeatable)")
	f.Int("max-depth", 0, "Maximum directory depth below each root (0 = unlimited)")
	f.Bool("json", false, "Print a JSON document instead of human output")
	f.String("format", "", "Output format: text, json or yaml")
	cmd.MarkFlagsMutuallyExclusive("json", "format")

	kinds := []string{"all"}
	for _, k := range project.AllKinds() {
		kinds = append(kinds, k.String())
	}
	_ = cmd.RegisterFlagCompletionFunc("project-type", cobra.FixedCompletions(kinds, cobra.ShellCompDirectiveNoFileComp))
	_ = cmd.RegisterFlagCompletionFunc("sort", cobra.FixedCompletions(
		[]string{"size", "age", "name", "type"}, cobra.ShellCompDirectiveNoFileComp))
	_ = cmd.RegisterFlagCompletionFunc("format", cobra.FixedCompletions(
		[]string{"text", "json", "yaml"}, cobra.ShellCompDirectiveNoFileComp))
}

// addExecutionFlags registers the flags that only matter when deleting.
func addExecutionFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.BoolP("dry-run", "n", false, "Show what would be deleted without deleting")
	f.BoolP("interactive", "i", false, "Choose projects to clean from a list")
	f.BoolP("keep-executables", "k", false, "Copy compiled executables to <project>/bin before cleaning")
	f.Bool("use-trash", false, "Move artifacts to the system trash")
	f.Bool("permanent", false, "Delete artifacts permanently instead of using the trash")
	f.BoolP("yes", "y", false, "Do not ask for confirmation")
	cmd.MarkFlagsMutuallyExclusive("use-trash", "permanent")
}

// runOptions is the fully resolved configuration of one run.
type runOptions struct {
	paths           []string
	threads         int
	verbose         bool
	scan            scanner.Options
	filter          filter.Options
	sort            filter.SortOptions
	format          report.Format
	dryRun          bool
	interactive     bool
	keepExecutables bool
	useTrash        bool
	yes             bool
}

// flagValue returns the flag's value when the user set it explicitly, and
// fallback otherwise. Flags not registered on fs also yield fallback.
func flagValue[T any](fs *pflag.FlagSet, name string, get func(string) (T, error), fallback T) T {
	if fl := fs.Lookup(name); fl == nil || !fl.Changed {
		return fallback
	}
	v, err := get(name)
	if err != nil {
		return fallback
	}
	return v
}

// resolveOptions layers explicitly set flags over the config file.
func resolveOptions(fs *pflag.FlagSet, args []string, cfg config.File) (runOptions, error) {
	var o runOptions

	o.paths = args
	if len(o.paths) == 0 {
		o.paths = cfg.Dir
	}

	kinds, err := config.ParseProjectType(flagValue(fs, "project-type", fs.GetString, cfg.ProjectType))
	if err != nil {
		return o, fmt.Errorf("invalid project type: %w", err)
	}

	keepSize := flagValue(fs, "keep-size", fs.GetString, cfg.Filtering.KeepSize)
	if keepSize == "" {
		keepSize = "0"
	}
	minSize, err := core.ParseSize(keepSize)
	if err != nil {
		return o, fmt.Errorf("invalid keep size %q: %w", keepSize, err)
	}

	keepDays := flagValue(fs, "keep-days", fs.GetInt, cfg.Filtering.KeepDays)
	if keepDays < 0 {
		return o, fmt.Errorf("%w: keep days must not be negative", config.ErrConfig)
	}
	o.filter = filter.Options{MinSize: minSize, MinAgeDays: keepDays}

	by, err := filter.ParseCriterion(flagValue(fs, "sort", fs.GetString, cfg.Filtering.Sort))
	if err != nil {
		return o, err
	}
	o.sort = filter.SortOptions{By: by, Reverse: flagValue(fs, "reverse", fs.GetBool, cfg.Filtering.Reverse)}

	o.threads = flagValue(fs, "threads", fs.GetInt, cfg.Scanning.Threads)
	o.verbose = flagValue(fs, "verbose", fs.GetBool, cfg.Scanning.Verbose)

	maxDepth := flagValue(fs, "max-depth", fs.GetInt, cfg.Scanning.MaxDepth)
	if maxDepth < 0 {
		return o, fmt.Errorf("%w: max depth must not be negative", config.ErrConfig)
	}
	o.scan = scanner.Options{
		Verbose:  o.verbose,
		Skip:     flagValue(fs, "skip", fs.GetStringSlice, cfg.Scanning.Skip),
		Ignore:   flagValue(fs, "ignore", fs.GetStringSlice, cfg.Scanning.Ignore),
		MaxDepth: maxDepth,
		Kinds:    kinds,
	}

	if flagValue(fs, "json", fs.GetBool, false) {
		o.format = report.FormatJSON
	} else if o.format, err = report.ParseFormat(flagValue(fs, "format", fs.GetString, "")); err != nil {
		return o, err
	}

	o.dryRun = flagValue(fs, "dry-run", fs.GetBool, cfg.Execution.DryRun)
	o.interactive = flagValue(fs, "interactive", fs.GetBool, cfg.Execution.Interactive)
	o.keepExecutables = flagValue(fs, "keep-executables", fs.GetBool, cfg.Execution.KeepExecutables)
	o.useTrash = cfg.Execution.UseTrash
	if flagValue(fs, "use-trash", fs.GetBool, false) {
		o.useTrash = true
	}
	if flagValue(fs, "permanent", fs.GetBool, false) {
		o.useTrash = false
	}
	o.yes = flagValue(fs, "yes", fs.GetBool, false)

	if o.format.Structured() && o.interactive {
		return o, errJSONInteractive
	}
	return o, nil
}
