package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/lakshaymaurya-felt/purgedev/internal/clean"
	"github.com/lakshaymaurya-felt/purgedev/internal/config"
	"github.com/lakshaymaurya-felt/purgedev/internal/core"
	"github.com/lakshaymaurya-felt/purgedev/internal/filter"
	"github.com/lakshaymaurya-felt/purgedev/internal/preserve"
	"github.com/lakshaymaurya-felt/purgedev/internal/project"
	"github.com/lakshaymaurya-felt/purgedev/internal/report"
	"github.com/lakshaymaurya-felt/purgedev/internal/scanner"
	"github.com/lakshaymaurya-felt/purgedev/internal/ui"
	"github.com/lakshaymaurya-felt/purgedev/internal/workpool"
)

var errNeedsConfirmation = errors.New("refusing to delete without confirmation; pass --yes")

func newPurgeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "purge [paths...]",
		Short: "Clean project build artifacts",
		Long:  "Find and remove build artifacts (node_modules, target, build, dist, etc.) from project directories.",
		Args:  cobra.ArbitraryArgs,
		RunE:  runPurge,
	}
	addScanFlags(cmd)
	addExecutionFlags(cmd)
	return cmd
}

// session carries everything one command invocation shares.
type session struct {
	opts runOptions
	log  zerolog.Logger
	pool *workpool.Pool
	in   io.Reader
	out  io.Writer

	scanErrors []scanner.ScanError
}

// prepare loads config, resolves flags and builds the logger and pool.
func prepare(cmd *cobra.Command, args []string) (*session, error) {
	cfg := loadConfig(cmd, newLogger(cmd, false))
	opts, err := resolveOptions(cmd.Flags(), args, cfg)
	if err != nil {
		return nil, err
	}
	pool, err := workpool.New(opts.threads)
	if err != nil {
		return nil, err
	}
	return &session{
		opts: opts,
		log:  newLogger(cmd, opts.verbose),
		pool: pool,
		in:   cmd.InOrStdin(),
		out:  cmd.OutOrStdout(),
	}, nil
}

// signalContext cancels on Ctrl-C or SIGTERM.
func signalContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	return signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
}

// discover runs scan, filter and sort. scanned is the number of projects
// the scan reported before filtering.
func (s *session) discover(ctx context.Context) (projects project.Collection, scanned int, err error) {
	progress := ui.NewProgress(s.opts.format.Structured())
	progress.SetMessage("Scanning for projects...")

	sc := scanner.New(s.pool, s.opts.scan,
		scanner.WithLogger(s.log),
		scanner.WithProgress(progress))
	found := sc.ScanAll(ctx, s.opts.paths)
	if err := ctx.Err(); err != nil {
		return nil, 0, fmt.Errorf("scan interrupted: %w", err)
	}
	s.scanErrors, _ = sc.Errors()
	s.log.Debug().
		Int64("discovered", sc.Found()).
		Int("measured", len(found)).
		Int("errors", len(s.scanErrors)).
		Strs("roots", s.opts.paths).
		Msg("scan finished")

	projects, err = filter.Filter(ctx, s.pool, found, s.opts.filter)
	if err != nil {
		return nil, 0, fmt.Errorf("filter interrupted: %w", err)
	}
	filter.Sort(projects, s.opts.sort)
	return projects, len(found), nil
}

// canPrompt reports whether input comes from a terminal.
func (s *session) canPrompt() bool {
	f, ok := s.in.(*os.File)
	return ok && ui.IsTerminal(f)
}

func (s *session) structured() bool {
	return s.opts.format.Structured()
}

// writeDoc encodes doc; verbose runs also carry the recovered scan errors.
func (s *session) writeDoc(doc report.Document) error {
	if s.opts.verbose {
		doc.ScanErrors = s.scanErrors
	}
	return report.Write(s.out, s.opts.format, doc)
}

func runPurge(cmd *cobra.Command, args []string) error {
	s, err := prepare(cmd, args)
	if err != nil {
		return err
	}
	ctx, stop := signalContext(cmd)
	defer stop()

	projects, scanned, err := s.discover(ctx)
	if err != nil {
		return err
	}

	if len(projects) == 0 {
		if s.structured() {
			return s.writeDoc(report.DryRun(nil))
		}
		msg := "✨ No development directories found!"
		if scanned > 0 {
			msg = "✨ No directories match the specified criteria!"
		}
		fmt.Fprintln(s.out, ui.SuccessStyle.Render(msg))
		return nil
	}

	if !s.structured() {
		fmt.Fprintln(s.out, ui.TitleStyle.Render("\n📊 Found projects:"))
		report.PrintSummary(s.out, projects)
	}

	if s.opts.interactive {
		selected, ok, err := s.choose(projects)
		if err != nil || !ok {
			return err
		}
		projects = selected
	}

	if s.opts.dryRun {
		if s.structured() {
			return s.writeDoc(report.DryRun(projects))
		}
		fmt.Fprintln(s.out)
		report.PrintDryRun(s.out, projects)
		fmt.Fprintf(s.out, "\n🧪 Dry run complete! Would free up %s\n", core.FormatSize(projects.TotalSize()))
		return nil
	}

	if !s.opts.interactive && !s.opts.yes {
		ok, err := s.confirm(projects)
		if err != nil || !ok {
			return err
		}
	}

	return s.clean(ctx, projects)
}

// choose runs the interactive selection and, unless executables are
// already being kept, asks whether to keep them. ok is false when nothing
// should be cleaned.
func (s *session) choose(projects project.Collection) (project.Collection, bool, error) {
	if !s.canPrompt() {
		return nil, false, errors.New("--interactive needs a terminal")
	}
	indices, err := ui.Select("Select projects to clean", projects.Items())
	if errors.Is(err, ui.ErrCanceled) {
		fmt.Fprintln(s.out, "Cancelled.")
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	if len(indices) == 0 {
		fmt.Fprintln(s.out, ui.SuccessStyle.Render("✨ No projects selected for cleaning!"))
		return nil, false, nil
	}

	if !s.opts.keepExecutables {
		keep, err := ui.Confirm("Keep compiled executables before cleaning?", false)
		if errors.Is(err, ui.ErrCanceled) {
			fmt.Fprintln(s.out, "Cancelled.")
			return nil, false, nil
		}
		if err != nil {
			return nil, false, err
		}
		s.opts.keepExecutables = keep
	}
	return projects.Subset(indices), true, nil
}

// confirm asks before a non-interactive deletion. Without a terminal the
// run needs --yes.
func (s *session) confirm(projects project.Collection) (bool, error) {
	if s.structured() || !s.canPrompt() {
		return false, errNeedsConfirmation
	}
	verb := "Move to trash"
	if !s.opts.useTrash {
		verb = "Permanently delete"
	}
	ok, err := ui.Confirm(fmt.Sprintf("%s artifacts of %d projects (%s)?",
		verb, len(projects), core.FormatSize(projects.TotalSize())), false)
	if errors.Is(err, ui.ErrCanceled) || (err == nil && !ok) {
		fmt.Fprintln(s.out, "Nothing deleted.")
		return false, nil
	}
	return ok, err
}

// clean deletes the artifacts and reports the outcome. An interrupted run
// still reports what finished before returning the cancellation.
func (s *session) clean(ctx context.Context, projects project.Collection) error {
	progress := ui.NewProgress(s.structured())
	options := []clean.Option{
		clean.WithLogger(s.log),
		clean.WithProgress(progress),
		clean.WithGuard(clean.NewGuard(config.NeverDeletePaths())),
	}
	if s.opts.keepExecutables {
		options = append(options, clean.WithPreserver(preserve.Hooks{}))
	}
	remover := clean.StrategyRemover{Strategy: core.StrategyFromUseTrash(s.opts.useTrash)}
	s.log.Debug().Stringer("strategy", remover.Strategy).Int("projects", len(projects)).Msg("cleaning")

	res, cleanErr := clean.New(s.pool, remover, options...).Clean(ctx, projects)

	if s.structured() {
		if err := s.writeDoc(report.Cleanup(projects, res)); err != nil {
			return err
		}
	} else {
		report.PrintResult(s.out, res)
		if len(s.opts.paths) > 0 {
			report.PrintFreeSpace(s.out, s.opts.paths[0])
		}
	}
	if cleanErr != nil {
		return fmt.Errorf("cleanup interrupted: %w", cleanErr)
	}
	return nil
}
