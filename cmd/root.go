// Package cmd wires the purgedev command tree.
package cmd

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/lakshaymaurya-felt/purgedev/internal/config"
	"github.com/lakshaymaurya-felt/purgedev/internal/logging"
)

var (
	// Version info populated from main
	appVersion = "dev"
	appCommit  = "none"
	appDate    = "unknown"
)

// SetVersionInfo sets build-time version information.
func SetVersionInfo(version, commit, date string) {
	appVersion = version
	appCommit = commit
	appDate = date
}

// newRootCmd builds the full command tree. Running the root without a
// subcommand is the same as `purgedev purge`.
func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "purgedev [paths...]",
		Short: "Reclaim disk space from development build artifacts",
		Long: `purgedev - find and delete regenerable build artifacts.

Walks the given directories (default: the current one), recognises
projects from 16 ecosystems (Rust, Node.js, Python, Go, Java, ...) and
removes their build output (target/, node_modules/, __pycache__/, ...).
Artifacts go to the system trash unless --permanent is given.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.ArbitraryArgs,
		RunE:          runPurge,
	}

	root.PersistentFlags().Bool("debug", false, "Show detailed operation logs")
	root.PersistentFlags().BoolP("verbose", "v", false, "Report directories that could not be read")
	root.PersistentFlags().String("config", "", "Config file (default: $XDG_CONFIG_HOME/purgedev/config.toml)")

	addScanFlags(root)
	addExecutionFlags(root)

	root.AddCommand(newPurgeCmd())
	root.AddCommand(newScanCmd())
	root.AddCommand(newConfigCmd())
	root.AddCommand(newCompletionCmd())
	root.AddCommand(newVersionCmd())
	return root
}

// Execute runs the root command.
func Execute(ctx context.Context) error {
	return newRootCmd().ExecuteContext(ctx)
}

// configPath resolves --config, falling back to the XDG location. An
// empty result means no file can be located.
func configPath(cmd *cobra.Command) string {
	if p, _ := cmd.Flags().GetString("config"); p != "" {
		return p
	}
	p, err := config.Path()
	if err != nil {
		return ""
	}
	return p
}

// loadConfig reads the config file. A malformed file is reported on the
// logger and the defaults are used instead.
func loadConfig(cmd *cobra.Command, log zerolog.Logger) config.File {
	cfg, _, err := config.Load(configPath(cmd))
	if err != nil {
		log.Warn().Err(err).Msg("failed to load config file, using defaults")
		return config.Defaults()
	}
	return cfg
}

// newLogger builds the command logger from --debug and the effective
// verbose setting.
func newLogger(cmd *cobra.Command, verbose bool) zerolog.Logger {
	debug, _ := cmd.Flags().GetBool("debug")
	if v, _ := cmd.Flags().GetBool("verbose"); v {
		verbose = true
	}
	cfg := logging.ForFlags(debug, verbose)
	cfg.Out = cmd.ErrOrStderr()
	return logging.New(cfg)
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "purgedev %s (%s) built %s\n", appVersion, appCommit, appDate)
		},
	}
}
