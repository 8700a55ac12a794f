package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lakshaymaurya-felt/purgedev/internal/config"
	"github.com/lakshaymaurya-felt/purgedev/internal/ui"
)

var errNoConfigPath = errors.New("could not determine the config directory on this platform")

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect or create the configuration file",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "path",
			Short: "Print the config file location",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				path := configPath(cmd)
				if path == "" {
					return errNoConfigPath
				}
				fmt.Fprintln(cmd.OutOrStdout(), path)
				return nil
			},
		},
		&cobra.Command{
			Use:   "show",
			Short: "Print the effective configuration",
			Args:  cobra.NoArgs,
			RunE:  runConfigShow,
		},
		&cobra.Command{
			Use:   "init",
			Short: "Write a commented config file with the defaults",
			Args:  cobra.NoArgs,
			RunE:  runConfigInit,
		},
	)
	return cmd
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	path := configPath(cmd)

	cfg, found, err := config.Load(path)
	switch {
	case path == "":
		fmt.Fprintln(out, "Config file: (cannot determine path on this platform)")
	case err != nil:
		fmt.Fprintf(out, "Config file: %s (%s - showing defaults)\n", path, ui.ErrorStyle.Render(err.Error()))
	case found:
		fmt.Fprintf(out, "Config file: %s (found)\n", path)
	default:
		fmt.Fprintf(out, "Config file: %s (not found - showing defaults)\n", path)
	}
	fmt.Fprintln(out)

	for _, e := range cfg.Entries() {
		marker := ""
		if e.Default {
			marker = ui.MutedStyle.Render("  (default)")
		}
		fmt.Fprintf(out, "%-28s = %s%s\n", e.Key, e.Value, marker)
	}
	return nil
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	path := configPath(cmd)
	if path == "" {
		return errNoConfigPath
	}
	if err := config.Init(path); err != nil {
		if errors.Is(err, config.ErrConfigExists) {
			fmt.Fprintf(cmd.OutOrStdout(), "Config file already exists at: %s\nRemove it first if you want to regenerate it.\n", path)
			return nil
		}
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Config file written to: %s\n", path)
	return nil
}
