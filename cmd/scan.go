package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lakshaymaurya-felt/purgedev/internal/report"
	"github.com/lakshaymaurya-felt/purgedev/internal/ui"
)

func newScanCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scan [paths...]",
		Short: "List projects and reclaimable space without deleting",
		Long:  "Scan directories for development projects and list their build artifacts. Nothing is deleted.",
		Args:  cobra.ArbitraryArgs,
		RunE:  runScan,
	}
	addScanFlags(cmd)
	return cmd
}

func runScan(cmd *cobra.Command, args []string) error {
	s, err := prepare(cmd, args)
	if err != nil {
		return err
	}
	ctx, stop := signalContext(cmd)
	defer stop()

	projects, _, err := s.discover(ctx)
	if err != nil {
		return err
	}
	if s.structured() {
		return s.writeDoc(report.DryRun(projects))
	}

	fmt.Fprintln(s.out, ui.TitleStyle.Render(ui.IconDiamond+" Projects"))
	report.PrintProjects(s.out, projects)
	if len(projects) > 0 {
		fmt.Fprintln(s.out)
		report.PrintSummary(s.out, projects)
	}
	return nil
}
