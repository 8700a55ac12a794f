package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/lakshaymaurya-felt/purgedev/internal/clean"
	"github.com/lakshaymaurya-felt/purgedev/internal/core"
	"github.com/lakshaymaurya-felt/purgedev/internal/project"
	"github.com/lakshaymaurya-felt/purgedev/internal/ui"
)

const rule = 58

func noun(n int, word string) string {
	if n == 1 {
		return word
	}
	return word + "s"
}

func plural(n int, word string) string {
	return fmt.Sprintf("%d %s", n, noun(n, word))
}

// PrintSummary prints one line per kind present and the total reclaimable
// space.
func PrintSummary(w io.Writer, projects project.Collection) {
	for _, st := range projects.Breakdown() {
		fmt.Fprintf(w, "  %s %s %s %s (%s)\n",
			st.Kind.Icon(),
			ui.AccentStyle.Render(fmt.Sprint(st.Count)),
			st.Kind.Label(),
			noun(st.Count, "project"),
			core.FormatSize(st.Size))
	}
	fmt.Fprintf(w, "  💾 Total reclaimable space: %s\n",
		ui.SuccessStyle.Bold(true).Render(core.FormatSize(projects.TotalSize())))
}

// PrintProjects lists every project with its artifact directories.
func PrintProjects(w io.Writer, projects project.Collection) {
	if len(projects) == 0 {
		fmt.Fprintln(w, "  No projects found.")
		return
	}
	for _, p := range projects {
		fmt.Fprintf(w, "  %s %s  %s  %s\n",
			p.Kind.Icon(),
			ui.TitleStyle.Render(p.DisplayName()),
			ui.MutedStyle.Render(p.Root),
			core.FormatSize(p.TotalSize()))
		for i, a := range p.Artifacts {
			connector := "+-- "
			if i == len(p.Artifacts)-1 {
				connector = "\\-- "
			}
			fmt.Fprintf(w, "     %s%s  %s\n", connector, a.Path, core.FormatSize(a.Size))
		}
	}
}

// PrintDryRun lists what a cleanup would delete, followed by the summary.
func PrintDryRun(w io.Writer, projects project.Collection) {
	fmt.Fprintln(w, ui.TitleStyle.Render(ui.IconDiamond+" Dry run: nothing will be deleted"))
	fmt.Fprintln(w, "  "+strings.Repeat("-", rule))
	PrintProjects(w, projects)
	fmt.Fprintln(w, "  "+strings.Repeat("-", rule))
	PrintSummary(w, projects)
}

// PrintResult prints the cleanup outcome. Errors are listed first.
func PrintResult(w io.Writer, res clean.Result) {
	if len(res.Errors) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, ui.WarningStyle.Render(ui.IconWarning+"  Some errors occurred during cleanup:"))
		for _, e := range res.Errors {
			fmt.Fprintf(w, "  %s\n", ui.ErrorStyle.Render(e))
		}
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, ui.TitleStyle.Render("📊 Cleanup Summary:"))
	fmt.Fprintf(w, "  %s Successfully cleaned: %s\n",
		ui.SuccessStyle.Render(ui.IconCheck), plural(res.SuccessCount, "project"))
	if res.FailureCount > 0 {
		fmt.Fprintf(w, "  %s Failed to clean: %s\n",
			ui.ErrorStyle.Render(ui.IconCross), plural(res.FailureCount, "project"))
	}
	if res.SkippedCount > 0 {
		fmt.Fprintf(w, "  %s Skipped (cancelled): %s\n",
			ui.WarningStyle.Render(ui.IconWarning), plural(res.SkippedCount, "project"))
	}
	fmt.Fprintf(w, "  💾 Total space freed: %s\n",
		ui.SuccessStyle.Bold(true).Render(core.FormatSize(res.TotalFreed)))

	if res.TotalFreed != res.EstimatedSize {
		diff := res.EstimatedSize - res.TotalFreed
		if diff < 0 {
			diff = -diff
		}
		fmt.Fprintf(w, "  📋 Difference from estimate: %s\n",
			ui.WarningStyle.Render(core.FormatSize(diff)))
	}

	for _, f := range res.Preserved {
		fmt.Fprintf(w, "  %s kept %s\n", ui.MutedStyle.Render(ui.IconBullet), f.Destination)
	}
}

// PrintFreeSpace prints the free space of the volume holding path. Lookup
// failures print nothing.
func PrintFreeSpace(w io.Writer, path string) {
	free, err := FreeSpace(path)
	if err != nil {
		return
	}
	fmt.Fprintf(w, "  🗄  Free space on %s: %s\n", path, core.FormatSize(int64(free)))
}
