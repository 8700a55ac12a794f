package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lakshaymaurya-felt/purgedev/internal/config"
	"github.com/lakshaymaurya-felt/purgedev/internal/filter"
	"github.com/lakshaymaurya-felt/purgedev/internal/project"
	"github.com/lakshaymaurya-felt/purgedev/internal/report"
)

// ─── Option layering ─────────────────────────────────────────────────────────

func parsePurge(t *testing.T, cfg config.File, argv ...string) (runOptions, error) {
	t.Helper()
	c := newPurgeCmd()
	require.NoError(t, c.ParseFlags(argv))
	return resolveOptions(c.Flags(), c.Flags().Args(), cfg)
}

func TestResolveUsesConfigWhenFlagsUnset(t *testing.T) {
	cfg := config.Defaults()
	cfg.Dir = []string{"/src"}
	cfg.ProjectType = "rust"
	cfg.Filtering = config.Filtering{KeepSize: "1KB", KeepDays: 7, Sort: "size", Reverse: true}
	cfg.Scanning = config.Scanning{Threads: 3, Skip: []string{"cache"}, MaxDepth: 4}
	cfg.Execution = config.Execution{DryRun: true, UseTrash: false, KeepExecutables: true}

	o, err := parsePurge(t, cfg)
	require.NoError(t, err)
	assert.Equal(t, []string{"/src"}, o.paths)
	assert.Equal(t, []project.Kind{project.KindRust}, o.scan.Kinds)
	assert.Equal(t, filter.Options{MinSize: 1000, MinAgeDays: 7}, o.filter)
	assert.Equal(t, filter.SortOptions{By: filter.SortSize, Reverse: true}, o.sort)
	assert.Equal(t, 3, o.threads)
	assert.Equal(t, []string{"cache"}, o.scan.Skip)
	assert.Equal(t, 4, o.scan.MaxDepth)
	assert.True(t, o.dryRun)
	assert.True(t, o.keepExecutables)
	assert.False(t, o.useTrash)
	assert.Equal(t, report.FormatText, o.format)
}

func TestResolveFlagsOverrideConfig(t *testing.T) {
	cfg := config.Defaults()
	cfg.Filtering.KeepSize = "1GB"
	cfg.Filtering.Sort = "name"
	cfg.Execution.DryRun = true

	o, err := parsePurge(t, cfg,
		"-p", "node", "--keep-size", "10MB", "--sort", "age",
		"--dry-run=false", "--threads", "2", "--skip", "a,b", "--permanent", "a", "b")
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, o.paths)
	assert.Equal(t, []project.Kind{project.KindNode}, o.scan.Kinds)
	assert.EqualValues(t, 10_000_000, o.filter.MinSize)
	assert.Equal(t, filter.SortAge, o.sort.By)
	assert.False(t, o.dryRun)
	assert.Equal(t, 2, o.threads)
	assert.Equal(t, []string{"a", "b"}, o.scan.Skip)
	assert.False(t, o.useTrash)
}

func TestResolveFlagAliases(t *testing.T) {
	o, err := parsePurge(t, config.Defaults(), "--min-size", "2KB", "--min-age", "3", "--type", "go")
	require.NoError(t, err)
	assert.EqualValues(t, 2000, o.filter.MinSize)
	assert.Equal(t, 3, o.filter.MinAgeDays)
	assert.Equal(t, []project.Kind{project.KindGo}, o.scan.Kinds)
}

func TestResolveUseTrashFlag(t *testing.T) {
	cfg := config.Defaults()
	cfg.Execution.UseTrash = false
	o, err := parsePurge(t, cfg, "--use-trash")
	require.NoError(t, err)
	assert.True(t, o.useTrash)
}

func TestResolveOutputFormats(t *testing.T) {
	o, err := parsePurge(t, config.Defaults(), "--json")
	require.NoError(t, err)
	assert.Equal(t, report.FormatJSON, o.format)

	o, err = parsePurge(t, config.Defaults(), "--format", "yaml")
	require.NoError(t, err)
	assert.Equal(t, report.FormatYAML, o.format)

	_, err = parsePurge(t, config.Defaults(), "--format", "xml")
	assert.Error(t, err)
}

func TestResolveRejectsBadValues(t *testing.T) {
	tests := map[string][]string{
		"size":         {"--keep-size", "lots"},
		"project type": {"-p", "cobol"},
		"sort":         {"--sort", "color"},
		"days":         {"--keep-days", "-1"},
		"depth":        {"--max-depth", "-2"},
	}
	for name, argv := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := parsePurge(t, config.Defaults(), argv...)
			assert.Error(t, err)
		})
	}
}

func TestResolveJSONWithInteractive(t *testing.T) {
	_, err := parsePurge(t, config.Defaults(), "--json", "-i")
	assert.ErrorIs(t, err, errJSONInteractive)
}

// ─── End to end ──────────────────────────────────────────────────────────────

func writeFile(t *testing.T, path string, size int) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, bytes.Repeat([]byte("x"), size), 0o644))
}

// nodeWorkspace creates one Node project with a 4 kB node_modules.
func nodeWorkspace(t *testing.T) (root, artifacts string) {
	t.Helper()
	root = t.TempDir()
	proj := filepath.Join(root, "web")
	writeFile(t, filepath.Join(proj, "package.json"), 0)
	require.NoError(t, os.WriteFile(filepath.Join(proj, "package.json"), []byte(`{"name":"web-app"}`), 0o644))
	artifacts = filepath.Join(proj, "node_modules")
	writeFile(t, filepath.Join(artifacts, "left-pad", "index.js"), 4000)
	return root, artifacts
}

func run(t *testing.T, argv ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	root := newRootCmd()
	root.SetOut(&out)
	root.SetErr(io.Discard)
	root.SetIn(bytes.NewReader(nil))
	root.SetArgs(append([]string{"--config", filepath.Join(t.TempDir(), "missing.toml")}, argv...))
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestScanJSON(t *testing.T) {
	root, artifacts := nodeWorkspace(t)

	out, err := run(t, "scan", "--json", root)
	require.NoError(t, err)

	var doc struct {
		Mode     string `json:"mode"`
		Projects []struct {
			Name string `json:"name"`
			Type string `json:"type"`
		} `json:"projects"`
		Summary struct {
			TotalProjects int   `json:"total_projects"`
			TotalSize     int64 `json:"total_size"`
		} `json:"summary"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &doc))
	assert.Equal(t, "dry_run", doc.Mode)
	require.Len(t, doc.Projects, 1)
	assert.Equal(t, "web-app", doc.Projects[0].Name)
	assert.Equal(t, "node", doc.Projects[0].Type)
	assert.EqualValues(t, 4000, doc.Summary.TotalSize)
	assert.DirExists(t, artifacts)
}

func TestPurgeDryRunKeepsFiles(t *testing.T) {
	root, artifacts := nodeWorkspace(t)

	out, err := run(t, "--dry-run", root)
	require.NoError(t, err)
	assert.Contains(t, out, "Dry run complete")
	assert.Contains(t, out, artifacts)
	assert.DirExists(t, artifacts)
}

func TestPurgeDeletesWithYes(t *testing.T) {
	root, artifacts := nodeWorkspace(t)

	out, err := run(t, "purge", "--yes", "--permanent", "--format", "json", root)
	require.NoError(t, err)

	var doc struct {
		Mode   string `json:"mode"`
		Result struct {
			SuccessCount int      `json:"success_count"`
			FailureCount int      `json:"failure_count"`
			TotalFreed   int64    `json:"total_freed"`
			Errors       []string `json:"errors"`
		} `json:"result"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &doc))
	assert.Equal(t, "cleanup", doc.Mode)
	assert.Equal(t, 1, doc.Result.SuccessCount)
	assert.Zero(t, doc.Result.FailureCount)
	assert.EqualValues(t, 4000, doc.Result.TotalFreed)
	assert.Empty(t, doc.Result.Errors)
	assert.NoDirExists(t, artifacts)
	assert.FileExists(t, filepath.Join(filepath.Dir(artifacts), "package.json"))
}

func TestPurgeNeedsConfirmationWithoutTerminal(t *testing.T) {
	root, artifacts := nodeWorkspace(t)

	_, err := run(t, "--permanent", root)
	assert.ErrorIs(t, err, errNeedsConfirmation)
	assert.DirExists(t, artifacts)
}

func TestPurgeNothingFound(t *testing.T) {
	out, err := run(t, t.TempDir())
	require.NoError(t, err)
	assert.Contains(t, out, "No development directories found")

	out, err = run(t, "--json", t.TempDir())
	require.NoError(t, err)
	assert.Contains(t, out, `"mode": "dry_run"`)
	assert.Contains(t, out, `"total_projects": 0`)
}

func TestPurgeKeepSizeFiltersEverything(t *testing.T) {
	root, _ := nodeWorkspace(t)
	out, err := run(t, "scan", "--keep-size", "1MB", root)
	require.NoError(t, err)
	assert.Contains(t, out, "No projects found")
}

func TestPurgeRejectsNegativeThreads(t *testing.T) {
	_, err := run(t, "scan", "--threads", "-1", t.TempDir())
	assert.Error(t, err)
}

// ─── config / version ────────────────────────────────────────────────────────

func TestConfigCommands(t *testing.T) {
	path := filepath.Join(t.TempDir(), "purgedev", "config.toml")
	exec := func(argv ...string) string {
		var out bytes.Buffer
		root := newRootCmd()
		root.SetOut(&out)
		root.SetErr(io.Discard)
		root.SetArgs(append(argv, "--config", path))
		require.NoError(t, root.Execute())
		return out.String()
	}

	assert.Equal(t, path+"\n", exec("config", "path"))
	assert.Contains(t, exec("config", "show"), "not found - showing defaults")

	assert.Contains(t, exec("config", "init"), "Config file written to")
	assert.FileExists(t, path)
	assert.Contains(t, exec("config", "init"), "already exists")

	show := exec("config", "show")
	assert.Contains(t, show, "(found)")
	assert.Contains(t, show, "execution.use_trash")
	assert.Contains(t, show, "(default)")
}

func TestVersion(t *testing.T) {
	SetVersionInfo("1.2.3", "abc", "today")
	t.Cleanup(func() { SetVersionInfo("dev", "none", "unknown") })

	out, err := run(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "purgedev 1.2.3 (abc) built today\n", out)
}

func TestPurgeNothingMatchesFilters(t *testing.T) {
	root, artifacts := nodeWorkspace(t)

	out, err := run(t, "--keep-size", "1MB", root)
	require.NoError(t, err)
	assert.Contains(t, out, "No directories match the specified criteria")
	assert.NotContains(t, out, "No development directories found")
	assert.DirExists(t, artifacts)
}

func TestScanErrorsOnlyInVerboseDocuments(t *testing.T) {
	root, _ := nodeWorkspace(t)
	missing := filepath.Join(t.TempDir(), "missing")

	var doc struct {
		Projects   []json.RawMessage `json:"projects"`
		ScanErrors []struct {
			Path  string `json:"path"`
			Error string `json:"error"`
		} `json:"scan_errors"`
	}

	out, err := run(t, "scan", "--json", "--verbose", root, missing)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal([]byte(out), &doc))
	assert.Len(t, doc.Projects, 1)
	require.Len(t, doc.ScanErrors, 1)
	assert.Equal(t, missing, doc.ScanErrors[0].Path)
	assert.NotEmpty(t, doc.ScanErrors[0].Error)

	out, err = run(t, "scan", "--json", root, missing)
	require.NoError(t, err)
	assert.NotContains(t, out, "scan_errors")
}
