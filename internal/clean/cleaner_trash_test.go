//go:build linux

package clean

import (
	"context"
	"os"
	"path/filepath"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lakshaymaurya-felt/purgedev/internal/core"
	"github.com/lakshaymaurya-felt/purgedev/internal/project"
)

func TestCleanReportsUnavailableTrash(t *testing.T) {
	dir := t.TempDir()
	notADir := filepath.Join(dir, "data")
	require.NoError(t, os.WriteFile(notADir, []byte("x"), 0o644))
	t.Setenv("XDG_DATA_HOME", notADir)

	p := fixture(t, dir, "app", 100, "target")
	artifact := p.Artifacts[0].Path

	c := New(newPool(t, 1), StrategyRemover{Strategy: core.Trash})
	res, err := c.Clean(context.Background(), project.Collection{p})
	require.NoError(t, err)

	assert.Zero(t, res.SuccessCount)
	assert.Equal(t, 1, res.FailureCount)
	assert.Zero(t, res.TotalFreed)
	require.Len(t, res.Errors, 1)
	assert.Regexp(t, "^failed to clean "+regexp.QuoteMeta(artifact)+": "+core.ErrTrashUnavailable.Error(), res.Errors[0])
	assert.DirExists(t, artifact)
}

func TestCleanTrashMovesArtifact(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_DATA_HOME", filepath.Join(dir, "data"))

	p := fixture(t, dir, "app", 100, "target")

	c := New(newPool(t, 1), StrategyRemover{Strategy: core.Trash})
	res, err := c.Clean(context.Background(), project.Collection{p})
	require.NoError(t, err)

	assert.Equal(t, 1, res.SuccessCount)
	assert.EqualValues(t, 100, res.TotalFreed)
	assert.NoDirExists(t, p.Artifacts[0].Path)
	assert.DirExists(t, filepath.Join(dir, "data", "Trash", "files", "target"))
}
