package core

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStrategyFromUseTrash(t *testing.T) {
	assert.Equal(t, Trash, StrategyFromUseTrash(true))
	assert.Equal(t, Permanent, StrategyFromUseTrash(false))
	assert.Equal(t, "trash", Trash.String())
	assert.Equal(t, "permanent", Permanent.String())
}

func TestSafeDeletePermanent(t *testing.T) {
	root := t.TempDir()
	target := filepath.Join(root, "target")
	writeFile(t, filepath.Join(target, "debug", "app"), 300)
	writeFile(t, filepath.Join(target, "release", "app"), 200)

	freed, err := SafeDelete(target, Permanent)
	require.NoError(t, err)
	assert.Equal(t, int64(500), freed)
	assert.NoDirExists(t, target)
}

func TestRemovePermanentMissingPath(t *testing.T) {
	assert.NoError(t, Remove(filepath.Join(t.TempDir(), "missing"), Permanent))
}

func TestRemoveUnknownStrategy(t *testing.T) {
	assert.Error(t, Remove(t.TempDir(), RemovalStrategy(42)))
}

func TestPathErrorUnwraps(t *testing.T) {
	err := &PathError{Op: "remove", Path: "/x", Err: os.ErrPermission}
	assert.ErrorIs(t, err, os.ErrPermission)
	assert.Equal(t, "remove /x: permission denied", err.Error())
}
