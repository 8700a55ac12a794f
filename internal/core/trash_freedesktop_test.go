//go:build linux

package core

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sys/unix"
)

func TestMoveToTrashFreedesktop(t *testing.T) {
	base := t.TempDir()
	dataHome := filepath.Join(base, "data")
	t.Setenv("XDG_DATA_HOME", dataHome)

	target := filepath.Join(base, "proj", "node_modules")
	writeFile(t, filepath.Join(target, "pkg", "index.js"), 42)

	require.NoError(t, Remove(target, Trash))
	assert.NoDirExists(t, target)

	trashed := filepath.Join(dataHome, "Trash", "files", "node_modules")
	assert.FileExists(t, filepath.Join(trashed, "pkg", "index.js"))

	info, err := os.ReadFile(filepath.Join(dataHome, "Trash", "info", "node_modules.trashinfo"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(info), "[Trash Info]\nPath="+target+"\n"))
	assert.Contains(t, string(info), "DeletionDate=")
}

func TestMoveToTrashNameCollision(t *testing.T) {
	base := t.TempDir()
	dataHome := filepath.Join(base, "data")
	t.Setenv("XDG_DATA_HOME", dataHome)

	for _, proj := range []string{"a", "b"} {
		target := filepath.Join(base, proj, "target")
		writeFile(t, filepath.Join(target, "f"), 1)
		require.NoError(t, Remove(target, Trash))
	}

	entries, err := os.ReadDir(filepath.Join(dataHome, "Trash", "files"))
	require.NoError(t, err)
	assert.Len(t, entries, 2)
}

func TestMoveToTrashMissingPath(t *testing.T) {
	t.Setenv("XDG_DATA_HOME", t.TempDir())
	err := Remove(filepath.Join(t.TempDir(), "missing"), Trash)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestMoveToTrashUnavailable(t *testing.T) {
	base := t.TempDir()
	notADir := filepath.Join(base, "data")
	writeFile(t, notADir, 1)
	t.Setenv("XDG_DATA_HOME", notADir)

	target := filepath.Join(base, "proj", "target")
	writeFile(t, filepath.Join(target, "f"), 10)

	err := Remove(target, Trash)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrTrashUnavailable)
	assert.DirExists(t, target)

	freed, err := SafeDelete(target, Trash)
	assert.ErrorIs(t, err, ErrTrashUnavailable)
	assert.Zero(t, freed)
	assert.DirExists(t, target)
}

func TestMountTopStaysOnOneFilesystem(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "a", "b")
	require.NoError(t, os.MkdirAll(dir, 0o755))

	top, err := mountTop(dir)
	require.NoError(t, err)
	assert.True(t, top == "/" || strings.HasPrefix(dir, top+"/"), "top %s is not above %s", top, dir)

	var a, b unix.Stat_t
	require.NoError(t, unix.Stat(dir, &a))
	require.NoError(t, unix.Stat(top, &b))
	assert.Equal(t, a.Dev, b.Dev)
	if top != "/" {
		require.NoError(t, unix.Stat(filepath.Dir(top), &b))
		assert.NotEqual(t, a.Dev, b.Dev)
	}
}

func TestVolumeTrashLocation(t *testing.T) {
	tests := []struct {
		name  string
		setup func(t *testing.T, top string)
		want  string
	}{
		{
			name:  "no shared trash",
			setup: func(*testing.T, string) {},
			want:  ".Trash-1234",
		},
		{
			name: "sticky shared trash",
			setup: func(t *testing.T, top string) {
				shared := filepath.Join(top, ".Trash")
				require.NoError(t, os.Mkdir(shared, 0o777))
				require.NoError(t, os.Chmod(shared, 0o777|os.ModeSticky))
			},
			want: filepath.Join(".Trash", "1234"),
		},
		{
			name: "shared trash without sticky bit",
			setup: func(t *testing.T, top string) {
				require.NoError(t, os.Mkdir(filepath.Join(top, ".Trash"), 0o777))
			},
			want: ".Trash-1234",
		},
		{
			name: "shared trash is a symlink",
			setup: func(t *testing.T, top string) {
				elsewhere := filepath.Join(top, "elsewhere")
				require.NoError(t, os.Mkdir(elsewhere, 0o777))
				require.NoError(t, os.Chmod(elsewhere, 0o777|os.ModeSticky))
				require.NoError(t, os.Symlink(elsewhere, filepath.Join(top, ".Trash")))
			},
			want: ".Trash-1234",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			top := t.TempDir()
			tt.setup(t, top)

			can, err := volumeTrashIn(top, 1234)
			require.NoError(t, err)
			assert.Equal(t, filepath.Join(top, tt.want), can.dir)
			assert.Equal(t, top, can.topdir)
			assert.DirExists(t, filepath.Join(can.dir, "files"))
			assert.DirExists(t, filepath.Join(can.dir, "info"))
		})
	}
}

func TestVolumeTrashUnusable(t *testing.T) {
	top := t.TempDir()
	writeFile(t, filepath.Join(top, ".Trash-1234"), 1)

	_, err := volumeTrashIn(top, 1234)
	assert.Error(t, err)
}

func TestVolumeTrashRecordsRelativePath(t *testing.T) {
	top := t.TempDir()
	target := filepath.Join(top, "proj", "target")
	writeFile(t, filepath.Join(target, "f"), 5)

	can, err := volumeTrashIn(top, 1234)
	require.NoError(t, err)
	require.NoError(t, can.put(target))

	assert.NoDirExists(t, target)
	assert.FileExists(t, filepath.Join(can.dir, "files", "target", "f"))
	info, err := os.ReadFile(filepath.Join(can.dir, "info", "target.trashinfo"))
	require.NoError(t, err)
	assert.Contains(t, string(info), "\nPath=proj/target\n")
}

// TestMoveToTrashAcrossFilesystems needs a tmpfs at /dev/shm on a
// different device than the test's temp dir.
func TestMoveToTrashAcrossFilesystems(t *testing.T) {
	t.Setenv("XDG_DATA_HOME", t.TempDir())

	volDir, err := os.MkdirTemp("/dev/shm", "purgedev-test-")
	if err != nil {
		t.Skip("/dev/shm is not writable")
	}
	t.Cleanup(func() { os.RemoveAll(volDir) })

	var a, b unix.Stat_t
	require.NoError(t, unix.Stat(volDir, &a))
	require.NoError(t, unix.Stat(os.Getenv("XDG_DATA_HOME"), &b))
	if a.Dev == b.Dev {
		t.Skip("/dev/shm shares a filesystem with the temp dir")
	}

	target := filepath.Join(volDir, "node_modules")
	writeFile(t, filepath.Join(target, "index.js"), 7)

	freed, err := SafeDelete(target, Trash)
	require.NoError(t, err)
	assert.EqualValues(t, 7, freed)
	assert.NoDirExists(t, target)

	top, err := mountTop(volDir)
	require.NoError(t, err)
	can, err := volumeTrashIn(top, os.Getuid())
	require.NoError(t, err)

	rel, err := filepath.Rel(top, target)
	require.NoError(t, err)
	entries, err := os.ReadDir(filepath.Join(can.dir, "info"))
	require.NoError(t, err)

	found := false
	for _, e := range entries {
		path := filepath.Join(can.dir, "info", e.Name())
		data, err := os.ReadFile(path)
		if err != nil || !strings.Contains(string(data), "\nPath="+rel+"\n") {
			continue
		}
		found = true
		name := strings.TrimSuffix(e.Name(), ".trashinfo")
		assert.FileExists(t, filepath.Join(can.dir, "files", name, "index.js"))
		t.Cleanup(func() {
			os.RemoveAll(filepath.Join(can.dir, "files", name))
			os.Remove(path)
		})
	}
	assert.True(t, found, "no trash record for %s in %s", rel, can.dir)
}
