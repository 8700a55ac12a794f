//go:build !windows && !darwin

package core

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"golang.org/x/sys/unix"
)

// homeTrashDir returns the freedesktop.org home trash
// ($XDG_DATA_HOME/Trash, default ~/.local/share/Trash).
func homeTrashDir() (string, error) {
	if data := os.Getenv("XDG_DATA_HOME"); data != "" {
		return filepath.Join(data, "Trash"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".local", "share", "Trash"), nil
}

// trashCan is one freedesktop.org trash directory. topdir is set for a
// per-volume trash; its info records hold paths relative to topdir.
type trashCan struct {
	dir    string
	topdir string
}

// prepare creates the can with its files/ and info/ subdirectories. The
// can itself must be a real directory, not a symlink.
func (c trashCan) prepare() error {
	if err := os.MkdirAll(c.dir, 0o700); err != nil {
		return err
	}
	fi, err := os.Lstat(c.dir)
	if err != nil {
		return err
	}
	if !fi.IsDir() {
		return fmt.Errorf("%s is not a directory", c.dir)
	}
	for _, sub := range []string{"files", "info"} {
		if err := os.MkdirAll(filepath.Join(c.dir, sub), 0o700); err != nil {
			return err
		}
	}
	return nil
}

// put reserves an info record, then renames abs into files/. The rename
// error is returned unchanged so callers can spot EXDEV.
func (c trashCan) put(abs string) error {
	filesDir := filepath.Join(c.dir, "files")
	infoDir := filepath.Join(c.dir, "info")

	recorded := abs
	if c.topdir != "" {
		rel, err := filepath.Rel(c.topdir, abs)
		if err != nil {
			return err
		}
		recorded = rel
	}

	name := uniqueTrashName(filesDir, infoDir, filepath.Base(abs))
	infoPath := filepath.Join(infoDir, name+".trashinfo")
	info := fmt.Sprintf("[Trash Info]\nPath=%s\nDeletionDate=%s\n",
		(&url.URL{Path: recorded}).EscapedPath(),
		time.Now().Format("2006-01-02T15:04:05"))

	f, err := os.OpenFile(infoPath, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o600)
	if err != nil {
		return fmt.Errorf("reserve trash entry: %w", err)
	}
	_, werr := f.WriteString(info)
	cerr := f.Close()
	if werr != nil || cerr != nil {
		_ = os.Remove(infoPath)
		return fmt.Errorf("write trash info: %w", errors.Join(werr, cerr))
	}

	if err := os.Rename(abs, filepath.Join(filesDir, name)); err != nil {
		_ = os.Remove(infoPath)
		return err
	}
	return nil
}

// mountTop returns the topmost directory above path that is still on
// path's filesystem.
func mountTop(path string) (string, error) {
	var st unix.Stat_t
	if err := unix.Lstat(path, &st); err != nil {
		return "", err
	}
	dev := st.Dev
	top := path
	for {
		parent := filepath.Dir(top)
		if parent == top {
			return top, nil
		}
		if err := unix.Stat(parent, &st); err != nil {
			return "", err
		}
		if st.Dev != dev {
			return top, nil
		}
		top = parent
	}
}

// volumeTrashIn picks the per-volume trash under top for uid:
// $top/.Trash/$uid when $top/.Trash is a sticky real directory, else
// $top/.Trash-$uid.
func volumeTrashIn(top string, uid int) (trashCan, error) {
	id := strconv.Itoa(uid)
	shared := filepath.Join(top, ".Trash")
	if fi, err := os.Lstat(shared); err == nil && fi.IsDir() && fi.Mode()&os.ModeSticky != 0 {
		c := trashCan{dir: filepath.Join(shared, id), topdir: top}
		if err := c.prepare(); err == nil {
			return c, nil
		}
	}
	c := trashCan{dir: filepath.Join(top, ".Trash-"+id), topdir: top}
	if err := c.prepare(); err != nil {
		return trashCan{}, err
	}
	return c, nil
}

// moveToTrash implements the freedesktop.org trash specification. Paths on
// the home trash's filesystem go to the home trash; anything else goes to
// the trash at the top of its own volume.
func moveToTrash(path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	if _, err := os.Lstat(abs); err != nil {
		return err
	}

	homeDir, err := homeTrashDir()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrTrashUnavailable, err)
	}
	home := trashCan{dir: homeDir}
	if err := home.prepare(); err != nil {
		return fmt.Errorf("%w: %v", ErrTrashUnavailable, err)
	}

	err = home.put(abs)
	if err == nil || !errors.Is(err, unix.EXDEV) {
		return err
	}

	top, err := mountTop(abs)
	if err != nil {
		return fmt.Errorf("%w: %s is on a different filesystem than %s: %v", ErrTrashUnavailable, abs, homeDir, err)
	}
	vol, err := volumeTrashIn(top, os.Getuid())
	if err != nil {
		return fmt.Errorf("%w: no usable trash on %s: %v", ErrTrashUnavailable, top, err)
	}
	if err := vol.put(abs); err != nil {
		if errors.Is(err, unix.EXDEV) {
			return fmt.Errorf("%w: %s is on a different filesystem than %s", ErrTrashUnavailable, abs, vol.dir)
		}
		return err
	}
	return nil
}
