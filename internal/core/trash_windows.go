//go:build windows

package core

import (
	"fmt"
	"os"
	"path/filepath"
	"unsafe"

	"golang.org/x/sys/windows"
)

// ─── Shell32 Syscalls ────────────────────────────────────────────────────────

var (
	modShell32           = windows.NewLazySystemDLL("shell32.dll")
	procSHFileOperationW = modShell32.NewProc("SHFileOperationW")
)

const (
	foDelete          = 0x0003
	fofSilent         = 0x0004
	fofNoConfirmation = 0x0010
	fofAllowUndo      = 0x0040
	fofNoErrorUI      = 0x0400
)

// shFileOpStruct mirrors the Windows SHFILEOPSTRUCTW struct.
// Go's natural alignment matches the C layout on 64-bit Windows.
type shFileOpStruct struct {
	hwnd                  uintptr
	wFunc                 uint32
	pFrom                 *uint16
	pTo                   *uint16
	fFlags                uint16
	fAnyOperationsAborted int32
	hNameMappings         uintptr
	lpszProgressTitle     *uint16
}

// moveToTrash sends path to the Recycle Bin with SHFileOperationW and
// FOF_ALLOWUNDO.
func moveToTrash(path string) error {
	if err := procSHFileOperationW.Find(); err != nil {
		return fmt.Errorf("%w: %v", ErrTrashUnavailable, err)
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	if _, err := os.Lstat(abs); err != nil {
		return err
	}

	// pFrom is a list of NUL-terminated strings ending with an extra NUL.
	from, err := windows.UTF16FromString(abs)
	if err != nil {
		return err
	}
	from = append(from, 0)

	op := shFileOpStruct{
		wFunc:  foDelete,
		pFrom:  &from[0],
		fFlags: fofAllowUndo | fofNoConfirmation | fofSilent | fofNoErrorUI,
	}

	ret, _, _ := procSHFileOperationW.Call(uintptr(unsafe.Pointer(&op)))
	if ret != 0 {
		return fmt.Errorf("SHFileOperationW failed: code 0x%x", uint32(ret))
	}
	if op.fAnyOperationsAborted != 0 {
		return fmt.Errorf("SHFileOperationW: operation aborted")
	}
	return nil
}
