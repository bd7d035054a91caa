//go:build windows

// pattern: Imperative Shell
package stopladder

import (
	"fmt"
	"unsafe"

	"golang.org/x/sys/windows"
)

// WindowsController mirrors the nssm-style stop_child_process routine
// field for field: console attach/interrupt/detach, window enumeration
// and WM_CLOSE, and OpenProcess/TerminateProcess for the terminate and
// kill stages. It is stateless and safe to reuse across iterations of the
// supervisor loop, since every method takes the pid it acts on.
type WindowsController struct{}

// NewController returns the platform's real Controller.
func NewController() Controller { return WindowsController{} }

// SendConsoleBreak implements Controller.
func (WindowsController) SendConsoleBreak(pid int) error {
	if err := windows.AttachConsole(uint32(pid)); err != nil {
		// attach failed; attempt the interrupt unattached per spec §4.D
		return windows.GenerateConsoleCtrlEvent(windows.CTRL_BREAK_EVENT, uint32(pid))
	}
	defer windows.FreeConsole()
	return windows.GenerateConsoleCtrlEvent(windows.CTRL_BREAK_EVENT, uint32(pid))
}

// CloseWindows implements Controller.
func (WindowsController) CloseWindows(pid int) error {
	return closeTopLevelWindows(uint32(pid))
}

// Terminate implements Controller.
func (WindowsController) Terminate(pid int) error {
	return terminateProcess(pid, 1)
}

// Kill implements Controller.
func (WindowsController) Kill(pid int) error {
	return terminateProcess(pid, 1)
}

// Exited implements Controller by probing the process handle's signalled
// state with a zero-length wait.
func (WindowsController) Exited(pid int) (bool, error) {
	h, err := windows.OpenProcess(windows.PROCESS_QUERY_LIMITED_INFORMATION|windows.SYNCHRONIZE, false, uint32(pid))
	if err != nil {
		if err == windows.ERROR_INVALID_PARAMETER {
			return true, nil
		}
		return false, err
	}
	defer windows.CloseHandle(h)

	ev, err := windows.WaitForSingleObject(h, 0)
	switch ev {
	case windows.WAIT_OBJECT_0:
		return true, nil
	case uint32(windows.WAIT_TIMEOUT):
		return false, nil
	default:
		return false, err
	}
}

func terminateProcess(pid int, exitCode uint32) error {
	h, err := windows.OpenProcess(windows.PROCESS_TERMINATE, false, uint32(pid))
	if err != nil {
		return err
	}
	defer windows.CloseHandle(h)
	return windows.TerminateProcess(h, exitCode)
}

const wmClose = 0x0010

var (
	user32                       = windows.NewLazySystemDLL("user32.dll")
	procEnumWindows              = user32.NewProc("EnumWindows")
	procPostMessageW             = user32.NewProc("PostMessageW")
	procGetWindowThreadProcessId = user32.NewProc("GetWindowThreadProcessId")
)

func closeTopLevelWindows(pid uint32) error {
	cb := windows.NewCallback(func(hwnd windows.Handle, lparam uintptr) uintptr {
		var windowPid uint32
		procGetWindowThreadProcessId.Call(uintptr(hwnd), uintptr(unsafe.Pointer(&windowPid)))
		if windowPid == pid {
			procPostMessageW.Call(uintptr(hwnd), uintptr(wmClose), 0, 0)
		}
		return 1 // continue enumeration
	})

	r, _, callErr := procEnumWindows.Call(cb, 0)
	if r == 0 {
		return fmt.Errorf("EnumWindows: %w", callErr)
	}
	return nil
}
