//go:build windows

// pattern: Imperative Shell
package launcher

import (
	"golang.org/x/sys/windows"
)

// WindowsPriorityClassSetter sets the real Win32 priority class of a
// running process.
type WindowsPriorityClassSetter struct{}

// SetPriorityClass implements PriorityClassSetter.
func (WindowsPriorityClassSetter) SetPriorityClass(pid int, class uint32) error {
	h, err := windows.OpenProcess(windows.PROCESS_SET_INFORMATION, false, uint32(pid))
	if err != nil {
		return err
	}
	defer windows.CloseHandle(h)
	return windows.SetPriorityClass(h, class)
}

// NewPriorityClassSetter returns the platform's real setter.
func NewPriorityClassSetter() PriorityClassSetter { return WindowsPriorityClassSetter{} }
