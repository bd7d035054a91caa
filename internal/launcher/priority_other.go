//go:build !windows

// pattern: Imperative Shell
package launcher

import "svcrunner/internal/logging"

// NoopPriorityClassSetter logs that priority classes are a Windows-only
// concept and otherwise does nothing.
type NoopPriorityClassSetter struct {
	Log *logging.ScopedLogger
}

// SetPriorityClass implements PriorityClassSetter.
func (s NoopPriorityClassSetter) SetPriorityClass(pid int, class uint32) error {
	if s.Log != nil {
		s.Log.Debug("priority class not supported on this platform", "pid", pid, "class", class)
	}
	return nil
}

// NewPriorityClassSetter returns the platform's fallback setter.
func NewPriorityClassSetter() PriorityClassSetter { return NoopPriorityClassSetter{} }
