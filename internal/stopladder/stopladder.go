// pattern: Imperative Shell (Controller is the seam)
package stopladder

import (
	"time"

	"svcrunner/internal/config"
	"svcrunner/internal/logging"
)

// pollInterval is the fixed small sleep used by every stage's polled wait
// (spec §4.D: "default 50 ms").
const pollInterval = 50 * time.Millisecond

// Controller isolates the OS-specific half of the stop ladder — console
// attach/interrupt, window enumeration/close, process termination — from
// its orchestration logic, so the skip-mask gating, per-stage timeout, and
// early-exit-on-death behaviour are testable against a fake on every
// platform.
type Controller interface {
	SendConsoleBreak(pid int) error
	CloseWindows(pid int) error
	Terminate(pid int) error
	Kill(pid int) error
	Exited(pid int) (bool, error)
}

// Timeouts carries the three per-stage wait budgets, read from
// ServiceConfig's AppStopMethod* fields.
type Timeouts struct {
	Console, Window, Threads time.Duration
}

// TimeoutsFromConfig converts the millisecond fields of cfg into Timeouts.
func TimeoutsFromConfig(cfg config.ServiceConfig) Timeouts {
	return Timeouts{
		Console: time.Duration(cfg.AppStopMethodConsole) * time.Millisecond,
		Window:  time.Duration(cfg.AppStopMethodWindow) * time.Millisecond,
		Threads: time.Duration(cfg.AppStopMethodThreads) * time.Millisecond,
	}
}

// Run executes the four-stage graduated shutdown against pid, honouring
// skipMask (spec §4.D bit layout: 1=console, 2=window, 4=terminate,
// 8=kill) and noConsole (the console stage is also skipped when the child
// was launched with no console, since there is nothing to attach to). It
// returns once the child has exited or every unskipped stage has run; the
// caller reaps the child unconditionally afterward. Run is not itself
// cancellable (spec §5): once begun it runs to completion.
func Run(ctrl Controller, pid int, skipMask uint32, noConsole bool, t Timeouts, log *logging.ScopedLogger) {
	if exited(ctrl, pid, log) {
		return
	}

	if skipMask&config.SkipConsole == 0 && !noConsole {
		log.Info("stop ladder: console signal", "pid", pid)
		if err := ctrl.SendConsoleBreak(pid); err != nil {
			log.Warn("stop ladder: console signal failed", "pid", pid, "error", err)
		}
		if pollUntilExit(ctrl, pid, t.Console, log) {
			return
		}
	}

	if skipMask&config.SkipWindow == 0 {
		log.Info("stop ladder: close windows", "pid", pid)
		if err := ctrl.CloseWindows(pid); err != nil {
			log.Warn("stop ladder: close windows failed", "pid", pid, "error", err)
		}
		if pollUntilExit(ctrl, pid, t.Window, log) {
			return
		}
	}

	if skipMask&config.SkipTerminate == 0 {
		log.Info("stop ladder: terminate", "pid", pid)
		if err := ctrl.Terminate(pid); err != nil {
			log.Warn("stop ladder: terminate failed", "pid", pid, "error", err)
		}
		if pollUntilExit(ctrl, pid, t.Threads, log) {
			return
		}
	}

	if skipMask&config.SkipKill == 0 {
		log.Info("stop ladder: kill", "pid", pid)
		if err := ctrl.Kill(pid); err != nil {
			log.Warn("stop ladder: kill failed", "pid", pid, "error", err)
		}
	}
}

// pollUntilExit polls Exited every pollInterval up to budget, returning
// true the moment the child has exited.
func pollUntilExit(ctrl Controller, pid int, budget time.Duration, log *logging.ScopedLogger) bool {
	deadline := time.Now().Add(budget)
	for {
		if exited(ctrl, pid, log) {
			return true
		}
		if time.Now().After(deadline) {
			return false
		}
		time.Sleep(pollInterval)
	}
}

func exited(ctrl Controller, pid int, log *logging.ScopedLogger) bool {
	done, err := ctrl.Exited(pid)
	if err != nil {
		log.Warn("stop ladder: exit probe failed", "error", err)
		return false
	}
	return done
}
