// pattern: Imperative Shell (Supervisor is the outer state machine)
package supervisor

import (
	"sync"
	"time"

	"svcrunner/internal/config"
	"svcrunner/internal/logging"
	"svcrunner/internal/scm"
	"svcrunner/internal/stopladder"
	"svcrunner/internal/tailer"
)

// monitorWake bounds how long the Monitoring state's concurrent wait can
// go without waking, per spec §5 ("a bounded wake (default 1 s) so status
// publication and bookkeeping remain responsive"). No periodic action is
// taken on this tick in the current design; it exists so the select loop
// is never blocked indefinitely without an observable event.
const monitorWake = 1 * time.Second

// backoffWakeCeiling bounds the Backoff state's wait so that a shutdown
// signal interrupts backoff promptly (spec §5: "clamped to a small
// ceiling (e.g., 100 ms)").
const backoffWakeCeiling = 100 * time.Millisecond

// Supervisor is the central state machine of spec §4.E. It implements
// scm.Runner so it can be dispatched directly by scm.RunWindows.
type Supervisor struct {
	Config         config.ServiceConfig
	Launcher       ChildLauncher
	StopController stopladder.Controller
	Log            *logging.ScopedLogger
}

// Run executes the full supervision loop for one SCM invocation. Config
// load is assumed to have already happened (the caller passes a loaded
// Config), so Run begins at Initializing → Monitoring and returns only
// once the service has fully stopped. It implements scm.Runner.
func (s *Supervisor) Run(pub scm.StatusPublisher, shutdown <-chan struct{}) scm.ExitCode {
	st := SupervisorState{}
	publish(pub, scm.StateRunning, scm.ControlStop|scm.ControlShutdown, scm.ExitCode{}, s.Log)

	ph := phaseMonitoring
	var finalExitCode scm.ExitCode

	for ph != phaseStopped {
		switch ph {
		case phaseMonitoring:
			exit, shuttingDown, fatalErr := s.monitorOnce(pub, shutdown)
			if fatalErr != nil {
				s.Log.Error("child probe failed", "error", fatalErr)
				finalExitCode = scm.ServiceSpecific(1)
				ph = phaseStopped
				continue
			}
			if shuttingDown {
				ph = phaseStopping
				continue
			}

			decision, newSt := Decide(s.Config, st, exit.exitCode, exit.uptime)
			st = newSt
			if !decision.Restart {
				finalExitCode = decision.ExitCode
				ph = phaseStopped
				continue
			}
			if decision.Delay <= 0 {
				continue // restart immediately on the next loop turn
			}
			st.RestartAfter = deadlineAfter(decision.Delay)
			ph = phaseBackoff

		case phaseBackoff:
			if s.waitBackoff(*st.RestartAfter, shutdown) {
				publish(pub, scm.StateStopPending, scm.ControlNone, scm.ExitCode{}, s.Log)
				ph = phaseStopping
				continue
			}
			ph = phaseMonitoring

		case phaseStopping:
			// Reached either with the child already stopped by
			// monitorOnce's ladder, or with no child alive at all
			// (shutdown observed during Backoff). Spec §7:
			// ShutdownRequested is a normal termination, NO_ERROR.
			finalExitCode = scm.NoError
			ph = phaseStopped
		}
	}

	publish(pub, scm.StateStopped, scm.ControlNone, finalExitCode, s.Log)
	return finalExitCode
}

type childExit struct {
	exitCode int
	uptime   time.Duration
}

// monitorOnce spawns one child and blocks until it exits or a shutdown is
// observed, running the stop ladder and reaping the child in the latter
// case. fatalErr is non-nil only for the Fatal dispositions of spec §7
// (LaunchFailed, ProcessProbeFailed); shuttingDown is true only when the
// shutdown signal ended the iteration, in which case exit is meaningless.
//
// A shutdown already pending is checked before Launch so a signal that
// arrives during Backoff, or a buffered signal not yet observed by an
// immediate restart, never causes a new child to be spawned. StopPending
// is published as soon as the shutdown is observed, before the stop
// ladder runs, so the SCM sees an acknowledged Stop control for the whole
// time the ladder and reap are in progress.
func (s *Supervisor) monitorOnce(pub scm.StatusPublisher, shutdown <-chan struct{}) (exit childExit, shuttingDown bool, fatalErr error) {
	select {
	case <-shutdown:
		publish(pub, scm.StateStopPending, scm.ControlNone, scm.ExitCode{}, s.Log)
		return childExit{}, true, nil
	default:
	}

	child, err := s.Launcher.Launch(s.Config)
	if err != nil {
		return childExit{}, false, err
	}

	launchedAt := now()

	var wg sync.WaitGroup
	stdoutTailer, stderrTailer := s.startTailers(&wg, child)

	exitCh := make(chan int, 1)
	go func() { exitCh <- child.Wait() }()

	ticker := time.NewTicker(monitorWake)
	defer ticker.Stop()

	for {
		select {
		case code := <-exitCh:
			wg.Wait()
			closeTailers(stdoutTailer, stderrTailer)
			return childExit{exitCode: code, uptime: since(launchedAt)}, false, nil

		case <-shutdown:
			publish(pub, scm.StateStopPending, scm.ControlNone, scm.ExitCode{}, s.Log)
			stopladder.Run(
				s.StopController,
				child.Pid(),
				s.Config.AppStopMethodSkip,
				s.Config.AppNoConsole,
				stopladder.TimeoutsFromConfig(s.Config),
				s.Log,
			)
			<-exitCh // reap unconditionally; with the kill stage skipped this waits for the child's own exit
			wg.Wait()
			closeTailers(stdoutTailer, stderrTailer)
			return childExit{}, true, nil

		case <-ticker.C:
			// Bounded wake only; no periodic action required.
		}
	}
}

func (s *Supervisor) startTailers(wg *sync.WaitGroup, child Child) (*tailer.Tailer, *tailer.Tailer) {
	stdoutR, stderrR := child.Stdout(), child.Stderr()

	var stdoutT, stderrT *tailer.Tailer
	if stdoutR != nil {
		stdoutT = s.openTailer(tailer.Stdout, s.Config.AppStdout)
	}
	if stderrR != nil {
		stderrT = s.openTailer(tailer.Stderr, s.Config.AppStderr)
	}

	tailer.RunAll(wg, stdoutT, stderrT, stdoutR, stderrR)
	return stdoutT, stderrT
}

func (s *Supervisor) openTailer(stream tailer.Stream, path string) *tailer.Tailer {
	t, err := tailer.New(stream, path, s.Log)
	if err != nil {
		s.Log.Warn("open tail file failed, tailing to log only", "path", path, "error", err)
		t, _ = tailer.New(stream, "", s.Log)
	}
	return t
}

func closeTailers(ts ...*tailer.Tailer) {
	for _, t := range ts {
		if t != nil {
			_ = t.Close()
		}
	}
}

// waitBackoff waits out the remaining Backoff delay, clamped to
// backoffWakeCeiling per wake, and returns true if a shutdown was
// observed before the deadline.
func (s *Supervisor) waitBackoff(deadline time.Time, shutdown <-chan struct{}) bool {
	for {
		remaining := time.Until(deadline)
		if remaining <= 0 {
			return false
		}
		wake := remaining
		if wake > backoffWakeCeiling {
			wake = backoffWakeCeiling
		}
		select {
		case <-shutdown:
			return true
		case <-time.After(wake):
		}
	}
}

func publish(pub scm.StatusPublisher, state scm.State, accepted scm.Controls, exitCode scm.ExitCode, log *logging.ScopedLogger) {
	if err := pub.Publish(state, accepted, exitCode); err != nil {
		log.Warn("status publish failed", "state", state, "error", err)
	}
}

func deadlineAfter(d time.Duration) *time.Time {
	t := now().Add(d)
	return &t
}

// now and since indirect time.Now/time.Since so a future fake-clock test
// harness has a single seam; production always uses the real clock.
func now() time.Time                  { return time.Now() }
func since(t time.Time) time.Duration { return time.Since(t) }
