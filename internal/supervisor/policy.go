// pattern: Functional Core
package supervisor

import (
	"time"

	"svcrunner/internal/config"
	"svcrunner/internal/scm"
)

// terminatedExitCode marks a child that was killed or otherwise left
// without a reported exit code (spec §4.E "Terminated (no exit code)
// case"), distinct from any real exit code including 0.
const terminatedExitCode = -1

// Decision is the outcome of applying spec §4.E's restart decision and
// throttle rule to one child's exit.
type Decision struct {
	Restart  bool
	Delay    time.Duration
	ExitCode scm.ExitCode // meaningful only when !Restart
}

// Decide applies the restart decision and throttle rule of spec §4.E to
// one child exit, returning the decision and the SupervisorState updated
// per the throttle rule (P1, P2, P3).
func Decide(cfg config.ServiceConfig, st SupervisorState, exitCode int, uptime time.Duration) (Decision, SupervisorState) {
	if exitCode == terminatedExitCode {
		// "Terminated (no exit code) case: always restart with delay =
		// app_throttle ms." The throttle rule's consecutive_failures
		// bookkeeping is defined only for normal (coded) exits; a
		// terminated child leaves it unchanged.
		return Decision{Restart: true, Delay: time.Duration(cfg.AppThrottle) * time.Millisecond}, st
	}

	switch cfg.AppExitDefault {
	case config.ExitIgnore, config.ExitExit:
		var ec scm.ExitCode
		if exitCode == 0 {
			ec = scm.NoError
		} else {
			ec = scm.ServiceSpecific(uint32(exitCode))
		}
		return Decision{Restart: false, ExitCode: ec}, st
	default: // config.ExitRestart
		healthy := uptime >= time.Duration(cfg.AppThrottle)*time.Millisecond
		if healthy {
			st.ConsecutiveFailures = 0
			return Decision{Restart: true, Delay: time.Duration(cfg.AppRestartDelay) * time.Millisecond}, st
		}
		st.ConsecutiveFailures++
		return Decision{Restart: true, Delay: backoffDelay(st.ConsecutiveFailures)}, st
	}
}

// backoffDelay implements P3: delay = min(2^min(k,8) * 1000, 256000) ms.
func backoffDelay(consecutiveFailures int) time.Duration {
	k := consecutiveFailures
	if k > 8 {
		k = 8
	}
	ms := int64(1) << uint(k) * 1000
	if ms > 256000 {
		ms = 256000
	}
	return time.Duration(ms) * time.Millisecond
}
