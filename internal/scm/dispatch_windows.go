//go:build windows

// pattern: Imperative Shell
package scm

import (
	"golang.org/x/sys/windows/svc"
)

// Runner is implemented by the supervisor: given a StatusPublisher and a
// shutdown channel, it runs the service to completion and returns the
// final exit code to report to the SCM.
type Runner interface {
	Run(pub StatusPublisher, shutdown <-chan struct{}) ExitCode
}

// RunWindows dispatches name to golang.org/x/sys/windows/svc.Run,
// constructing one Runner per SCM-initiated start and bridging its
// control requests and status publications exactly per spec §6:
// Interrogate echoes the current status, Stop and Shutdown post (once,
// non-blocking) to the shutdown channel, anything else is left
// unanswered so the OS reports it as not implemented.
func RunWindows(name string, factory func() Runner) error {
	return svc.Run(name, &dispatcher{factory: factory})
}

type dispatcher struct {
	factory func() Runner
}

func (d *dispatcher) Execute(args []string, requests <-chan svc.ChangeRequest, status chan<- svc.Status) (svcSpecificEC bool, exitCode uint32) {
	shutdown := make(chan struct{}, 1)
	pub := &windowsStatusPublisher{status: status}
	runner := d.factory()

	done := make(chan ExitCode, 1)
	go func() { done <- runner.Run(pub, shutdown) }()

	for {
		select {
		case req := <-requests:
			switch req.Cmd {
			case svc.Interrogate:
				status <- req.CurrentStatus
			case svc.Stop, svc.Shutdown:
				select {
				case shutdown <- struct{}{}:
				default:
				}
			}
			// Any other control is silently left unanswered; it is not
			// among the controls accepted by our published status, so
			// the SCM itself reports ERROR_CALL_NOT_IMPLEMENTED.

		case ec := <-done:
			if ec.IsServiceSpecific {
				return true, ec.ServiceSpecific
			}
			return false, ec.Win32ExitCode
		}
	}
}

// windowsStatusPublisher adapts StatusPublisher.Publish calls to sends on
// the svc.Status channel the OS dispatcher gave us.
type windowsStatusPublisher struct {
	status chan<- svc.Status
}

func (p *windowsStatusPublisher) Publish(state State, accepted Controls, exitCode ExitCode) error {
	var svcState svc.State
	switch state {
	case StateStopPending:
		svcState = svc.StopPending
	case StateStopped:
		svcState = svc.Stopped
	default:
		svcState = svc.Running
	}

	var accepts svc.Accepted
	if accepted&ControlStop != 0 {
		accepts |= svc.AcceptStop
	}
	if accepted&ControlShutdown != 0 {
		accepts |= svc.AcceptShutdown
	}

	st := svc.Status{State: svcState, Accepts: accepts}
	if exitCode.IsServiceSpecific {
		st.Win32ExitCode = exitCode.Win32ExitCode
		st.ServiceSpecificExitCode = exitCode.ServiceSpecific
	} else {
		st.Win32ExitCode = exitCode.Win32ExitCode
	}

	p.status <- st
	return nil
}
