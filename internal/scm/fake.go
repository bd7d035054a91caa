package scm

import "sync"

// PublishedStatus records one call to Fake.Publish, for assertions in
// supervisor tests.
type PublishedStatus struct {
	State    State
	Accepted Controls
	ExitCode ExitCode
}

// Fake is an in-memory StatusPublisher plus a manually-triggerable
// shutdown channel, used by every supervisor test and by non-Windows
// builds of the CLI's run subcommand.
type Fake struct {
	mu       sync.Mutex
	history  []PublishedStatus
	shutdown chan struct{}
}

// NewFake returns a ready-to-use Fake.
func NewFake() *Fake {
	return &Fake{shutdown: make(chan struct{}, 1)}
}

// Publish implements StatusPublisher.
func (f *Fake) Publish(state State, accepted Controls, exitCode ExitCode) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.history = append(f.history, PublishedStatus{State: state, Accepted: accepted, ExitCode: exitCode})
	return nil
}

// History returns every status published so far, in order.
func (f *Fake) History() []PublishedStatus {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]PublishedStatus, len(f.history))
	copy(out, f.history)
	return out
}

// Last returns the most recently published status, or the zero value if
// none has been published.
func (f *Fake) Last() (PublishedStatus, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.history) == 0 {
		return PublishedStatus{}, false
	}
	return f.history[len(f.history)-1], true
}

// Shutdown returns the channel the supervisor receives its shutdown
// signal on.
func (f *Fake) Shutdown() <-chan struct{} {
	return f.shutdown
}

// TriggerShutdown posts the single, level-triggered shutdown signal
// (spec §5), matching the non-blocking post a real SCM control handler
// performs.
func (f *Fake) TriggerShutdown() {
	select {
	case f.shutdown <- struct{}{}:
	default:
	}
}
