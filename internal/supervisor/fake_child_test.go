package supervisor

import (
	"fmt"
	"io"
	"sync"
	"time"

	"svcrunner/internal/config"
)

// fakeChild is a deterministic Child for supervisor tests: it "runs" for
// a configured duration (or until forced to stop) and then reports a
// configured exit code, without spawning any real OS process.
type fakeChild struct {
	pid      int
	runFor   time.Duration
	exitCode int

	mu      sync.Mutex
	stopped bool
	stopCh  chan struct{}
}

func newFakeChild(pid int, runFor time.Duration, exitCode int) *fakeChild {
	return &fakeChild{pid: pid, runFor: runFor, exitCode: exitCode, stopCh: make(chan struct{})}
}

func (c *fakeChild) Pid() int          { return c.pid }
func (c *fakeChild) Stdout() io.Reader { return nil }
func (c *fakeChild) Stderr() io.Reader { return nil }

func (c *fakeChild) Wait() int {
	timer := time.NewTimer(c.runFor)
	defer timer.Stop()
	select {
	case <-timer.C:
		return c.exitCode
	case <-c.stopCh:
		return terminatedExitCode
	}
}

// stop lets a fakeStopController simulate the ladder actually ending the
// child, mirroring what a real Terminate/Kill call does to a stubborn
// child: Wait returns immediately with no exit code.
func (c *fakeChild) stop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.stopped {
		c.stopped = true
		close(c.stopCh)
	}
}

func (c *fakeChild) hasStopped() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stopped
}

// fakeLauncher hands out a fixed sequence of fakeChild iterations, one
// per call to Launch, so a test can script an exact sequence of exit
// codes and uptimes (the end-to-end scenarios of spec §8). Each handed-out
// child is registered with controller, if set, so the stop ladder can find
// it by pid.
type fakeLauncher struct {
	mu         sync.Mutex
	children   []*fakeChild
	i          int
	controller *fakeStopController
}

func newFakeLauncher(children ...*fakeChild) *fakeLauncher {
	return &fakeLauncher{children: children}
}

// Launch implements ChildLauncher.
func (l *fakeLauncher) Launch(_ config.ServiceConfig) (Child, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.i >= len(l.children) {
		return nil, fmt.Errorf("fakeLauncher: exhausted after %d launches", l.i)
	}
	c := l.children[l.i]
	l.i++
	if l.controller != nil {
		l.controller.register(c)
	}
	return c, nil
}

// launchCount reports how many children have been handed out so far.
func (l *fakeLauncher) launchCount() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.i
}

// fakeStopController implements stopladder.Controller against a map of
// pid -> *fakeChild, so the stop ladder's stages actually end the
// simulated child instead of doing nothing. killsAt names the one stage
// ("console", "window", "terminate", or "kill") at which the child
// actually dies, simulating a child that ignores every earlier stage.
type fakeStopController struct {
	mu      sync.Mutex
	byPID   map[int]*fakeChild
	Calls   []string
	killsAt string
}

func newFakeStopController(killsAt string) *fakeStopController {
	return &fakeStopController{byPID: map[int]*fakeChild{}, killsAt: killsAt}
}

func (f *fakeStopController) register(c *fakeChild) {
	f.mu.Lock()
	f.byPID[c.pid] = c
	f.mu.Unlock()
}

func (f *fakeStopController) child(pid int) *fakeChild {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.byPID[pid]
}

func (f *fakeStopController) stage(name string, pid int) {
	f.mu.Lock()
	f.Calls = append(f.Calls, name)
	f.mu.Unlock()
	if name == f.killsAt {
		if c := f.child(pid); c != nil {
			c.stop()
		}
	}
}

func (f *fakeStopController) SendConsoleBreak(pid int) error {
	f.stage("console", pid)
	return nil
}

func (f *fakeStopController) CloseWindows(pid int) error {
	f.stage("window", pid)
	return nil
}

func (f *fakeStopController) Terminate(pid int) error {
	f.stage("terminate", pid)
	return nil
}

func (f *fakeStopController) Kill(pid int) error {
	f.stage("kill", pid)
	return nil
}

func (f *fakeStopController) Exited(pid int) (bool, error) {
	c := f.child(pid)
	if c == nil {
		return false, nil
	}
	return c.hasStopped(), nil
}
