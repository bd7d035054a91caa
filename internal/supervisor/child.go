// pattern: Imperative Shell
package supervisor

import (
	"errors"
	"io"
	"os/exec"

	"svcrunner/internal/config"
	"svcrunner/internal/launcher"
	"svcrunner/internal/logging"
)

// Child abstracts one running instance of the user program, letting the
// supervisor's state machine be tested against a fake without spawning a
// real process.
type Child interface {
	Pid() int
	Stdout() io.Reader // nil if stdio was not piped
	Stderr() io.Reader
	// Wait blocks until the process has exited and returns its exit
	// code, or terminatedExitCode if it left no code (killed by signal,
	// or any other Wait error).
	Wait() int
}

// ChildLauncher spawns one Child per supervision-loop iteration.
type ChildLauncher interface {
	Launch(cfg config.ServiceConfig) (Child, error)
}

// RealLauncher is the production ChildLauncher, backed by
// internal/launcher.
type RealLauncher struct {
	Setter launcher.PriorityClassSetter
	Log    *logging.ScopedLogger
}

// Launch implements ChildLauncher.
func (l RealLauncher) Launch(cfg config.ServiceConfig) (Child, error) {
	cmd, pipes, err := launcher.Launch(cfg, l.Setter, l.Log)
	if err != nil {
		return nil, err
	}
	return &cmdChild{cmd: cmd, pipes: pipes}, nil
}

type cmdChild struct {
	cmd   *exec.Cmd
	pipes launcher.StdioPipes
}

func (c *cmdChild) Pid() int         { return c.cmd.Process.Pid }
func (c *cmdChild) Stdout() io.Reader { return readerOrNil(c.pipes.Stdout) }
func (c *cmdChild) Stderr() io.Reader { return readerOrNil(c.pipes.Stderr) }

func (c *cmdChild) Wait() int {
	err := c.cmd.Wait()
	if err == nil {
		return 0
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		if code := exitErr.ExitCode(); code >= 0 {
			return code
		}
	}
	return terminatedExitCode
}

func readerOrNil(r io.ReadCloser) io.Reader {
	if r == nil {
		return nil
	}
	return r
}
