// pattern: Imperative Shell
package launcher

import (
	"fmt"
	"io"
	"os"
	"os/exec"

	"svcrunner/internal/config"
	"svcrunner/internal/logging"
)

// LaunchFailed wraps an error from starting the child process (not from
// the child's own exit), the "Fatal" disposition of spec §7's "spawn
// itself fails" row.
type LaunchFailed struct {
	Err error
}

func (e *LaunchFailed) Error() string { return fmt.Sprintf("launcher: spawn failed: %v", e.Err) }
func (e *LaunchFailed) Unwrap() error { return e.Err }

// PriorityClassSetter applies a Win32 process priority class to a running
// process. Best-effort: a failure here never fails the launch (spec
// §4.B).
type PriorityClassSetter interface {
	SetPriorityClass(pid int, class uint32) error
}

// BuildCommand translates cfg into an *exec.Cmd, applying the quoting
// split, working-directory rule, environment construction order, and
// stdio routing rule of spec §4.B. It does not start the command.
func BuildCommand(cfg config.ServiceConfig) *exec.Cmd {
	args := config.SplitCommandLine(cfg.AppParameters)
	cmd := exec.Command(cfg.Application, args...)
	cmd.Dir = cfg.WorkingDirectory()
	cmd.Env = buildEnv(cfg)
	return cmd
}

// buildEnv implements spec §4.B's environment rule: AppEnvironment, when
// non-empty, replaces the inherited environment outright (SPEC_FULL §3
// expansion); otherwise the inherited environment has AppEnvironmentExtra
// appended, each entry applied in order so that later entries override
// earlier ones with the same name.
func buildEnv(cfg config.ServiceConfig) []string {
	if len(cfg.AppEnvironment) > 0 {
		return append([]string(nil), cfg.AppEnvironment...)
	}
	env := os.Environ()
	return append(env, cfg.AppEnvironmentExtra...)
}

// Launch starts the child described by cfg and, on success, applies
// cfg.AppPriority via setter (logging and ignoring any failure). Stdio is
// routed per spec §4.B: both streams are piped if either AppStdout or
// AppStderr is configured; otherwise both are discarded if AppNoConsole is
// set; otherwise both are inherited from svcrunner itself.
func Launch(cfg config.ServiceConfig, setter PriorityClassSetter, log *logging.ScopedLogger) (*exec.Cmd, StdioPipes, error) {
	cmd := BuildCommand(cfg)

	var pipes StdioPipes
	switch {
	case cfg.AppStdout != "" || cfg.AppStderr != "":
		stdout, err := cmd.StdoutPipe()
		if err != nil {
			return nil, StdioPipes{}, &LaunchFailed{Err: err}
		}
		stderr, err := cmd.StderrPipe()
		if err != nil {
			return nil, StdioPipes{}, &LaunchFailed{Err: err}
		}
		pipes = StdioPipes{Stdout: stdout, Stderr: stderr}
	case cfg.AppNoConsole:
		cmd.Stdout = nil
		cmd.Stderr = nil
	default:
		cmd.Stdout = os.Stdout
		cmd.Stderr = os.Stderr
	}

	log.Info("launching child", "application", cfg.Application, "args", cfg.AppParameters, "dir", cmd.Dir)

	if err := cmd.Start(); err != nil {
		return nil, StdioPipes{}, &LaunchFailed{Err: err}
	}

	if setter != nil {
		if err := setter.SetPriorityClass(cmd.Process.Pid, cfg.AppPriority.WindowsValue()); err != nil {
			log.Warn("set priority class failed", "pid", cmd.Process.Pid, "priority", cfg.AppPriority, "error", err)
		}
	}

	return cmd, pipes, nil
}

// StdioPipes carries the child's stdout/stderr pipes when piping was
// selected. Both fields are nil when stdio was inherited or discarded.
type StdioPipes struct {
	Stdout, Stderr io.ReadCloser
}
