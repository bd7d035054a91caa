//go:build windows

// pattern: Imperative Shell
package cli

import (
	"fmt"
	"os"

	"svcrunner/internal/scm"
)

// RegisterRunCommand registers the hidden `run` command that the SCM
// actually launches (`svcrunner run <name>` is the binary path + args an
// `install` call hands to CreateService). It is the one command spec.md
// itself designs; every other command is CLI-only scaffolding around it.
func RegisterRunCommand(app *App) {
	app.AddCommand(&Command{
		Name:    "run",
		Summary: "Run a service under SCM supervision (invoked by the SCM, not interactively)",
		Usage:   "Usage: svcrunner run <name>",
		Run: func(args []string) error {
			if len(args) < 1 {
				fmt.Fprintf(os.Stderr, "Usage: svcrunner run <name>\n")
				os.Exit(1)
			}
			name := args[0]

			err := scm.RunWindows(name, func() scm.Runner {
				rt, err := prepareRuntime(name)
				if err != nil {
					return failedRuntime{err: err}
				}
				return releasingRunner{rt: rt}
			})
			if err != nil {
				fmt.Fprintf(os.Stderr, "svcrunner: run %q: %v\n", name, err)
				os.Exit(1)
			}
			return nil
		},
	})
}

// releasingRunner adapts *runtime to scm.Runner, releasing its resources
// once the supervisor returns.
type releasingRunner struct {
	rt *runtime
}

func (r releasingRunner) Run(pub scm.StatusPublisher, shutdown <-chan struct{}) scm.ExitCode {
	defer r.rt.release()
	return r.rt.sup.Run(pub, shutdown)
}

// failedRuntime reports a config/lock/log setup failure as a fatal
// service-specific exit without ever publishing Running, matching spec
// §7's ConfigAbsent/LockHeld dispositions.
type failedRuntime struct {
	err error
}

func (f failedRuntime) Run(pub scm.StatusPublisher, shutdown <-chan struct{}) scm.ExitCode {
	code := scm.ServiceSpecific(1)
	_ = pub.Publish(scm.StateStopped, scm.ControlNone, code)
	return code
}
