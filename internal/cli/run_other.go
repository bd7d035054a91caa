//go:build !windows

// pattern: Imperative Shell
package cli

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"svcrunner/internal/scm"
)

// RegisterRunCommand registers the `run` command. There is no SCM outside
// Windows, so this runs the supervisor in the foreground instead,
// translating SIGINT/SIGTERM into the same single shutdown signal a real
// SCM control handler would post, and streaming log entries to stdout via
// the log manager's channel sink — the foreground-console repurposing of
// the teacher's channel-sink machinery.
func RegisterRunCommand(app *App) {
	app.AddCommand(&Command{
		Name:    "run",
		Summary: "Run a service in the foreground (SCM not available on this platform)",
		Usage:   "Usage: svcrunner run <name>",
		Run: func(args []string) error {
			if len(args) < 1 {
				fmt.Fprintf(os.Stderr, "Usage: svcrunner run <name>\n")
				os.Exit(1)
			}
			name := args[0]

			rt, err := prepareRuntime(name)
			if err != nil {
				fmt.Fprintf(os.Stderr, "svcrunner: run %q: %v\n", name, err)
				os.Exit(1)
			}
			defer rt.release()

			pub := scm.NewFake()
			streamLogsToConsole(rt)

			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
			go func() {
				<-sigCh
				pub.TriggerShutdown()
			}()

			code := rt.sup.Run(pub, pub.Shutdown())
			os.Exit(runResult(code))
			return nil
		},
	})
}

// streamLogsToConsole drains the log manager's channel sink to stdout for
// the lifetime of the process, so `svcrunner run` run directly from a
// terminal behaves like a normal foreground program instead of writing
// only to its log file.
func streamLogsToConsole(rt *runtime) {
	go func() {
		for entry := range rt.logMgr.Entries() {
			fmt.Println(entry.String())
		}
	}()
}
