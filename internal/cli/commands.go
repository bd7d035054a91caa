// pattern: Imperative Shell
package cli

import (
	"fmt"
	"os"
	"sort"

	flag "github.com/spf13/pflag"

	"svcrunner/internal/config"
	"svcrunner/internal/instlock"
)

// RegisterServiceCommands registers install/remove/start/stop/restart/
// status/list/cleanup, the thin CLI front end spec.md §1 places out of
// core scope (SPEC_FULL.md §4.I).
func RegisterServiceCommands(app *App) {
	app.AddCommand(installCommand())
	app.AddCommand(removeCommand())
	app.AddCommand(startCommand())
	app.AddCommand(stopCommand())
	app.AddCommand(restartCommand())
	app.AddCommand(statusCommand())
	app.AddCommand(listCommand())
	app.AddCommand(cleanupCommand())
}

func installCommand() *Command {
	return &Command{
		Name:    "install",
		Summary: "Install a new supervised service",
		Usage:   "Usage: svcrunner install <name> <application> [flags] (child arguments go in --app-parameters)",
		Run: func(args []string) error {
			if len(args) < 2 {
				fmt.Fprintf(os.Stderr, "Usage: svcrunner install <name> <application> [flags] (child arguments go in --app-parameters)\n")
				os.Exit(1)
			}
			name, application := args[0], args[1]
			rest := args[2:]

			fs := flag.NewFlagSet("install", flag.ContinueOnError)
			displayName := fs.String("display-name", name, "SCM display name")
			description := fs.String("description", "", "SCM description")
			appDirectory := fs.String("app-directory", "", "working directory (defaults to the application's own directory)")
			appParameters := fs.String("app-parameters", "", "quoted command-line arguments passed to the application")
			noConsole := fs.Bool("no-console", false, "launch with no console window and discard stdio")
			stdout := fs.String("stdout", "", "file to append the child's stdout to")
			stderr := fs.String("stderr", "", "file to append the child's stderr to")
			throttle := fs.Uint32("throttle", config.Defaults().AppThrottle, "minimum healthy uptime (ms) before a restart is not treated as a crash")
			restartDelay := fs.Uint32("restart-delay", config.Defaults().AppRestartDelay, "delay (ms) before restarting a healthy exit")
			exitDefault := fs.String("exit-default", "Restart", "Restart, Ignore, or Exit")
			startType := fs.String("start-type", "Manual", "Manual, Auto, or Disabled")
			if err := fs.Parse(rest); err != nil {
				os.Exit(1)
			}

			cfg := config.Defaults()
			cfg.Application = application
			cfg.AppDirectory = *appDirectory
			cfg.AppParameters = *appParameters
			cfg.AppNoConsole = *noConsole
			cfg.AppStdout = *stdout
			cfg.AppStderr = *stderr
			cfg.AppThrottle = *throttle
			cfg.AppRestartDelay = *restartDelay
			cfg.DisplayName = *displayName
			cfg.Description = *description

			action, err := parseExitAction(*exitDefault)
			if err != nil {
				fmt.Fprintf(os.Stderr, "svcrunner: %v\n", err)
				os.Exit(1)
			}
			cfg.AppExitDefault = action

			st, err := parseStartType(*startType)
			if err != nil {
				fmt.Fprintf(os.Stderr, "svcrunner: %v\n", err)
				os.Exit(1)
			}
			cfg.StartType = st

			if err := config.Save(defaultStore(), name, cfg); err != nil {
				fmt.Fprintf(os.Stderr, "svcrunner: save config: %v\n", err)
				os.Exit(1)
			}

			exePath, err := os.Executable()
			if err != nil {
				fmt.Fprintf(os.Stderr, "svcrunner: locate own executable: %v\n", err)
				os.Exit(1)
			}
			if err := NewServiceManager().Install(name, *displayName, exePath, []string{"run", name}, st); err != nil {
				fmt.Fprintf(os.Stderr, "svcrunner: install %q: %v\n", name, err)
				os.Exit(1)
			}

			fmt.Printf("installed %q\n", name)
			return nil
		},
	}
}

func removeCommand() *Command {
	return &Command{
		Name:    "remove",
		Summary: "Uninstall a service",
		Usage:   "Usage: svcrunner remove <name>",
		Run: func(args []string) error {
			name := requireOneArg(args, "remove", "<name>")
			if err := NewServiceManager().Remove(name); err != nil {
				fmt.Fprintf(os.Stderr, "svcrunner: remove %q: %v\n", name, err)
				os.Exit(1)
			}
			fmt.Printf("removed %q\n", name)
			return nil
		},
	}
}

func startCommand() *Command {
	return &Command{
		Name:    "start",
		Summary: "Start an installed service",
		Usage:   "Usage: svcrunner start <name>",
		Run: func(args []string) error {
			name := requireOneArg(args, "start", "<name>")
			if err := NewServiceManager().Start(name); err != nil {
				fmt.Fprintf(os.Stderr, "svcrunner: start %q: %v\n", name, err)
				os.Exit(1)
			}
			return nil
		},
	}
}

func stopCommand() *Command {
	return &Command{
		Name:    "stop",
		Summary: "Stop a running service",
		Usage:   "Usage: svcrunner stop <name>",
		Run: func(args []string) error {
			name := requireOneArg(args, "stop", "<name>")
			if err := NewServiceManager().Stop(name); err != nil {
				fmt.Fprintf(os.Stderr, "svcrunner: stop %q: %v\n", name, err)
				os.Exit(1)
			}
			return nil
		},
	}
}

func restartCommand() *Command {
	return &Command{
		Name:    "restart",
		Summary: "Stop then start a service",
		Usage:   "Usage: svcrunner restart <name>",
		Run: func(args []string) error {
			name := requireOneArg(args, "restart", "<name>")
			mgr := NewServiceManager()
			if err := mgr.Stop(name); err != nil {
				fmt.Fprintf(os.Stderr, "svcrunner: stop %q: %v\n", name, err)
				os.Exit(1)
			}
			if err := mgr.Start(name); err != nil {
				fmt.Fprintf(os.Stderr, "svcrunner: start %q: %v\n", name, err)
				os.Exit(1)
			}
			return nil
		},
	}
}

func statusCommand() *Command {
	return &Command{
		Name:    "status",
		Summary: "Print a service's current SCM state",
		Usage:   "Usage: svcrunner status <name>",
		Run: func(args []string) error {
			name := requireOneArg(args, "status", "<name>")
			state, err := NewServiceManager().Status(name)
			if err != nil {
				fmt.Fprintf(os.Stderr, "svcrunner: status %q: %v\n", name, err)
				os.Exit(1)
			}
			fmt.Println(state)
			return nil
		},
	}
}

func listCommand() *Command {
	return &Command{
		Name:    "list",
		Summary: "List every installed service",
		Usage:   "Usage: svcrunner list",
		Run: func(args []string) error {
			names, err := defaultStore().ListServices()
			if err != nil {
				fmt.Fprintf(os.Stderr, "svcrunner: list: %v\n", err)
				os.Exit(1)
			}
			sort.Strings(names)
			for _, name := range names {
				fmt.Println(name)
			}
			return nil
		},
	}
}

func cleanupCommand() *Command {
	return &Command{
		Name:    "cleanup",
		Summary: "Remove a stale instance lock left behind by a crashed run",
		Usage:   "Usage: svcrunner cleanup <name>",
		Run: func(args []string) error {
			name := requireOneArg(args, "cleanup", "<name>")
			if err := instlock.RemoveStale(DataDir(), name); err != nil {
				fmt.Fprintf(os.Stderr, "svcrunner: cleanup %q: %v\n", name, err)
				os.Exit(1)
			}
			return nil
		},
	}
}

func requireOneArg(args []string, cmd, usage string) string {
	if len(args) < 1 {
		fmt.Fprintf(os.Stderr, "Usage: svcrunner %s %s\n", cmd, usage)
		os.Exit(1)
	}
	return args[0]
}

func parseExitAction(s string) (config.ExitAction, error) {
	switch s {
	case "Restart":
		return config.ExitRestart, nil
	case "Ignore":
		return config.ExitIgnore, nil
	case "Exit":
		return config.ExitExit, nil
	default:
		return 0, fmt.Errorf("unknown exit-default %q (want Restart, Ignore, or Exit)", s)
	}
}

func parseStartType(s string) (config.StartType, error) {
	switch s {
	case "Manual":
		return config.StartManual, nil
	case "Auto":
		return config.StartAuto, nil
	case "Disabled":
		return config.StartDisabled, nil
	default:
		return 0, fmt.Errorf("unknown start-type %q (want Manual, Auto, or Disabled)", s)
	}
}
