// pattern: Imperative Shell
package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/fsnotify/fsnotify"
	flag "github.com/spf13/pflag"

	"svcrunner/internal/config"
)

// RegisterLogsCommand registers `svcrunner logs <name> [-f] [--stderr]`,
// which tails the plain append-only file named by AppStdout/AppStderr
// (SPEC_FULL.md §4.C) — not svcrunner's own structured log, which lives
// under DataDir()/logs and is a separate concern.
func RegisterLogsCommand(app *App) {
	app.AddCommand(&Command{
		Name:    "logs",
		Summary: "Tail a service's stdout/stderr file",
		Usage:   "Usage: svcrunner logs <name> [-f] [--stderr]",
		Run: func(args []string) error {
			if len(args) < 1 {
				fmt.Fprintf(os.Stderr, "Usage: svcrunner logs <name> [-f] [--stderr]\n")
				os.Exit(1)
			}
			name := args[0]

			fs := flag.NewFlagSet("logs", flag.ContinueOnError)
			follow := fs.BoolP("follow", "f", false, "keep reading as the file grows")
			wantStderr := fs.Bool("stderr", false, "tail AppStderr instead of AppStdout")
			if err := fs.Parse(args[1:]); err != nil {
				os.Exit(1)
			}

			values, err := defaultStore().ReadService(name)
			if err != nil {
				fmt.Fprintf(os.Stderr, "svcrunner: %v\n", err)
				os.Exit(1)
			}

			field := config.FieldAppStdout
			if *wantStderr {
				field = config.FieldAppStderr
			}
			path, _ := values[field].(string)
			if path == "" {
				fmt.Fprintf(os.Stderr, "svcrunner: %s has no %s configured\n", name, field)
				os.Exit(1)
			}

			if err := tailFile(path, *follow); err != nil {
				fmt.Fprintf(os.Stderr, "svcrunner: %v\n", err)
				os.Exit(1)
			}
			return nil
		},
	})
}

// tailFile prints path's existing contents, then, if follow is set,
// watches it with fsnotify and prints appended lines as they land.
func tailFile(path string, follow bool) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open %q: %w", path, err)
	}
	defer f.Close()

	reader := bufio.NewReader(f)
	if err := copyLines(reader, os.Stdout); err != nil {
		return err
	}
	if !follow {
		return nil
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("watch %q: %w", path, err)
	}
	defer watcher.Close()

	if err := watcher.Add(path); err != nil {
		return fmt.Errorf("watch %q: %w", path, err)
	}

	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&fsnotify.Write != 0 {
				if err := copyLines(reader, os.Stdout); err != nil {
					return err
				}
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			return fmt.Errorf("watch %q: %w", path, err)
		}
	}
}

func copyLines(r *bufio.Reader, w io.Writer) error {
	for {
		line, err := r.ReadString('\n')
		if len(line) > 0 {
			fmt.Fprint(w, line)
		}
		if err != nil {
			if err == io.EOF {
				return nil
			}
			return err
		}
	}
}
