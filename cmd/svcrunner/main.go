// pattern: Imperative Shell
package main

import (
	"fmt"
	"os"

	"svcrunner/internal/cli"
)

var version = "dev"

func main() {
	app := cli.NewApp(version)

	cli.RegisterServiceCommands(app)
	cli.RegisterConfigCommands(app)
	cli.RegisterLogsCommand(app)
	cli.RegisterRunCommand(app)

	app.AddCommand(&cli.Command{
		Name:    "version",
		Summary: "Print version and exit",
		Usage:   "Usage: svcrunner version",
		Run: func(args []string) error {
			fmt.Println(version)
			return nil
		},
	})

	if app.Execute(os.Args[1:]) {
		os.Exit(0)
	}
}
