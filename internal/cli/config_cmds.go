// pattern: Imperative Shell
package cli

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"svcrunner/internal/config"
)

// RegisterConfigCommands registers the "config" group's get/set/reset
// subcommands, built directly on ParameterStore's WriteField/DeleteField/
// ReadService (spec §9 expansion — see SPEC_FULL.md §9).
func RegisterConfigCommands(app *App) {
	group := app.AddGroup("config", "Read and write a service's persisted parameters")

	group.AddCommand(&Command{
		Name:    "get",
		Summary: "Print one parameter's value",
		Usage:   "Usage: svcrunner config get <name> <field>",
		Run: func(args []string) error {
			if len(args) < 2 {
				fmt.Fprintf(os.Stderr, "Usage: svcrunner config get <name> <field>\n")
				os.Exit(1)
			}
			name, field := args[0], args[1]

			values, err := defaultStore().ReadService(name)
			if err != nil {
				fmt.Fprintf(os.Stderr, "svcrunner: %v\n", err)
				os.Exit(1)
			}
			v, ok := values[field]
			if !ok {
				fmt.Fprintf(os.Stderr, "svcrunner: %s has no stored value for %s, default applies\n", name, field)
				os.Exit(1)
			}
			fmt.Println(formatFieldValue(v))
			return nil
		},
	})

	group.AddCommand(&Command{
		Name:    "set",
		Summary: "Write one parameter's value",
		Usage:   "Usage: svcrunner config set <name> <field> <value>",
		Run: func(args []string) error {
			if len(args) < 3 {
				fmt.Fprintf(os.Stderr, "Usage: svcrunner config set <name> <field> <value>\n")
				os.Exit(1)
			}
			name, field, raw := args[0], args[1], args[2]

			v, err := parseFieldValue(field, raw)
			if err != nil {
				fmt.Fprintf(os.Stderr, "svcrunner: %v\n", err)
				os.Exit(1)
			}
			if err := defaultStore().WriteField(name, field, v); err != nil {
				fmt.Fprintf(os.Stderr, "svcrunner: %v\n", err)
				os.Exit(1)
			}
			return nil
		},
	})

	group.AddCommand(&Command{
		Name:    "reset",
		Summary: "Remove one parameter, reverting it to its default",
		Usage:   "Usage: svcrunner config reset <name> <field>",
		Run: func(args []string) error {
			if len(args) < 2 {
				fmt.Fprintf(os.Stderr, "Usage: svcrunner config reset <name> <field>\n")
				os.Exit(1)
			}
			name, field := args[0], args[1]

			if err := defaultStore().DeleteField(name, field); err != nil {
				fmt.Fprintf(os.Stderr, "svcrunner: %v\n", err)
				os.Exit(1)
			}
			return nil
		},
	})
}

// parseFieldValue converts a command-line string into the Go type field's
// FieldKind expects, so `config set` can be used against either store
// implementation without the caller needing to know the field's kind.
func parseFieldValue(field, raw string) (any, error) {
	switch config.FieldKinds[field] {
	case config.FieldKindDword:
		n, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			return nil, fmt.Errorf("%s expects an integer, got %q", field, raw)
		}
		return uint32(n), nil
	case config.FieldKindBool:
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return nil, fmt.Errorf("%s expects true/false, got %q", field, raw)
		}
		return b, nil
	case config.FieldKindStrings:
		if raw == "" {
			return []string{}, nil
		}
		return strings.Split(raw, ","), nil
	default:
		return raw, nil
	}
}

// formatFieldValue renders a stored value back to a single printable line.
func formatFieldValue(v any) string {
	switch val := v.(type) {
	case []string:
		return strings.Join(val, ",")
	default:
		return fmt.Sprintf("%v", val)
	}
}
