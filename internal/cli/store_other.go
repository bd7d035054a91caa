//go:build !windows

// pattern: Imperative Shell
package cli

import (
	"fmt"
	"os"

	"svcrunner/internal/config"
)

// defaultStore returns the non-Windows ParameterStore: one YAML document
// per service under ServicesDir(). There is no registry outside Windows,
// so this stands in for it during development and in CI.
func defaultStore() config.ParameterStore {
	store, err := config.NewYAMLStore(ServicesDir())
	if err != nil {
		fmt.Fprintf(os.Stderr, "svcrunner: create service store: %v\n", err)
		os.Exit(1)
	}
	return store
}
