//go:build windows

// pattern: Imperative Shell
package cli

import "svcrunner/internal/config"

// defaultStore returns the production ParameterStore: the Windows
// registry, under the same Services\<name>\Parameters key a real service
// install lives under.
func defaultStore() config.ParameterStore {
	return config.RegistryStore{}
}
