// pattern: Functional Core
package cli

import (
	"os"
	"path/filepath"
)

// DataDir returns the directory svcrunner uses for its own state: the
// non-Windows parameter store's YAML documents, instance lock files, and
// svcrunner's own per-service log files under logs/.
// Honors XDG_DATA_HOME, falling back to ~/.local/share/svcrunner, the
// same precedence the teacher's own config directory lookup used.
func DataDir() string {
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return filepath.Join(xdg, "svcrunner")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".local", "share", "svcrunner")
	}
	return filepath.Join(home, ".local", "share", "svcrunner")
}

// ServicesDir returns the directory the non-Windows YAMLStore roots its
// per-service documents in.
func ServicesDir() string {
	return filepath.Join(DataDir(), "services")
}
