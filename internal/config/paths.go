// pattern: Functional Core
package config

import "path/filepath"

// dirOf returns the parent directory of path, or "" if path has no
// directory component.
func dirOf(path string) string {
	if path == "" {
		return ""
	}
	dir := filepath.Dir(path)
	if dir == "." {
		return ""
	}
	return dir
}
