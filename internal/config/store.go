// pattern: Functional Core (ParameterStore is the seam) + Imperative Shell (implementations)
package config

import "fmt"

// ParameterStore stands in for "the persisted configuration store" that
// spec §1 names as an external collaborator and does not design: a
// key/value registry keyed by service name. Values are one of string,
// uint32, bool, or []string — the same shapes the Windows registry value
// types (REG_SZ, REG_DWORD, REG_MULTI_SZ) and a YAML document both carry
// naturally.
type ParameterStore interface {
	// ReadService returns every stored value for name. A service with no
	// stored parameters at all returns ErrServiceAbsent.
	ReadService(name string) (map[string]any, error)

	// WriteService replaces the named service's parameters wholesale.
	WriteService(name string, values map[string]any) error

	// WriteField sets a single field, creating the service's parameter
	// container if it does not already exist.
	WriteField(name, field string, value any) error

	// DeleteField removes a single field so that the next Load falls back
	// to its default.
	DeleteField(name, field string) error

	// ListServices returns the name of every service with a parameter
	// container in the store, in no particular order (spec §9
	// expansion: the basis for `svcrunner list`).
	ListServices() ([]string, error)
}

// ErrServiceAbsent is returned by ReadService when the named service has
// no parameter container at all (spec §4.A: "Fails only if the container
// key is absent").
var ErrServiceAbsent = fmt.Errorf("config: service parameter container absent")
