// pattern: Functional Core (interface) + Imperative Shell (implementations)
package cli

import (
	"svcrunner/internal/config"
	"svcrunner/internal/scm"
)

// ServiceManager is the narrow seam over the platform SCM that `install`,
// `remove`, `start`, `stop`, `restart`, and `status` are built on — the
// CreateService/DeleteService/StartService/ControlService/QueryServiceStatus
// calls spec.md places out of core scope but SPEC_FULL.md's CLI front end
// still needs a home for.
type ServiceManager interface {
	// Install registers name with the SCM, pointing its binary path at
	// binPath and passing binArgs (normally "run", name) as the service
	// command line, with the given SCM start type.
	Install(name, displayName, binPath string, binArgs []string, start config.StartType) error

	// Remove unregisters name from the SCM. It is not an error if the
	// service is currently running; the SCM marks it for deletion.
	Remove(name string) error

	// Start asks the SCM to start name.
	Start(name string) error

	// Stop asks the SCM to post a Stop control to name and waits briefly
	// for acknowledgement.
	Stop(name string) error

	// Status returns the last-known SCM state for name.
	Status(name string) (scm.State, error)
}
