//go:build !windows

// pattern: Imperative Shell
package cli

import (
	"fmt"

	"svcrunner/internal/config"
	"svcrunner/internal/scm"
)

// errUnsupported is returned by every UnsupportedServiceManager method.
// There is no SCM outside Windows; install/remove/start/stop/status are
// meaningful only as a way to exercise ServiceManager's shape in tests
// (see scm.Fake-backed tests), not to run against a live service on this
// platform.
var errUnsupported = fmt.Errorf("scmanager: SCM integration is only available on Windows")

// UnsupportedServiceManager implements ServiceManager with a uniform
// error, the same pattern internal/launcher's NoopPriorityClassSetter
// uses for a Windows-only concept on other platforms.
type UnsupportedServiceManager struct{}

func (UnsupportedServiceManager) Install(name, displayName, binPath string, binArgs []string, start config.StartType) error {
	return errUnsupported
}

func (UnsupportedServiceManager) Remove(name string) error { return errUnsupported }
func (UnsupportedServiceManager) Start(name string) error  { return errUnsupported }
func (UnsupportedServiceManager) Stop(name string) error   { return errUnsupported }

func (UnsupportedServiceManager) Status(name string) (scm.State, error) {
	return scm.StateStopped, errUnsupported
}

// NewServiceManager returns the platform's fallback ServiceManager.
func NewServiceManager() ServiceManager { return UnsupportedServiceManager{} }
