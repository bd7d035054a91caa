//go:build windows

// pattern: Imperative Shell
package cli

import (
	"fmt"
	"time"

	"golang.org/x/sys/windows/svc"
	"golang.org/x/sys/windows/svc/mgr"

	"svcrunner/internal/config"
	"svcrunner/internal/scm"
)

// WindowsServiceManager implements ServiceManager against the real SCM via
// golang.org/x/sys/windows/svc/mgr, the same package internal/scm's
// dispatcher uses for the run-time side of the SCM protocol.
type WindowsServiceManager struct{}

func (WindowsServiceManager) Install(name, displayName, binPath string, binArgs []string, start config.StartType) error {
	m, err := mgr.Connect()
	if err != nil {
		return fmt.Errorf("scmanager: connect: %w", err)
	}
	defer m.Disconnect()

	cfg := mgr.Config{
		DisplayName: displayName,
		StartType:   windowsStartType(start),
	}

	s, err := m.CreateService(name, binPath, cfg, binArgs...)
	if err != nil {
		return fmt.Errorf("scmanager: create service: %w", err)
	}
	defer s.Close()
	return nil
}

func (WindowsServiceManager) Remove(name string) error {
	m, err := mgr.Connect()
	if err != nil {
		return fmt.Errorf("scmanager: connect: %w", err)
	}
	defer m.Disconnect()

	s, err := m.OpenService(name)
	if err != nil {
		return fmt.Errorf("scmanager: open service: %w", err)
	}
	defer s.Close()

	if err := s.Delete(); err != nil {
		return fmt.Errorf("scmanager: delete service: %w", err)
	}
	return nil
}

func (WindowsServiceManager) Start(name string) error {
	m, err := mgr.Connect()
	if err != nil {
		return fmt.Errorf("scmanager: connect: %w", err)
	}
	defer m.Disconnect()

	s, err := m.OpenService(name)
	if err != nil {
		return fmt.Errorf("scmanager: open service: %w", err)
	}
	defer s.Close()

	if err := s.Start(); err != nil {
		return fmt.Errorf("scmanager: start service: %w", err)
	}
	return nil
}

func (WindowsServiceManager) Stop(name string) error {
	m, err := mgr.Connect()
	if err != nil {
		return fmt.Errorf("scmanager: connect: %w", err)
	}
	defer m.Disconnect()

	s, err := m.OpenService(name)
	if err != nil {
		return fmt.Errorf("scmanager: open service: %w", err)
	}
	defer s.Close()

	status, err := s.Control(svc.Stop)
	if err != nil {
		return fmt.Errorf("scmanager: control stop: %w", err)
	}

	deadline := time.Now().Add(30 * time.Second)
	for status.State != svc.Stopped && time.Now().Before(deadline) {
		time.Sleep(300 * time.Millisecond)
		status, err = s.Query()
		if err != nil {
			return fmt.Errorf("scmanager: query status: %w", err)
		}
	}
	return nil
}

func (WindowsServiceManager) Status(name string) (scm.State, error) {
	m, err := mgr.Connect()
	if err != nil {
		return scm.StateStopped, fmt.Errorf("scmanager: connect: %w", err)
	}
	defer m.Disconnect()

	s, err := m.OpenService(name)
	if err != nil {
		return scm.StateStopped, fmt.Errorf("scmanager: open service: %w", err)
	}
	defer s.Close()

	status, err := s.Query()
	if err != nil {
		return scm.StateStopped, fmt.Errorf("scmanager: query status: %w", err)
	}

	switch status.State {
	case svc.Running, svc.StartPending:
		return scm.StateRunning, nil
	case svc.StopPending:
		return scm.StateStopPending, nil
	default:
		return scm.StateStopped, nil
	}
}

func windowsStartType(t config.StartType) uint32 {
	switch t {
	case config.StartAuto:
		return mgr.StartAutomatic
	case config.StartDisabled:
		return mgr.StartDisabled
	default:
		return mgr.StartManual
	}
}

// NewServiceManager returns the platform's real ServiceManager.
func NewServiceManager() ServiceManager { return WindowsServiceManager{} }
