// pattern: Functional Core
package config

import "fmt"

// Priority mirrors the Win32 process priority classes a child can be
// launched with. The zero value is PriorityNormal.
type Priority int

const (
	PriorityNormal Priority = iota
	PriorityRealtime
	PriorityHigh
	PriorityAboveNormal
	PriorityBelowNormal
	PriorityIdle
)

// windowsValue returns the Win32 priority class DWORD for p.
func (p Priority) windowsValue() uint32 {
	switch p {
	case PriorityRealtime:
		return 0x00000100
	case PriorityHigh:
		return 0x00000080
	case PriorityAboveNormal:
		return 0x00008000
	case PriorityBelowNormal:
		return 0x00004000
	case PriorityIdle:
		return 0x00000040
	default:
		return 0x00000020 // NORMAL_PRIORITY_CLASS
	}
}

// WindowsValue exposes the Win32 priority class DWORD, for callers outside
// this package that need to pass it to the OS (e.g. internal/launcher).
func (p Priority) WindowsValue() uint32 { return p.windowsValue() }

func priorityFromWindowsValue(v uint32) Priority {
	switch v {
	case 0x00000100:
		return PriorityRealtime
	case 0x00000080:
		return PriorityHigh
	case 0x00008000:
		return PriorityAboveNormal
	case 0x00004000:
		return PriorityBelowNormal
	case 0x00000040:
		return PriorityIdle
	default:
		return PriorityNormal
	}
}

func (p Priority) String() string {
	switch p {
	case PriorityRealtime:
		return "Realtime"
	case PriorityHigh:
		return "High"
	case PriorityAboveNormal:
		return "AboveNormal"
	case PriorityBelowNormal:
		return "BelowNormal"
	case PriorityIdle:
		return "Idle"
	default:
		return "Normal"
	}
}

// ExitAction selects the supervisor's restart policy for a normal (coded)
// child exit.
type ExitAction int

const (
	ExitRestart ExitAction = iota
	ExitIgnore
	ExitExit
)

func (a ExitAction) String() string {
	switch a {
	case ExitIgnore:
		return "Ignore"
	case ExitExit:
		return "Exit"
	default:
		return "Restart"
	}
}

func exitActionFromString(s string) (ExitAction, error) {
	switch s {
	case "", "Restart":
		return ExitRestart, nil
	case "Ignore":
		return ExitIgnore, nil
	case "Exit":
		return ExitExit, nil
	default:
		return ExitRestart, fmt.Errorf("config: unknown AppExitDefault %q", s)
	}
}

// StartType is the SCM start type, consulted by the installer only; the
// runner never reads it.
type StartType int

const (
	StartManual StartType = iota
	StartAuto
	StartDisabled
)

func (t StartType) String() string {
	switch t {
	case StartAuto:
		return "Auto"
	case StartDisabled:
		return "Disabled"
	default:
		return "Manual"
	}
}

// Stop-ladder skip-mask bits (AppStopMethodSkip), per spec §4.D.
const (
	SkipConsole   uint32 = 1 << 0
	SkipWindow    uint32 = 1 << 1
	SkipTerminate uint32 = 1 << 2
	SkipKill      uint32 = 1 << 3
)

// ServiceConfig is the immutable, per-run configuration of a supervised
// service. It is loaded once at supervisor entry (see Load) and never
// re-read across restarts of the child.
type ServiceConfig struct {
	// Core runner fields (spec §3, §6).
	Application         string
	AppDirectory        string
	AppParameters       string
	AppEnvironmentExtra []string
	AppPriority         Priority
	AppNoConsole        bool
	AppStdout           string
	AppStderr           string
	AppStopMethodSkip   uint32
	AppStopMethodConsole uint32
	AppStopMethodWindow  uint32
	AppStopMethodThreads uint32
	AppThrottle          uint32
	AppRestartDelay      uint32
	AppExitDefault       ExitAction

	// Installer-only metadata, round-tripped but never consulted by the
	// runner (spec §3 expansion).
	DisplayName      string
	Description      string
	StartType        StartType
	ObjectName       string
	Dependencies     []string
	AppAffinity      string
	AppStdin         string
	AppRotateFiles   bool
	AppRotateOnline  bool
	AppRotateSeconds uint32
	AppRotateBytes   uint64
	AppEnvironment   []string
}

// Defaults returns a ServiceConfig with every field set to the default
// named in spec §3/§6, and Application left empty (callers must supply
// it — Load fails if it is missing).
func Defaults() ServiceConfig {
	return ServiceConfig{
		AppPriority:          PriorityNormal,
		AppStopMethodSkip:    0,
		AppStopMethodConsole: 1500,
		AppStopMethodWindow:  1500,
		AppStopMethodThreads: 1500,
		AppThrottle:          1500,
		AppRestartDelay:      0,
		AppExitDefault:       ExitRestart,
		StartType:            StartManual,
		AppRotateSeconds:     86400,
		AppRotateBytes:       1048576,
	}
}

// WorkingDirectory returns AppDirectory if set, else the parent directory
// of Application, else ".", per spec §4.B.
func (c ServiceConfig) WorkingDirectory() string {
	if c.AppDirectory != "" {
		return c.AppDirectory
	}
	if dir := dirOf(c.Application); dir != "" {
		return dir
	}
	return "."
}
