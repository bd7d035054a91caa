// pattern: Functional Core
package config

import (
	"fmt"
	"strconv"
)

// Canonical value names, exactly as spec §6 names them (plus the §3
// data-model fields and the installer-only expansion fields of
// SPEC_FULL.md §3).
const (
	FieldApplication         = "Application"
	FieldAppDirectory        = "AppDirectory"
	FieldAppParameters       = "AppParameters"
	FieldAppEnvironmentExtra = "AppEnvironmentExtra"
	FieldAppPriority         = "AppPriority"
	FieldAppNoConsole        = "AppNoConsole"
	FieldAppThrottle         = "AppThrottle"
	FieldAppRestartDelay     = "AppRestartDelay"
	FieldAppStopMethodSkip   = "AppStopMethodSkip"
	FieldAppStopMethodConsole = "AppStopMethodConsole"
	FieldAppStopMethodWindow  = "AppStopMethodWindow"
	FieldAppStopMethodThreads = "AppStopMethodThreads"
	FieldAppExitDefault       = "AppExitDefault"
	FieldAppStdout            = "AppStdout"
	FieldAppStderr            = "AppStderr"
	FieldAppStdin             = "AppStdin"

	FieldDisplayName      = "DisplayName"
	FieldDescription      = "Description"
	FieldStartType        = "StartType"
	FieldObjectName       = "ObjectName"
	FieldDependencies     = "Dependencies"
	FieldAppAffinity      = "AppAffinity"
	FieldAppRotateFiles   = "AppRotateFiles"
	FieldAppRotateOnline  = "AppRotateOnline"
	FieldAppRotateSeconds = "AppRotateSeconds"
	FieldAppRotateBytes   = "AppRotateBytes"
	FieldAppEnvironment   = "AppEnvironment"
)

// FieldKind distinguishes how a field's value is typed, since the
// registry (unlike YAML) requires the caller to know a value's REG_*
// type before reading it, and the CLI's set/get/reset commands need it to
// parse a command-line string into the right Go type.
type FieldKind int

const (
	FieldKindString FieldKind = iota
	FieldKindDword
	FieldKindBool
	FieldKindStrings
)

// FieldKinds maps every canonical field name to its FieldKind.
var FieldKinds = map[string]FieldKind{
	FieldApplication:          FieldKindString,
	FieldAppDirectory:         FieldKindString,
	FieldAppParameters:        FieldKindString,
	FieldAppEnvironmentExtra:  FieldKindStrings,
	FieldAppPriority:          FieldKindDword,
	FieldAppNoConsole:         FieldKindBool,
	FieldAppThrottle:          FieldKindDword,
	FieldAppRestartDelay:      FieldKindDword,
	FieldAppStopMethodSkip:    FieldKindDword,
	FieldAppStopMethodConsole: FieldKindDword,
	FieldAppStopMethodWindow:  FieldKindDword,
	FieldAppStopMethodThreads: FieldKindDword,
	FieldAppExitDefault:       FieldKindString,
	FieldAppStdout:            FieldKindString,
	FieldAppStderr:            FieldKindString,
	FieldAppStdin:             FieldKindString,

	FieldDisplayName:      FieldKindString,
	FieldDescription:      FieldKindString,
	FieldStartType:        FieldKindString,
	FieldObjectName:       FieldKindString,
	FieldDependencies:     FieldKindStrings,
	FieldAppAffinity:      FieldKindString,
	FieldAppRotateFiles:   FieldKindBool,
	FieldAppRotateOnline:  FieldKindBool,
	FieldAppRotateSeconds: FieldKindDword,
	FieldAppRotateBytes:   FieldKindString, // uint64 exceeds REG_DWORD; stored as decimal string
	FieldAppEnvironment:   FieldKindStrings,
}

// encode turns a ServiceConfig into the generic value map a ParameterStore
// persists. Every field round-trips, including the installer-only and
// reserved-rotation fields (spec §9 Open Question).
func encode(c ServiceConfig) map[string]any {
	return map[string]any{
		FieldApplication:          c.Application,
		FieldAppDirectory:         c.AppDirectory,
		FieldAppParameters:        c.AppParameters,
		FieldAppEnvironmentExtra:  c.AppEnvironmentExtra,
		FieldAppPriority:          c.AppPriority.windowsValue(),
		FieldAppNoConsole:         c.AppNoConsole,
		FieldAppThrottle:          c.AppThrottle,
		FieldAppRestartDelay:      c.AppRestartDelay,
		FieldAppStopMethodSkip:    c.AppStopMethodSkip,
		FieldAppStopMethodConsole: c.AppStopMethodConsole,
		FieldAppStopMethodWindow:  c.AppStopMethodWindow,
		FieldAppStopMethodThreads: c.AppStopMethodThreads,
		FieldAppExitDefault:       c.AppExitDefault.String(),
		FieldAppStdout:            c.AppStdout,
		FieldAppStderr:            c.AppStderr,
		FieldAppStdin:             c.AppStdin,

		FieldDisplayName:      c.DisplayName,
		FieldDescription:      c.Description,
		FieldStartType:        c.StartType.String(),
		FieldObjectName:       c.ObjectName,
		FieldDependencies:     c.Dependencies,
		FieldAppAffinity:      c.AppAffinity,
		FieldAppRotateFiles:   c.AppRotateFiles,
		FieldAppRotateOnline:  c.AppRotateOnline,
		FieldAppRotateSeconds: c.AppRotateSeconds,
		FieldAppRotateBytes:   c.AppRotateBytes,
		FieldAppEnvironment:   c.AppEnvironment,
	}
}

// decode applies values on top of Defaults(). Unknown keys are ignored;
// missing keys keep their default (spec §4.A).
func decode(values map[string]any) (ServiceConfig, error) {
	c := Defaults()

	if v, ok := str(values, FieldApplication); ok {
		c.Application = v
	}
	if v, ok := str(values, FieldAppDirectory); ok {
		c.AppDirectory = v
	}
	if v, ok := str(values, FieldAppParameters); ok {
		c.AppParameters = v
	}
	if v, ok := strSlice(values, FieldAppEnvironmentExtra); ok {
		c.AppEnvironmentExtra = v
	}
	if v, ok := dword(values, FieldAppPriority); ok {
		c.AppPriority = priorityFromWindowsValue(v)
	}
	if v, ok := boolean(values, FieldAppNoConsole); ok {
		c.AppNoConsole = v
	}
	if v, ok := dword(values, FieldAppThrottle); ok {
		c.AppThrottle = v
	}
	if v, ok := dword(values, FieldAppRestartDelay); ok {
		c.AppRestartDelay = v
	}
	if v, ok := dword(values, FieldAppStopMethodSkip); ok {
		c.AppStopMethodSkip = v
	}
	if v, ok := dword(values, FieldAppStopMethodConsole); ok {
		c.AppStopMethodConsole = v
	}
	if v, ok := dword(values, FieldAppStopMethodWindow); ok {
		c.AppStopMethodWindow = v
	}
	if v, ok := dword(values, FieldAppStopMethodThreads); ok {
		c.AppStopMethodThreads = v
	}
	if v, ok := str(values, FieldAppExitDefault); ok {
		action, err := exitActionFromString(v)
		if err != nil {
			return ServiceConfig{}, err
		}
		c.AppExitDefault = action
	}
	if v, ok := str(values, FieldAppStdout); ok {
		c.AppStdout = v
	}
	if v, ok := str(values, FieldAppStderr); ok {
		c.AppStderr = v
	}
	if v, ok := str(values, FieldAppStdin); ok {
		c.AppStdin = v
	}

	if v, ok := str(values, FieldDisplayName); ok {
		c.DisplayName = v
	}
	if v, ok := str(values, FieldDescription); ok {
		c.Description = v
	}
	if v, ok := str(values, FieldStartType); ok {
		switch v {
		case "Auto":
			c.StartType = StartAuto
		case "Disabled":
			c.StartType = StartDisabled
		default:
			c.StartType = StartManual
		}
	}
	if v, ok := str(values, FieldObjectName); ok {
		c.ObjectName = v
	}
	if v, ok := strSlice(values, FieldDependencies); ok {
		c.Dependencies = v
	}
	if v, ok := str(values, FieldAppAffinity); ok {
		c.AppAffinity = v
	}
	if v, ok := boolean(values, FieldAppRotateFiles); ok {
		c.AppRotateFiles = v
	}
	if v, ok := boolean(values, FieldAppRotateOnline); ok {
		c.AppRotateOnline = v
	}
	if v, ok := dword(values, FieldAppRotateSeconds); ok {
		c.AppRotateSeconds = v
	}
	if v, ok := values[FieldAppRotateBytes]; ok {
		switch n := v.(type) {
		case uint64:
			c.AppRotateBytes = n
		case uint32:
			c.AppRotateBytes = uint64(n)
		case string:
			parsed, err := strconv.ParseUint(n, 10, 64)
			if err != nil {
				return ServiceConfig{}, fmt.Errorf("config: AppRotateBytes: %w", err)
			}
			c.AppRotateBytes = parsed
		}
	}
	if v, ok := strSlice(values, FieldAppEnvironment); ok {
		c.AppEnvironment = v
	}

	if c.Application == "" {
		return ServiceConfig{}, fmt.Errorf("config: %w", ErrApplicationMissing)
	}

	return c, nil
}

// ErrApplicationMissing is the ConfigAbsent-adjacent fatal error of spec
// §4.A/§7: "Fails ... if ... `application` is missing/empty."
var ErrApplicationMissing = fmt.Errorf("Application is required and must be non-empty")

func str(values map[string]any, key string) (string, bool) {
	v, ok := values[key]
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

func boolean(values map[string]any, key string) (bool, bool) {
	v, ok := values[key]
	if !ok {
		return false, false
	}
	switch b := v.(type) {
	case bool:
		return b, true
	case uint32:
		return b != 0, true
	default:
		return false, false
	}
}

func dword(values map[string]any, key string) (uint32, bool) {
	v, ok := values[key]
	if !ok {
		return 0, false
	}
	switch n := v.(type) {
	case uint32:
		return n, true
	case int:
		return uint32(n), true
	case string:
		parsed, err := strconv.ParseUint(n, 10, 32)
		if err != nil {
			return 0, false
		}
		return uint32(parsed), true
	default:
		return 0, false
	}
}

func strSlice(values map[string]any, key string) ([]string, bool) {
	v, ok := values[key]
	if !ok {
		return nil, false
	}
	s, ok := v.([]string)
	return s, ok
}
