// pattern: Imperative Shell
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"
)

// YAMLStore is a ParameterStore backed by one YAML document per service,
// rooted at Dir. It is used by non-Windows builds, by tests, and by the
// CLI's set/get/reset subcommands when no live registry is available
// (spec §4.A expansion).
type YAMLStore struct {
	Dir string
}

// NewYAMLStore returns a YAMLStore rooted at dir, creating it if absent.
func NewYAMLStore(dir string) (*YAMLStore, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("config: create store dir: %w", err)
	}
	return &YAMLStore{Dir: dir}, nil
}

// yamlRecord is the on-disk shape: every canonical field name as a YAML
// key, so the file is legible next to the registry value-name table in
// spec §6.
type yamlRecord struct {
	Application          string   `yaml:"Application"`
	AppDirectory         string   `yaml:"AppDirectory,omitempty"`
	AppParameters        string   `yaml:"AppParameters,omitempty"`
	AppEnvironmentExtra  []string `yaml:"AppEnvironmentExtra,omitempty"`
	AppPriority          uint32   `yaml:"AppPriority,omitempty"`
	AppNoConsole         bool     `yaml:"AppNoConsole,omitempty"`
	AppThrottle          uint32   `yaml:"AppThrottle,omitempty"`
	AppRestartDelay      uint32   `yaml:"AppRestartDelay,omitempty"`
	AppStopMethodSkip    uint32   `yaml:"AppStopMethodSkip,omitempty"`
	AppStopMethodConsole uint32   `yaml:"AppStopMethodConsole,omitempty"`
	AppStopMethodWindow  uint32   `yaml:"AppStopMethodWindow,omitempty"`
	AppStopMethodThreads uint32   `yaml:"AppStopMethodThreads,omitempty"`
	AppExitDefault       string   `yaml:"AppExitDefault,omitempty"`
	AppStdout            string   `yaml:"AppStdout,omitempty"`
	AppStderr            string   `yaml:"AppStderr,omitempty"`
	AppStdin             string   `yaml:"AppStdin,omitempty"`

	DisplayName      string   `yaml:"DisplayName,omitempty"`
	Description      string   `yaml:"Description,omitempty"`
	StartType        string   `yaml:"StartType,omitempty"`
	ObjectName       string   `yaml:"ObjectName,omitempty"`
	Dependencies     []string `yaml:"Dependencies,omitempty"`
	AppAffinity      string   `yaml:"AppAffinity,omitempty"`
	AppRotateFiles   bool     `yaml:"AppRotateFiles,omitempty"`
	AppRotateOnline  bool     `yaml:"AppRotateOnline,omitempty"`
	AppRotateSeconds uint32   `yaml:"AppRotateSeconds,omitempty"`
	AppRotateBytes   uint64   `yaml:"AppRotateBytes,omitempty"`
	AppEnvironment   []string `yaml:"AppEnvironment,omitempty"`
}

func (s *YAMLStore) path(name string) string {
	return filepath.Join(s.Dir, name+".yaml")
}

// recordToValues mirrors the yaml:",omitempty" tags on yamlRecord: a field
// left at its Go zero value is omitted from the map exactly as it would
// have been omitted from the file, so decode() falls back to Defaults()
// for it rather than overriding the default with a zero.
func recordToValues(r yamlRecord) map[string]any {
	values := map[string]any{
		FieldApplication: r.Application,
	}
	putStr := func(k, v string) {
		if v != "" {
			values[k] = v
		}
	}
	putStrs := func(k string, v []string) {
		if len(v) > 0 {
			values[k] = v
		}
	}
	putDword := func(k string, v uint32) {
		if v != 0 {
			values[k] = v
		}
	}
	putBool := func(k string, v bool) {
		if v {
			values[k] = v
		}
	}

	putStr(FieldAppDirectory, r.AppDirectory)
	putStr(FieldAppParameters, r.AppParameters)
	putStrs(FieldAppEnvironmentExtra, r.AppEnvironmentExtra)
	putDword(FieldAppPriority, r.AppPriority)
	putBool(FieldAppNoConsole, r.AppNoConsole)
	putDword(FieldAppThrottle, r.AppThrottle)
	putDword(FieldAppRestartDelay, r.AppRestartDelay)
	putDword(FieldAppStopMethodSkip, r.AppStopMethodSkip)
	putDword(FieldAppStopMethodConsole, r.AppStopMethodConsole)
	putDword(FieldAppStopMethodWindow, r.AppStopMethodWindow)
	putDword(FieldAppStopMethodThreads, r.AppStopMethodThreads)
	putStr(FieldAppExitDefault, r.AppExitDefault)
	putStr(FieldAppStdout, r.AppStdout)
	putStr(FieldAppStderr, r.AppStderr)
	putStr(FieldAppStdin, r.AppStdin)

	putStr(FieldDisplayName, r.DisplayName)
	putStr(FieldDescription, r.Description)
	putStr(FieldStartType, r.StartType)
	putStr(FieldObjectName, r.ObjectName)
	putStrs(FieldDependencies, r.Dependencies)
	putStr(FieldAppAffinity, r.AppAffinity)
	putBool(FieldAppRotateFiles, r.AppRotateFiles)
	putBool(FieldAppRotateOnline, r.AppRotateOnline)
	putDword(FieldAppRotateSeconds, r.AppRotateSeconds)
	if r.AppRotateBytes != 0 {
		values[FieldAppRotateBytes] = r.AppRotateBytes
	}
	putStrs(FieldAppEnvironment, r.AppEnvironment)

	return values
}

func valuesToRecord(values map[string]any) yamlRecord {
	var r yamlRecord
	if v, ok := str(values, FieldApplication); ok {
		r.Application = v
	}
	if v, ok := str(values, FieldAppDirectory); ok {
		r.AppDirectory = v
	}
	if v, ok := str(values, FieldAppParameters); ok {
		r.AppParameters = v
	}
	if v, ok := strSlice(values, FieldAppEnvironmentExtra); ok {
		r.AppEnvironmentExtra = v
	}
	if v, ok := dword(values, FieldAppPriority); ok {
		r.AppPriority = v
	}
	if v, ok := boolean(values, FieldAppNoConsole); ok {
		r.AppNoConsole = v
	}
	if v, ok := dword(values, FieldAppThrottle); ok {
		r.AppThrottle = v
	}
	if v, ok := dword(values, FieldAppRestartDelay); ok {
		r.AppRestartDelay = v
	}
	if v, ok := dword(values, FieldAppStopMethodSkip); ok {
		r.AppStopMethodSkip = v
	}
	if v, ok := dword(values, FieldAppStopMethodConsole); ok {
		r.AppStopMethodConsole = v
	}
	if v, ok := dword(values, FieldAppStopMethodWindow); ok {
		r.AppStopMethodWindow = v
	}
	if v, ok := dword(values, FieldAppStopMethodThreads); ok {
		r.AppStopMethodThreads = v
	}
	if v, ok := str(values, FieldAppExitDefault); ok {
		r.AppExitDefault = v
	}
	if v, ok := str(values, FieldAppStdout); ok {
		r.AppStdout = v
	}
	if v, ok := str(values, FieldAppStderr); ok {
		r.AppStderr = v
	}
	if v, ok := str(values, FieldAppStdin); ok {
		r.AppStdin = v
	}
	if v, ok := str(values, FieldDisplayName); ok {
		r.DisplayName = v
	}
	if v, ok := str(values, FieldDescription); ok {
		r.Description = v
	}
	if v, ok := str(values, FieldStartType); ok {
		r.StartType = v
	}
	if v, ok := str(values, FieldObjectName); ok {
		r.ObjectName = v
	}
	if v, ok := strSlice(values, FieldDependencies); ok {
		r.Dependencies = v
	}
	if v, ok := str(values, FieldAppAffinity); ok {
		r.AppAffinity = v
	}
	if v, ok := boolean(values, FieldAppRotateFiles); ok {
		r.AppRotateFiles = v
	}
	if v, ok := boolean(values, FieldAppRotateOnline); ok {
		r.AppRotateOnline = v
	}
	if v, ok := dword(values, FieldAppRotateSeconds); ok {
		r.AppRotateSeconds = v
	}
	if v, ok := values[FieldAppRotateBytes]; ok {
		switch n := v.(type) {
		case uint64:
			r.AppRotateBytes = n
		case uint32:
			r.AppRotateBytes = uint64(n)
		case string:
			if parsed, err := strconv.ParseUint(n, 10, 64); err == nil {
				r.AppRotateBytes = parsed
			}
		}
	}
	if v, ok := strSlice(values, FieldAppEnvironment); ok {
		r.AppEnvironment = v
	}
	return r
}

// ReadService implements ParameterStore.
func (s *YAMLStore) ReadService(name string) (map[string]any, error) {
	data, err := os.ReadFile(s.path(name))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrServiceAbsent
		}
		return nil, err
	}

	var r yamlRecord
	if err := yaml.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("config: parse %q: %w", s.path(name), err)
	}
	return recordToValues(r), nil
}

// WriteService implements ParameterStore.
func (s *YAMLStore) WriteService(name string, values map[string]any) error {
	r := valuesToRecord(values)
	data, err := yaml.Marshal(r)
	if err != nil {
		return err
	}
	return os.WriteFile(s.path(name), data, 0644)
}

// WriteField implements ParameterStore.
func (s *YAMLStore) WriteField(name, field string, value any) error {
	values, err := s.ReadService(name)
	if err != nil {
		if err != ErrServiceAbsent {
			return err
		}
		values = map[string]any{}
	}
	values[field] = value
	return s.WriteService(name, values)
}

// DeleteField implements ParameterStore.
func (s *YAMLStore) DeleteField(name, field string) error {
	values, err := s.ReadService(name)
	if err != nil {
		return err
	}
	delete(values, field)
	return s.WriteService(name, values)
}

// ListServices implements ParameterStore.
func (s *YAMLStore) ListServices() ([]string, error) {
	entries, err := os.ReadDir(s.Dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if ext := filepath.Ext(e.Name()); ext == ".yaml" || ext == ".yml" {
			names = append(names, e.Name()[:len(e.Name())-len(ext)])
		}
	}
	return names, nil
}
