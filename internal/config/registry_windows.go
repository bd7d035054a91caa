//go:build windows

// pattern: Imperative Shell
package config

import (
	"fmt"
	"strconv"

	"golang.org/x/sys/windows/registry"
)

const registryBase = `SYSTEM\CurrentControlSet\Services`

// RegistryStore is the production ParameterStore, reading and writing
// HKEY_LOCAL_MACHINE\SYSTEM\CurrentControlSet\Services\<name>\Parameters,
// the same key NSSM-style service wrappers use (spec §6).
type RegistryStore struct{}

func (RegistryStore) parametersPath(name string) string {
	return registryBase + `\` + name + `\Parameters`
}

func (r RegistryStore) openForRead(name string) (registry.Key, error) {
	key, err := registry.OpenKey(registry.LOCAL_MACHINE, r.parametersPath(name), registry.QUERY_VALUE)
	if err != nil {
		if err == registry.ErrNotExist {
			return 0, ErrServiceAbsent
		}
		return 0, err
	}
	return key, nil
}

func (r RegistryStore) openForWrite(name string) (registry.Key, error) {
	key, _, err := registry.CreateKey(registry.LOCAL_MACHINE, r.parametersPath(name), registry.SET_VALUE)
	return key, err
}

// ReadService implements ParameterStore.
func (r RegistryStore) ReadService(name string) (map[string]any, error) {
	key, err := r.openForRead(name)
	if err != nil {
		return nil, err
	}
	defer key.Close()

	values := make(map[string]any)
	for field, k := range FieldKinds {
		switch k {
		case FieldKindString:
			if v, _, err := key.GetStringValue(field); err == nil {
				values[field] = v
			}
		case FieldKindDword:
			if v, _, err := key.GetIntegerValue(field); err == nil {
				values[field] = uint32(v)
			}
		case FieldKindBool:
			if v, _, err := key.GetIntegerValue(field); err == nil {
				values[field] = v != 0
			}
		case FieldKindStrings:
			if v, _, err := key.GetStringsValue(field); err == nil {
				values[field] = v
			}
		}
	}
	return values, nil
}

// WriteService implements ParameterStore.
func (r RegistryStore) WriteService(name string, values map[string]any) error {
	key, err := r.openForWrite(name)
	if err != nil {
		return err
	}
	defer key.Close()

	for field, v := range values {
		if err := writeRegistryField(key, field, v); err != nil {
			return fmt.Errorf("config: write %s: %w", field, err)
		}
	}
	return nil
}

// WriteField implements ParameterStore.
func (r RegistryStore) WriteField(name, field string, value any) error {
	key, err := r.openForWrite(name)
	if err != nil {
		return err
	}
	defer key.Close()
	return writeRegistryField(key, field, value)
}

// DeleteField implements ParameterStore.
func (r RegistryStore) DeleteField(name, field string) error {
	key, _, err := registry.CreateKey(registry.LOCAL_MACHINE, r.parametersPath(name), registry.SET_VALUE)
	if err != nil {
		return err
	}
	defer key.Close()
	if err := key.DeleteValue(field); err != nil && err != registry.ErrNotExist {
		return err
	}
	return nil
}

// ListServices implements ParameterStore. It enumerates every subkey of
// the Services key with a Parameters\Application value set, mirroring the
// original implementation's own Services-key scan (spec §9 expansion).
func (r RegistryStore) ListServices() ([]string, error) {
	servicesKey, err := registry.OpenKey(registry.LOCAL_MACHINE, registryBase, registry.ENUMERATE_SUB_KEYS)
	if err != nil {
		return nil, err
	}
	defer servicesKey.Close()

	subkeys, err := servicesKey.ReadSubKeyNames(-1)
	if err != nil {
		return nil, err
	}

	var names []string
	for _, name := range subkeys {
		paramsKey, err := r.openForRead(name)
		if err != nil {
			continue
		}
		_, _, err = paramsKey.GetStringValue(FieldApplication)
		paramsKey.Close()
		if err == nil {
			names = append(names, name)
		}
	}
	return names, nil
}

func writeRegistryField(key registry.Key, field string, v any) error {
	switch k := FieldKinds[field]; k {
	case FieldKindDword:
		n, ok := dword(map[string]any{field: v}, field)
		if !ok {
			return fmt.Errorf("value for %s is not a DWORD", field)
		}
		return key.SetDWordValue(field, n)
	case FieldKindBool:
		b, ok := boolean(map[string]any{field: v}, field)
		if !ok {
			return fmt.Errorf("value for %s is not a bool", field)
		}
		n := uint32(0)
		if b {
			n = 1
		}
		return key.SetDWordValue(field, n)
	case FieldKindStrings:
		s, ok := strSlice(map[string]any{field: v}, field)
		if !ok {
			return fmt.Errorf("value for %s is not a string slice", field)
		}
		return key.SetStringsValue(field, s)
	default: // FieldKindString, and AppRotateBytes which stores uint64 as decimal text
		switch n := v.(type) {
		case string:
			return key.SetStringValue(field, n)
		case uint64:
			return key.SetStringValue(field, strconv.FormatUint(n, 10))
		case uint32:
			return key.SetStringValue(field, strconv.FormatUint(uint64(n), 10))
		default:
			return fmt.Errorf("value for %s is not a string", field)
		}
	}
}
