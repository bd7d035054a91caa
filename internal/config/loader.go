// pattern: Imperative Shell (I/O via store) + Functional Core (decode)
package config

import "fmt"

// Load reads name's persisted parameters from store and returns an
// immutable ServiceConfig with defaults applied for every field the store
// omits. It is called once at supervisor entry; configuration is not
// re-read across restarts of the child (spec §4.A).
//
// Load fails only if the container key is absent (ErrServiceAbsent) or
// `application` is missing/empty (ErrApplicationMissing). Unknown keys
// returned by store are ignored.
func Load(store ParameterStore, name string) (ServiceConfig, error) {
	values, err := store.ReadService(name)
	if err != nil {
		return ServiceConfig{}, fmt.Errorf("config: load %q: %w", name, err)
	}

	cfg, err := decode(values)
	if err != nil {
		return ServiceConfig{}, fmt.Errorf("config: load %q: %w", name, err)
	}
	return cfg, nil
}

// Save persists cfg wholesale under name, encoding every field (including
// the installer-only and reserved fields) so that a subsequent Load
// reproduces an equal ServiceConfig (the round-trip law of spec §8).
func Save(store ParameterStore, name string, cfg ServiceConfig) error {
	if err := store.WriteService(name, encode(cfg)); err != nil {
		return fmt.Errorf("config: save %q: %w", name, err)
	}
	return nil
}
