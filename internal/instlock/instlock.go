// pattern: Imperative Shell
package instlock

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
)

// Lock acquires an exclusive file lock scoped to a single service name,
// preventing two svcrunner processes from concurrently supervising the
// same child. Returns the flock handle (caller must defer Release) or an
// error if another instance already holds it.
func Lock(dataDir, serviceName string) (*flock.Flock, error) {
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("instlock: create data dir: %w", err)
	}

	lockPath := filepath.Join(dataDir, lockFileName(serviceName))
	fl := flock.New(lockPath)
	locked, err := fl.TryLock()
	if err != nil {
		return nil, fmt.Errorf("instlock: acquire lock: %w", err)
	}
	if !locked {
		return nil, fmt.Errorf("instlock: another svcrunner instance is already running %q", serviceName)
	}
	return fl, nil
}

// Release releases the lock held on behalf of serviceName. Safe to call
// with a nil handle.
func Release(fl *flock.Flock) {
	if fl != nil {
		_ = fl.Unlock()
	}
}

// RemoveStale removes a lock file left behind by a crashed instance. It
// first verifies the lock is actually free (no process holds it) and
// refuses to remove a live lock.
func RemoveStale(dataDir, serviceName string) error {
	lockPath := filepath.Join(dataDir, lockFileName(serviceName))
	fl := flock.New(lockPath)
	locked, err := fl.TryLock()
	if err != nil {
		return fmt.Errorf("instlock: probe lock: %w", err)
	}
	if !locked {
		return fmt.Errorf("instlock: %q appears to be running; stop it first", serviceName)
	}
	defer Release(fl)

	if err := os.Remove(lockPath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("instlock: remove stale lock: %w", err)
	}
	return nil
}

func lockFileName(serviceName string) string {
	return serviceName + ".lock"
}
