package instlock

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLockAndRelease(t *testing.T) {
	dir := t.TempDir()

	fl, err := Lock(dir, "myservice")
	if err != nil {
		t.Fatalf("Lock() failed: %v", err)
	}
	if fl == nil {
		t.Fatal("Lock() returned nil flock")
	}

	if _, err := Lock(dir, "myservice"); err == nil {
		t.Fatal("second Lock() for the same service should have failed")
	}

	// A different service name is independent.
	fl2, err := Lock(dir, "otherservice")
	if err != nil {
		t.Fatalf("Lock() for a different service should succeed: %v", err)
	}
	Release(fl2)

	Release(fl)

	fl3, err := Lock(dir, "myservice")
	if err != nil {
		t.Fatalf("Lock() after Release should succeed: %v", err)
	}
	Release(fl3)
}

func TestRemoveStale(t *testing.T) {
	dir := t.TempDir()

	fl, err := Lock(dir, "crashed")
	if err != nil {
		t.Fatalf("Lock() failed: %v", err)
	}
	Release(fl)

	lockPath := filepath.Join(dir, lockFileName("crashed"))
	if _, err := os.Stat(lockPath); err != nil {
		t.Fatalf("expected lock file to exist: %v", err)
	}

	if err := RemoveStale(dir, "crashed"); err != nil {
		t.Fatalf("RemoveStale() failed: %v", err)
	}

	if _, err := os.Stat(lockPath); !os.IsNotExist(err) {
		t.Fatal("lock file should have been removed")
	}
}

func TestRemoveStaleRefusesLiveLock(t *testing.T) {
	dir := t.TempDir()

	fl, err := Lock(dir, "live")
	if err != nil {
		t.Fatalf("Lock() failed: %v", err)
	}
	defer Release(fl)

	if err := RemoveStale(dir, "live"); err == nil {
		t.Fatal("RemoveStale() should refuse to remove a live lock")
	}
}
