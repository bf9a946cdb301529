package lock_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/caskdb/caskdb/internal/lock"
)

func TestLockDirectoryExcludesSecondLocker(t *testing.T) {
	dir := t.TempDir()

	f, err := lock.LockDirectory(dir)
	if err != nil {
		t.Fatalf("first lock failed: %v", err)
	}

	if _, err := lock.LockDirectory(dir); err == nil {
		t.Fatal("second lock succeeded while first is held")
	}

	lock.UnlockDirectory(f)

	f2, err := lock.LockDirectory(dir)
	if err != nil {
		t.Fatalf("relock after unlock failed: %v", err)
	}
	lock.UnlockDirectory(f2)
}

func TestUnlockRemovesLockFile(t *testing.T) {
	dir := t.TempDir()

	f, err := lock.LockDirectory(dir)
	if err != nil {
		t.Fatalf("lock failed: %v", err)
	}

	lockPath := filepath.Join(dir, "LOCK")
	if _, err := os.Stat(lockPath); err != nil {
		t.Fatalf("lock file missing while locked: %v", err)
	}

	lock.UnlockDirectory(f)

	if _, err := os.Stat(lockPath); !os.IsNotExist(err) {
		t.Fatalf("lock file still present after unlock")
	}
}
