//go:build unix

package lock

import (
	"fmt"
	"os"
	"path/filepath"
	"syscall"
)

// LockDirectory acquires an exclusive, non-blocking advisory lock on the
// given database directory via a file named "LOCK" inside it.
//
// On Unix systems this uses flock(2). If the lock cannot be acquired, the
// directory is in use by another caskdb process. The returned handle must
// stay open for the duration of the lock.
func LockDirectory(dir string) (*os.File, error) {
	path := filepath.Join(dir, "LOCK")

	f, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR, 0644)
	if err != nil {
		return nil, fmt.Errorf("open lock file: %w", err)
	}

	if err := syscall.Flock(int(f.Fd()), syscall.LOCK_EX|syscall.LOCK_NB); err != nil {
		f.Close()
		return nil, fmt.Errorf("database directory %s is in use by another process", dir)
	}

	return f, nil
}

// UnlockDirectory releases a lock acquired via LockDirectory and removes the
// lock file, leaving only segment files behind.
func UnlockDirectory(f *os.File) {
	syscall.Flock(int(f.Fd()), syscall.LOCK_UN)
	f.Close()
	os.Remove(f.Name())
}
