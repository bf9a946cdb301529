//go:build windows

package lock

import (
	"fmt"
	"os"
	"path/filepath"
)

// LockDirectory acquires an exclusive lock on the given database directory
// via a file named "LOCK" inside it.
//
// On Windows the lock is the atomic create-exclusive of the file itself: if
// it already exists, the directory is in use by another caskdb process. The
// returned handle must stay open for the duration of the lock.
func LockDirectory(dir string) (*os.File, error) {
	path := filepath.Join(dir, "LOCK")

	f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_RDWR, 0644)
	if err != nil {
		return nil, fmt.Errorf("database directory %s is in use by another process", dir)
	}

	return f, nil
}

// UnlockDirectory releases a lock acquired via LockDirectory and removes the
// lock file. Call it exactly once per successful LockDirectory.
func UnlockDirectory(f *os.File) {
	name := f.Name()
	f.Close()
	os.Remove(name)
}
