//go:build windows

package lock

import (
	"fmt"
	"os"
)

// LockFile creates "<path>.lock" exclusively. An existing lock file means
// another process holds the depot.
func LockFile(path string) (*os.File, error) {
	f, err := os.OpenFile(PathFor(path), os.O_CREATE|os.O_EXCL|os.O_RDWR, 0644)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrLocked, path)
	}

	return f, nil
}

// UnlockFile releases a lock taken with LockFile by removing the lock file.
// Call it exactly once per successful LockFile.
func UnlockFile(f *os.File) {
	name := f.Name()
	f.Close()
	os.Remove(name)
}
