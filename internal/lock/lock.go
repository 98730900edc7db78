package lock

import "errors"

// Suffix is appended to a depot path to name its lock file.
const Suffix = ".lock"

var ErrLocked = errors.New("depot file is already in use by another process")

// PathFor returns the lock file path guarding the depot at path.
func PathFor(path string) string {
	return path + Suffix
}
