package osfilesystem

import (
	"errors"
	"io/fs"
)

// IsLocked reports whether err means another process currently holds the
// file open in a way that blocks replacing it. Such errors are transient.
func IsLocked(err error) bool {
	if err == nil {
		return false
	}
	return errors.Is(err, fs.ErrPermission) || isPlatformLock(err)
}
