//go:build unix

package osfilesystem

import (
	"errors"
	"syscall"
)

func isPlatformLock(err error) bool {
	return errors.Is(err, syscall.EBUSY) || errors.Is(err, syscall.ETXTBSY)
}
