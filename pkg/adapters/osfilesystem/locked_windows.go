//go:build windows

package osfilesystem

import (
	"errors"
	"syscall"
)

const (
	errorSharingViolation syscall.Errno = 32
	errorLockViolation    syscall.Errno = 33
)

// isPlatformLock matches the sharing and lock violations raised while a
// game or image viewer keeps the destination open.
func isPlatformLock(err error) bool {
	var errno syscall.Errno
	if errors.As(err, &errno) {
		return errno == errorSharingViolation || errno == errorLockViolation
	}
	return false
}
