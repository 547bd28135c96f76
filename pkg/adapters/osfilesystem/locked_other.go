//go:build !unix && !windows

package osfilesystem

func isPlatformLock(err error) bool {
	return false
}
