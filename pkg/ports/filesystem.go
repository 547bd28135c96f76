package ports

// FileSystem abstracts the file operations used for atomic publishing.
type FileSystem interface {
	// WriteFile writes data to a file, creating it if necessary.
	WriteFile(path string, data []byte) error

	// Rename atomically replaces newPath with oldPath.
	Rename(oldPath, newPath string) error

	// MkdirAll creates a directory and all parent directories.
	MkdirAll(path string) error

	// Exists checks if a file or directory exists.
	Exists(path string) (bool, error)

	// Remove deletes a file or empty directory. Publish uses it to drop a
	// staged frame that could not be renamed into place.
	Remove(path string) error
}
