package fs

import (
	"fmt"
	"os"
	"path/filepath"
)

// WriteFileAtomic writes data next to path under a temporary name and renames it
// into place, so readers never observe a half-written file under the final name.
// An existing file at path is replaced.
func WriteFileAtomic(path string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temporary file for %s: %w", path, err)
	}
	tempFilePath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tempFilePath)
		return fmt.Errorf("failed to write temporary file for %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tempFilePath)
		return fmt.Errorf("failed to close temporary file for %s: %w", path, err)
	}
	if err := os.Chmod(tempFilePath, perm); err != nil {
		os.Remove(tempFilePath)
		return fmt.Errorf("failed to set permissions on %s: %w", path, err)
	}

	if err := os.Rename(tempFilePath, path); err != nil {
		os.Remove(tempFilePath)
		return fmt.Errorf("failed to rename temporary file to %s: %w", path, err)
	}
	return nil
}

// NonEmptyFileSize returns the size of path, or an error if it is missing or empty.
func NonEmptyFileSize(path string) (int64, error) {
	info, err := os.Stat(path)
	if err != nil {
		return 0, fmt.Errorf("failed to stat %s: %w", path, err)
	}
	if info.Size() == 0 {
		return 0, fmt.Errorf("file %s is empty", path)
	}
	return info.Size(), nil
}
