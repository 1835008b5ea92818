package fsutil

import (
	"errors"
	"fmt"
	"os"
)

// Exists reports whether path exists. Errors other than not-exist count as existing so
// callers go on to surface them.
func Exists(path string) bool {
	_, err := os.Lstat(path)

	return err == nil || !errors.Is(err, os.ErrNotExist)
}

// RemoveIfExists removes a file or directory tree. It reports false without error when
// path does not exist.
func RemoveIfExists(path string) (bool, error) {
	if path == "" || !Exists(path) {
		return false, nil
	}

	err := os.RemoveAll(path)
	if err != nil {
		return false, fmt.Errorf("failed to remove %s: %w", path, err)
	}

	return true, nil
}
