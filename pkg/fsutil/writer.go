package fsutil

import (
	"fmt"
	"os"
	"path/filepath"
)

const dirPermUserGroupRX = 0o750

// WriteFile writes content to output with perm, creating parent directories. An existing
// file is truncated and its mode reset to perm.
func WriteFile(output string, content []byte, perm os.FileMode) error {
	if output == "" {
		return ErrEmptyOutputPath
	}

	output = filepath.Clean(output)

	dir := filepath.Dir(output)

	err := os.MkdirAll(dir, dirPermUserGroupRX)
	if err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	err = os.WriteFile(output, content, perm)
	if err != nil {
		return fmt.Errorf("failed to write file %s: %w", output, err)
	}

	// WriteFile keeps the mode of a pre-existing file.
	err = os.Chmod(output, perm)
	if err != nil {
		return fmt.Errorf("failed to set permissions on %s: %w", output, err)
	}

	return nil
}
