// Package fileutil provides common file operations.
package fileutil

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// ErrSymlinkNotSupported indicates symlinks are not supported for this operation.
var ErrSymlinkNotSupported = errors.New("symlinks are not supported")

// WriteFileAtomic writes data to path through a temp file in the same
// directory and a rename, so readers never observe a partial file. Parent
// directories are created as needed. An existing symlink at path is refused
// with ErrSymlinkNotSupported rather than replaced.
func WriteFileAtomic(path string, data []byte, perm os.FileMode) error {
	if info, err := os.Lstat(path); err == nil && info.Mode()&os.ModeSymlink != 0 {
		return fmt.Errorf("%s: %w", path, ErrSymlinkNotSupported)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create parent directories: %w", err)
	}

	tmpFile, err := os.CreateTemp(dir, ".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()

	success := false
	defer func() {
		if !success {
			tmpFile.Close()
			os.Remove(tmpPath)
		}
	}()

	if _, err := tmpFile.Write(data); err != nil {
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmpFile.Sync(); err != nil {
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Chmod(tmpPath, perm); err != nil {
		return fmt.Errorf("set permissions: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("rename to destination: %w", err)
	}

	success = true
	return nil
}
