// Copyright (c) 2025 Gurkirat Singh
// SPDX-License-Identifier: AGPL-3.0-or-later

package util

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// AtomicWriteFile writes data to path via a temp file in the same directory,
// fsync, and rename. On failure either the old file or nothing is left behind.
// Parent directories are created with dirPerm when given, 0755 otherwise.
func AtomicWriteFile(path string, data []byte, perm os.FileMode, dirPerm ...os.FileMode) error {
	return AtomicWriteStream(path, perm, func(w io.Writer) error {
		_, err := io.Copy(w, bytes.NewReader(data))
		return err
	}, dirPerm...)
}

// AtomicWriteStream is AtomicWriteFile for content produced by write. When
// write fails the temp file is removed and path is left untouched.
func AtomicWriteStream(path string, perm os.FileMode, write func(w io.Writer) error, dirPerm ...os.FileMode) error {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("failed to get absolute path: %w", err)
	}

	mkdirPerm := os.FileMode(0755)
	if len(dirPerm) > 0 {
		mkdirPerm = dirPerm[0]
	}
	dir := filepath.Dir(absPath)
	if err := os.MkdirAll(dir, mkdirPerm); err != nil {
		return fmt.Errorf("failed to create parent directory: %w", err)
	}

	// Same directory so the rename stays on one filesystem.
	f, err := os.CreateTemp(dir, ".tmp-")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tempPath := f.Name()

	success := false
	defer func() {
		if !success {
			f.Close()
			os.Remove(tempPath)
		}
	}()

	if err := write(f); err != nil {
		return fmt.Errorf("failed to write data: %w", err)
	}
	if err := f.Sync(); err != nil {
		return fmt.Errorf("failed to sync data to disk: %w", err)
	}
	// Windows refuses to rename an open file.
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := os.Chmod(tempPath, perm); err != nil {
		return fmt.Errorf("failed to set file permissions: %w", err)
	}
	if err := os.Rename(tempPath, absPath); err != nil {
		return fmt.Errorf("failed to rename temp file: %w", err)
	}

	success = true
	return nil
}
