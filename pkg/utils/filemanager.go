// =============================================================================
// CSV to Inventory Converter - File Manager Utility
// =============================================================================
//
// This module provides file management utilities for the converter:
//   - Directory management for the artifact paths
//   - Atomic artifact writes (temp file in the same directory + rename)
//   - Reading back the head of a written artifact for the console preview
//
// WRITE STRATEGY:
//   Each artifact is written to a temporary file next to its destination,
//   synced, closed and renamed over the target. A failed write never leaves
//   a half-written inventory behind, and every run fully replaces the
//   previous artifact.
//
// =============================================================================

package utils

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// =============================================================================
// DIRECTORY MANAGEMENT
// =============================================================================

// EnsureParentDirs creates the parent directory of every given file path.
//
// RETURNS:
//   - An error if any directory cannot be created.
func EnsureParentDirs(paths ...string) error {
	for _, path := range paths {
		dir := filepath.Dir(path)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}
	return nil
}

// =============================================================================
// ATOMIC WRITES
// =============================================================================

// WriteFileAtomic writes data to path via a temporary file and rename.
//
// PARAMETERS:
//   - path: The destination file.
//   - data: The complete file contents.
//   - perm: The permission bits of the final file.
//
// RETURNS:
//   - An error if any step fails. The temporary file is removed on failure.
func WriteFileAtomic(path string, data []byte, perm os.FileMode) (err error) {
	dir := filepath.Dir(path)

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()

	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmpName)
		}
	}()

	if _, err = tmp.Write(data); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err = tmp.Chmod(perm); err != nil {
		return fmt.Errorf("failed to set permissions on %s: %w", path, err)
	}
	if err = tmp.Sync(); err != nil {
		return fmt.Errorf("failed to sync %s: %w", path, err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", path, err)
	}
	if err = os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("failed to move %s into place: %w", path, err)
	}

	return nil
}

// =============================================================================
// UTILITY FUNCTIONS
// =============================================================================

// HeadLines returns up to n lines from the start of a file, with trailing
// whitespace removed.
func HeadLines(path string, n int) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var lines []string
	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for len(lines) < n && scanner.Scan() {
		lines = append(lines, strings.TrimRight(scanner.Text(), " \t\r"))
	}
	return lines, scanner.Err()
}
