// Package fsutil provides file system utility functions.
package fsutil

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/vk/cornergrid/internal/model"
)

// EnsureLayout creates the output root and every required subdirectory. It
// is safe to call on a layout that already exists.
func EnsureLayout(layout model.Layout) error {
	if layout.Root == "" {
		panic("layout root must not be empty")
	}
	for _, d := range model.Subdirs {
		dir := layout.Dir(d)
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create output directory %s: %w", dir, err)
		}
	}
	return nil
}

// WriteFile writes data to path, creating its parent directory if needed.
func WriteFile(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create directory for %s: %w", path, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

// ExistingFiles returns the subset of paths that exist as regular files.
func ExistingFiles(paths ...string) []string {
	var found []string
	for _, p := range paths {
		if info, err := os.Stat(p); err == nil && info.Mode().IsRegular() {
			found = append(found, p)
		}
	}
	return found
}
