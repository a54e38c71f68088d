package fsutil

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// NearestExistingDir walks up from path until it finds an entry that exists.
// It returns that entry's path, or an error if the entry is not a directory.
func NearestExistingDir(path string) (string, error) {
	current := filepath.Clean(path)
	for {
		info, err := os.Stat(current)
		if err == nil {
			if !info.IsDir() {
				return "", fmt.Errorf("%s exists and is not a directory", current)
			}
			return current, nil
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("error accessing path %s: %w", current, err)
		}
		parent := filepath.Dir(current)
		if parent == current {
			return "", fmt.Errorf("no existing ancestor for %s", path)
		}
		current = parent
	}
}

// ProbeWritable checks that path could be created and written to, without
// creating it. The nearest existing ancestor must be a directory in which a
// temporary file can be created; the probe file is removed immediately.
func ProbeWritable(path string) error {
	dir, err := NearestExistingDir(path)
	if err != nil {
		return err
	}
	f, err := os.CreateTemp(dir, ".buildcheck-probe-*")
	if err != nil {
		return fmt.Errorf("%s is not writable: %w", dir, err)
	}
	name := f.Name()
	if err := f.Close(); err != nil {
		_ = os.Remove(name)
		return fmt.Errorf("failed to close probe file in %s: %w", dir, err)
	}
	return os.Remove(name)
}
