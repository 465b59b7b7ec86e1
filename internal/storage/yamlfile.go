// Package storage provides YAML file-backed implementations of the core
// collaborator stores. Each store keeps its records in memory, guarded by a
// mutex, and rewrites its file on every mutation.
package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"syscall"

	"gopkg.in/yaml.v3"
)

// fileVersion is written at the top of every store file.
const fileVersion = "1.0"

// readYAML decodes path into v. A missing file leaves v untouched and
// reports false.
func readYAML(path string, v any) (bool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("reading %s: %w", filepath.Base(path), err)
	}
	if err := yaml.Unmarshal(data, v); err != nil {
		return false, fmt.Errorf("parsing %s: %w", filepath.Base(path), err)
	}
	return true, nil
}

// writeYAML replaces path with the encoding of v. The data goes to a
// temporary file that is renamed over path, so readers see either the old
// or the new content. An advisory lock on path+".lock" serialises writers
// across processes.
func writeYAML(path string, v any) error {
	name := filepath.Base(path)
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return fmt.Errorf("saving %s: creating directory: %w", name, err)
	}
	data, err := yaml.Marshal(v)
	if err != nil {
		return fmt.Errorf("saving %s: marshaling YAML: %w", name, err)
	}

	unlock, err := lockFile(path + ".lock")
	if err != nil {
		return fmt.Errorf("saving %s: %w", name, err)
	}
	defer func() { _ = unlock() }()

	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0o600); err != nil {
		return fmt.Errorf("saving %s: writing temp file: %w", name, err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("saving %s: renaming temp file: %w", name, err)
	}
	return nil
}

// lockFile acquires an exclusive advisory lock on path and returns the
// function that releases it. syscall.Flock is Unix-specific.
func lockFile(path string) (unlock func() error, err error) {
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0o600)
	if err != nil {
		return nil, fmt.Errorf("opening lock file: %w", err)
	}
	if err := syscall.Flock(int(f.Fd()), syscall.LOCK_EX); err != nil {
		f.Close()
		return nil, fmt.Errorf("acquiring file lock: %w", err)
	}
	return func() error {
		defer f.Close()
		return syscall.Flock(int(f.Fd()), syscall.LOCK_UN)
	}, nil
}
