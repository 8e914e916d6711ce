// Package filex keeps small secrets, such as the CLI access token, in files
// readable only by their owner.
package filex

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ErrNoSecret is returned by ReadSecret when the file does not exist.
var ErrNoSecret = errors.New("no stored secret")

// EnsureDir creates dir and any missing parents with owner-only access and
// returns its absolute path.
func EnsureDir(dir string) (string, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("abs %s: %w", dir, err)
	}

	if err := os.MkdirAll(abs, 0o700); err != nil {
		return "", fmt.Errorf("mkdir %s: %w", abs, err)
	}

	return abs, nil
}

// WriteSecret replaces the contents of path with value, creating the parent
// directory when needed. The file is written with mode 0600.
func WriteSecret(path, value string) error {
	dir, err := EnsureDir(filepath.Dir(path))
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, ".secret-*")
	if err != nil {
		return fmt.Errorf("create temp: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := tmp.Chmod(0o600); err != nil {
		tmp.Close()
		return fmt.Errorf("chmod: %w", err)
	}
	if _, err := tmp.WriteString(value); err != nil {
		tmp.Close()
		return fmt.Errorf("write: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close: %w", err)
	}

	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("rename %s: %w", path, err)
	}
	return nil
}

// ReadSecret returns the trimmed contents of path, or ErrNoSecret when the
// file is missing or empty.
func ReadSecret(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", ErrNoSecret
		}
		return "", fmt.Errorf("read %s: %w", path, err)
	}

	value := strings.TrimSpace(string(data))
	if value == "" {
		return "", ErrNoSecret
	}
	return value, nil
}

// RemoveSecret deletes path. A missing file is not an error.
func RemoveSecret(path string) error {
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove %s: %w", path, err)
	}
	return nil
}
