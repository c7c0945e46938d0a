package state

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const (
	// stateDir is the directory under the user's home where snapshots are stored.
	stateDir = ".gcping"
	// dirPermissions is the permission mode for state directories.
	dirPermissions = 0o700
	// filePermissions is the permission mode for state files.
	filePermissions = 0o600
)

// ErrStateNotFound is returned when no snapshot exists at the requested path.
var ErrStateNotFound = errors.New("state not found")

// ErrInvalidStateName is returned when a snapshot name contains path traversal characters.
var ErrInvalidStateName = errors.New(
	"invalid state name: must not contain path separators or '..'",
)

// DefaultPath returns the snapshot path for name under the user's home directory.
func DefaultPath(name string) (string, error) {
	if name == "" ||
		strings.Contains(name, "/") ||
		strings.Contains(name, "\\") ||
		strings.Contains(name, "..") {
		return "", ErrInvalidStateName
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}

	return filepath.Join(home, stateDir, name+".json"), nil
}

// Save writes value as indented JSON to path, replacing any previous snapshot atomically.
func Save(path string, value any) error {
	dir := filepath.Dir(path)

	err := os.MkdirAll(dir, dirPermissions)
	if err != nil {
		return fmt.Errorf("failed to create state directory %s: %w", dir, err)
	}

	data, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal state: %w", err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temporary state file: %w", err)
	}

	tmpName := tmp.Name()

	defer func() { _ = os.Remove(tmpName) }()

	_, err = tmp.Write(data)
	if err != nil {
		_ = tmp.Close()

		return fmt.Errorf("failed to write state: %w", err)
	}

	err = tmp.Chmod(filePermissions)
	if err != nil {
		_ = tmp.Close()

		return fmt.Errorf("failed to set state permissions: %w", err)
	}

	err = tmp.Close()
	if err != nil {
		return fmt.Errorf("failed to close state file: %w", err)
	}

	err = os.Rename(tmpName, path)
	if err != nil {
		return fmt.Errorf("failed to replace state file: %w", err)
	}

	return nil
}

// Load reads the snapshot at path into value.
// Returns ErrStateNotFound if no snapshot exists.
func Load(path string, value any) error {
	//nolint:gosec // path comes from configuration or DefaultPath
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: %s", ErrStateNotFound, path)
		}

		return fmt.Errorf("failed to read state: %w", err)
	}

	err = json.Unmarshal(data, value)
	if err != nil {
		return fmt.Errorf("failed to unmarshal state: %w", err)
	}

	return nil
}

// Delete removes the snapshot at path. Returns nil if it does not exist.
func Delete(path string) error {
	err := os.Remove(path)
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove state: %w", err)
	}

	return nil
}
