package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// appDirName is the directory name used under the user config/data roots.
const appDirName = "desk"

// Dir returns the desk configuration directory (~/.config/desk on Linux).
func Dir() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine config directory: %w", err)
	}
	return filepath.Join(base, appDirName), nil
}

// DataDir returns the desk data directory where workspace records,
// state, and logs live (~/.local/share/desk on Linux).
//
// DESK_DATA_DIR overrides the default, which tests rely on to isolate
// their stores.
func DataDir() (string, error) {
	if dir := os.Getenv("DESK_DATA_DIR"); dir != "" {
		return dir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(home, ".local", "share", appDirName), nil
}

// WorkspacesDir returns the directory holding workspace record files.
func WorkspacesDir() (string, error) {
	data, err := DataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(data, "workspaces"), nil
}

// StateFile returns the path of the global state file (current
// workspace pointers and switch history).
func StateFile() (string, error) {
	data, err := DataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(data, "state.json"), nil
}

// LogsDir returns the directory where log files are written.
func LogsDir() (string, error) {
	data, err := DataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(data, "logs"), nil
}

// CredentialsFile returns the path of the stored API credentials.
func CredentialsFile() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "credentials.json"), nil
}

// EnsureDir creates dir (and parents) if it does not exist.
func EnsureDir(dir string) error {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("creating directory %s: %w", dir, err)
	}
	return nil
}
