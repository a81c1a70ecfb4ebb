package config

import (
	"os"
	"path/filepath"
)

const appDirName = ".breeder"

// DataDir returns the base data directory for the breeder client.
func DataDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, appDirName), nil
}

// ConfigPath returns the path to the TOML configuration file.
func ConfigPath() (string, error) {
	dataDir, err := DataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dataDir, "config.toml"), nil
}

// UILogPath returns the path the terminal UI writes its log to.
func UILogPath() (string, error) {
	dataDir, err := DataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dataDir, "ui.log"), nil
}

// KeybindingsPath returns the path to the keybinding overrides file.
func KeybindingsPath() (string, error) {
	dataDir, err := DataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dataDir, "keybindings.json"), nil
}

// SelectionsPath returns the default selection snapshot file for a backend.
func SelectionsPath(backend string) (string, error) {
	dataDir, err := DataDir()
	if err != nil {
		return "", err
	}
	name := "selections.json"
	if backend == StateBackendBbolt {
		name = "selections.db"
	}
	return filepath.Join(dataDir, name), nil
}
