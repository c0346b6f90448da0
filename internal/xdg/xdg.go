// Package xdg provides XDG Base Directory Specification compliant paths
package xdg

import (
	"os"
	"path/filepath"

	"stackhand/internal/constants"
)

// ConfigDir returns the XDG config directory for stackhand
// Priority: XDG_CONFIG_HOME > ~/.config/stackhand
func ConfigDir() (string, error) {
	return resolve("XDG_CONFIG_HOME", ".config")
}

// DataDir returns the directory holding the database and default stacks.
// Priority: STACKHAND_DATA_DIR > XDG_DATA_HOME > ~/.local/share/stackhand
func DataDir() (string, error) {
	if dir := os.Getenv("STACKHAND_DATA_DIR"); dir != "" {
		return filepath.Clean(dir), nil
	}
	return resolve("XDG_DATA_HOME", filepath.Join(".local", "share"))
}

// StateDir returns the XDG state directory for stackhand
// Priority: XDG_STATE_HOME > ~/.local/state/stackhand
func StateDir() (string, error) {
	return resolve("XDG_STATE_HOME", filepath.Join(".local", "state"))
}

func resolve(envVar, homeRelative string) (string, error) {
	if base := os.Getenv(envVar); base != "" {
		return filepath.Join(base, constants.AppName), nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(homeDir, homeRelative, constants.AppName), nil
}
