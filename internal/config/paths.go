package config

import (
	"os"
	"path/filepath"
)

// GetGlobalConfigDir returns the path to the global configuration directory (~/.planwing).
// It's a variable to allow overriding in tests.
var GetGlobalConfigDir = func() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".planwing"), nil
}

// DefaultStorePath returns the SQLite database location.
// Resolution order (first match wins):
// 1. XDG_DATA_HOME/planwing/planwing.db (if XDG_DATA_HOME is set)
// 2. ~/.planwing/planwing.db
// 3. ./planwing.db
func DefaultStorePath() string {
	if xdgData := os.Getenv("XDG_DATA_HOME"); xdgData != "" {
		return filepath.Join(xdgData, "planwing", "planwing.db")
	}
	dir, err := GetGlobalConfigDir()
	if err != nil {
		return "planwing.db"
	}
	return filepath.Join(dir, "planwing.db")
}
