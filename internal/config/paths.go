package config

import (
	"os"
	"path/filepath"
)

// DefaultConfigDir returns the figbar config directory, normally
// $HOME/.config/figbar.
func DefaultConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return DefaultConfigDirName
	}
	return filepath.Join(home, ".config", DefaultConfigDirName)
}

// DefaultConfigPath returns the default config file path.
func DefaultConfigPath() string {
	return filepath.Join(DefaultConfigDir(), DefaultConfigFileName)
}
