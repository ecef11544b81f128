package config

import (
	"os"
	"path/filepath"
)

const (
	// EnvConfigPath is the environment variable for explicit config path
	EnvConfigPath = "NODECOLOR_CONFIG"
	// ConfigFileName is the config file name looked up in the working directory
	ConfigFileName = "nodecolor.yaml"
	// ConfigDirName is the config directory name under XDG
	ConfigDirName = "nodecolor"
)

// SearchPaths lists candidate config files, highest priority first
func SearchPaths() []string {
	var paths []string

	if p := os.Getenv(EnvConfigPath); p != "" {
		paths = append(paths, p)
	}

	if abs, err := filepath.Abs(ConfigFileName); err == nil {
		paths = append(paths, abs)
	} else {
		paths = append(paths, ConfigFileName)
	}

	if xdgHome := os.Getenv("XDG_CONFIG_HOME"); xdgHome != "" {
		paths = append(paths, filepath.Join(xdgHome, ConfigDirName, "config.yaml"))
	}
	if home := os.Getenv("HOME"); home != "" {
		paths = append(paths, filepath.Join(home, ".config", ConfigDirName, "config.yaml"))
	}

	return append(paths, filepath.Join("/etc", ConfigDirName, "config.yaml"))
}

// FindConfigPath returns the first existing file from SearchPaths, or an
// empty string when there is none
func FindConfigPath() string {
	for _, p := range SearchPaths() {
		if fileExists(p) {
			return p
		}
	}
	return ""
}

// DefaultConfigPath returns the preferred location for a new config file
func DefaultConfigPath() string {
	if xdgHome := os.Getenv("XDG_CONFIG_HOME"); xdgHome != "" {
		return filepath.Join(xdgHome, ConfigDirName, "config.yaml")
	}
	if home := os.Getenv("HOME"); home != "" {
		return filepath.Join(home, ".config", ConfigDirName, "config.yaml")
	}
	return ConfigFileName
}

// EnsureConfigDir creates the config directory if it doesn't exist
func EnsureConfigDir(configPath string) error {
	return os.MkdirAll(filepath.Dir(configPath), 0755)
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
