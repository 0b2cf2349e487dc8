package config

import (
	"os"
	"path/filepath"
	"runtime"
)

// LogDirectory returns the directory for SplatView log files.
//
// Locations:
//   - Windows: %LOCALAPPDATA%\SplatView\logs
//   - Unix: ~/.config/splatview/logs
func LogDirectory() string {
	if runtime.GOOS == "windows" {
		localAppData := os.Getenv("LOCALAPPDATA")
		if localAppData == "" {
			homeDir, err := os.UserHomeDir()
			if err != nil {
				return filepath.Join(os.TempDir(), "splatview-logs")
			}
			localAppData = filepath.Join(homeDir, "AppData", "Local")
		}
		return filepath.Join(localAppData, "SplatView", "logs")
	}

	configDir, err := os.UserConfigDir()
	if err != nil {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return filepath.Join(os.TempDir(), "splatview-logs")
		}
		return filepath.Join(homeDir, ".config", "splatview", "logs")
	}
	return filepath.Join(configDir, "splatview", "logs")
}

// EnsureLogDirectory creates the log directory with owner-only permissions.
func EnsureLogDirectory() error {
	return os.MkdirAll(LogDirectory(), 0700)
}

// DefaultLogFile is the suggested value for [logging] file.
func DefaultLogFile() string {
	return filepath.Join(LogDirectory(), "splatview.log")
}

// ResolveLogFile expands a leading ~ in the configured log path.
func ResolveLogFile(path string) string {
	if len(path) >= 2 && path[0] == '~' && (path[1] == '/' || path[1] == '\\') {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[2:])
		}
	}
	return path
}
