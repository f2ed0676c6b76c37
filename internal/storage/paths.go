// Package storage persists belief snapshots so a game can be resumed or
// analysed offline.
package storage

import (
	"os"
	"path/filepath"
	"runtime"

	"github.com/rs/zerolog/log"
)

const appName = "kbelief"

// DataDir returns the platform-specific data directory for the application.
// - macOS: ~/Library/Application Support/kbelief/
// - Linux: ~/.local/share/kbelief/
// - Windows: %APPDATA%/kbelief/
func DataDir() (string, error) {
	var baseDir string

	switch runtime.GOOS {
	case "darwin":
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		baseDir = filepath.Join(homeDir, "Library", "Application Support")

	case "windows":
		baseDir = os.Getenv("APPDATA")
		if baseDir == "" {
			homeDir, err := os.UserHomeDir()
			if err != nil {
				return "", err
			}
			baseDir = filepath.Join(homeDir, "AppData", "Roaming")
		}

	default:
		// Linux and other Unix-like: XDG_DATA_HOME or ~/.local/share/
		baseDir = os.Getenv("XDG_DATA_HOME")
		if baseDir == "" {
			homeDir, err := os.UserHomeDir()
			if err != nil {
				return "", err
			}
			baseDir = filepath.Join(homeDir, ".local", "share")
		}
	}

	dataDir := filepath.Join(baseDir, appName)
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return "", err
	}

	return dataDir, nil
}

// DatabaseDir returns the directory for storing the BadgerDB database.
func DatabaseDir() (string, error) {
	dataDir, err := DataDir()
	if err != nil {
		return "", err
	}

	dbDir := filepath.Join(dataDir, "db")
	if err := os.MkdirAll(dbDir, 0755); err != nil {
		return "", err
	}

	log.Debug().Str("dir", dbDir).Msg("database directory")

	return dbDir, nil
}
