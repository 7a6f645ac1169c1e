package storage

import (
	"fmt"
	"os"
	"path/filepath"
)

// EnvDataDir overrides the data directory when set.
const EnvDataDir = "WORKTICK_DATA_DIR"

const databaseFileName = "stats.db"

// ResolveDataDir returns the directory holding the statistics database,
// creating it if needed.
//
// Resolution priority:
//  1. WORKTICK_DATA_DIR environment variable
//  2. the data_dir settings value
//  3. the per-user config directory for the app
func ResolveDataDir(appName, settingsValue string) (string, error) {
	dir := os.Getenv(EnvDataDir)
	if dir == "" {
		dir = settingsValue
	}
	if dir == "" {
		configDir, err := os.UserConfigDir()
		if err != nil {
			return "", fmt.Errorf("resolve user config dir: %w", err)
		}
		dir = filepath.Join(configDir, appName)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create data directory: %w", err)
	}
	return dir, nil
}

// DatabasePath returns the statistics database path inside the data directory.
func DatabasePath(dataDir string) string {
	return filepath.Join(dataDir, databaseFileName)
}
