package app

import (
	"os"
	"path/filepath"
)

// ConfigDir returns ~/.config/tasky/ on all platforms.
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "tasky"), nil
}

// EnsureConfigDir creates the config directory and default config.yaml if missing.
func EnsureConfigDir() error {
	dir, err := ConfigDir()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(dir, 0750); err != nil {
		return err
	}

	configFile := filepath.Join(dir, "config.yaml")
	if _, err := os.Stat(configFile); os.IsNotExist(err) {
		return os.WriteFile(configFile, []byte(defaultConfig), 0600)
	}
	return nil
}

const defaultConfig = `# tasky configuration
# Run: tasky --help

# Optional: override the SQLite database location.
# Can also be set via TASKY_DB_PATH or --db-path.
# db_path: ~/.config/tasky/tasky.db

# Optional: default per-hook timeout in milliseconds for project hooks
# that do not set timeout_ms themselves. 0 disables the default timeout.
# hook_timeout_ms: 10000
`
