package app

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// GetDBPath resolves the database path.
// Order of precedence:
// 1) CLI override (e.g. --db-path)
// 2) Environment variable: TASKY_DB_PATH
// 3) config.yaml: db_path
// 4) Default: ~/.config/tasky/tasky.db
// Returns an absolute path to tasky.db and ensures the parent directory exists.
func GetDBPath() (string, error) {
	if override := getDBPathOverride(); override != "" {
		return EnsureDBDir(override)
	}

	if envPath := os.Getenv("TASKY_DB_PATH"); envPath != "" {
		return EnsureDBDir(envPath)
	}

	cfg, err := LoadSettings()
	if err != nil {
		return "", fmt.Errorf("failed to load config: %w", err)
	}
	if cfg.DBPath != "" {
		return EnsureDBDir(cfg.DBPath)
	}

	configDir, err := ConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to determine config directory: %w", err)
	}
	return EnsureDBDir(filepath.Join(configDir, "tasky.db"))
}

// EnsureDBDir expands the given path and creates its parent directory.
// In-memory databases pass through untouched.
func EnsureDBDir(dbPath string) (string, error) {
	if dbPath == ":memory:" || strings.Contains(dbPath, ":memory:") {
		return dbPath, nil
	}

	if strings.HasPrefix(dbPath, "~"+string(os.PathSeparator)) {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to expand home directory: %w", err)
		}
		dbPath = filepath.Join(home, dbPath[2:])
	}

	abs, err := filepath.Abs(dbPath)
	if err != nil {
		return "", fmt.Errorf("failed to resolve database path: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(abs), 0750); err != nil {
		return "", fmt.Errorf("failed to create database directory: %w", err)
	}
	return abs, nil
}
