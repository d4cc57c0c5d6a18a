package actions

import (
	"database/sql"
	"os"
	"path/filepath"
	"testing"

	"github.com/dotcommander/tasky/internal/hooks"
	"github.com/dotcommander/tasky/internal/lifecycle"
	"github.com/dotcommander/tasky/internal/store"
	"github.com/stretchr/testify/require"
)

// testEnv returns an Env over a fresh migrated database with hooks disabled.
func testEnv(t *testing.T) Env {
	t.Helper()

	db, err := store.InitDBWithPath(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	return Env{DB: db, Bus: hooks.Disabled(), Dispatcher: lifecycle.NewDispatcher()}
}

// hookedEnv builds a project dir with the given manifest and scripts, then
// returns an Env whose bus dispatches through them.
func hookedEnv(t *testing.T, db *sql.DB, manifest string, scripts map[string]string) Env {
	t.Helper()

	root := t.TempDir()
	hooksDir := filepath.Join(root, ".tasky", "hooks")
	require.NoError(t, os.MkdirAll(hooksDir, 0o755))

	for name, body := range scripts {
		path := filepath.Join(hooksDir, name)
		require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"+body+"\n"), 0o755))
	}
	require.NoError(t, os.WriteFile(filepath.Join(hooksDir, "hook.json"), []byte(manifest), 0o644))

	m, err := hooks.LoadManifest(filepath.Join(root, ".tasky"))
	require.NoError(t, err)
	require.NotNil(t, m)

	return Env{DB: db, Bus: hooks.NewBus(m, 0), Dispatcher: lifecycle.NewDispatcher()}
}
