package hooks

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// newProjectDir creates a project root with a .tasky/hooks directory and
// returns (root, metaDir).
func newProjectDir(t *testing.T) (string, string) {
	t.Helper()

	root := t.TempDir()
	metaDir := filepath.Join(root, ".tasky")
	require.NoError(t, os.MkdirAll(filepath.Join(metaDir, "hooks"), 0o755))
	return root, metaDir
}

func writeManifest(t *testing.T, metaDir, content string) string {
	t.Helper()

	path := ManifestPath(metaDir)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

// writeScript drops an executable shell script into the hooks dir.
func writeScript(t *testing.T, metaDir, name, body string) string {
	t.Helper()

	path := filepath.Join(metaDir, "hooks", name)
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"+body+"\n"), 0o755))
	return path
}

func mustLoad(t *testing.T, metaDir string) *Manifest {
	t.Helper()

	m, err := LoadManifest(metaDir)
	require.NoError(t, err)
	require.NotNil(t, m)
	return m
}
