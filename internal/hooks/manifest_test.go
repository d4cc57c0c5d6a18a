package hooks

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadManifestAbsent(t *testing.T) {
	_, metaDir := newProjectDir(t)

	m, err := LoadManifest(metaDir)
	require.NoError(t, err)
	assert.Nil(t, m)
}

func TestLoadManifestValid(t *testing.T) {
	_, metaDir := newProjectDir(t)
	writeScript(t, metaDir, "normalize.sh", "cat")
	writeManifest(t, metaDir, `{
		"version": 1,
		"hooks": [
			{"id": "normalize", "event": "task-pre-add", "command": ["./normalize.sh"]},
			{"id": "audit", "event": "task-post-add", "command": ["logger", "-t", "tasky"], "continue_on_error": true},
			{"id": "tag", "event": "task-pre-add", "command": ["./normalize.sh"], "timeout_ms": 500}
		]
	}`)

	m := mustLoad(t, metaDir)
	assert.Equal(t, 1, m.Version)
	require.Len(t, m.Hooks, 3)

	// Declaration order per event is execution order.
	preAdd := m.ForEvent(EventTaskPreAdd)
	require.Len(t, preAdd, 2)
	assert.Equal(t, "normalize", preAdd[0].ID)
	assert.Equal(t, "tag", preAdd[1].ID)

	postAdd := m.ForEvent(EventTaskPostAdd)
	require.Len(t, postAdd, 1)
	assert.True(t, postAdd[0].ContinueOnError)

	assert.Empty(t, m.ForEvent(EventTaskDeleted))
}

func TestLoadManifestBadJSON(t *testing.T) {
	_, metaDir := newProjectDir(t)
	writeManifest(t, metaDir, `{"version": 1,`)

	_, err := LoadManifest(metaDir)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrConfig)
	assert.Contains(t, err.Error(), "not valid JSON")
}

func TestLoadManifestUnsupportedVersion(t *testing.T) {
	_, metaDir := newProjectDir(t)
	writeManifest(t, metaDir, `{"version": 99, "hooks": []}`)

	_, err := LoadManifest(metaDir)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrConfig)
	assert.Contains(t, err.Error(), "unsupported manifest version 99")
}

func TestLoadManifestDuplicateID(t *testing.T) {
	_, metaDir := newProjectDir(t)
	// Duplicate ids are rejected even across different events.
	writeManifest(t, metaDir, `{
		"version": 1,
		"hooks": [
			{"id": "dup", "event": "task-pre-add", "command": ["true"]},
			{"id": "dup", "event": "task-deleted", "command": ["true"]}
		]
	}`)

	_, err := LoadManifest(metaDir)
	require.Error(t, err)

	var ce *ConfigError
	require.True(t, errors.As(err, &ce))
	assert.Equal(t, "dup", ce.HookID)
	assert.Contains(t, ce.Reason, "duplicate")
}

func TestLoadManifestEmptyCommand(t *testing.T) {
	_, metaDir := newProjectDir(t)
	writeManifest(t, metaDir, `{
		"version": 1,
		"hooks": [{"id": "empty", "event": "task-pre-add", "command": []}]
	}`)

	_, err := LoadManifest(metaDir)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrConfig)
	assert.Contains(t, err.Error(), "command must not be empty")
}

func TestLoadManifestUnknownEvent(t *testing.T) {
	_, metaDir := newProjectDir(t)
	writeManifest(t, metaDir, `{
		"version": 1,
		"hooks": [{"id": "x", "event": "task-pre-frobnicate", "command": ["true"]}]
	}`)

	_, err := LoadManifest(metaDir)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrConfig)
	assert.Contains(t, err.Error(), "unknown event")
}

func TestLoadManifestMissingLocalScript(t *testing.T) {
	_, metaDir := newProjectDir(t)
	writeManifest(t, metaDir, `{
		"version": 1,
		"hooks": [{"id": "ghost", "event": "task-pre-add", "command": ["./missing.sh"]}]
	}`)

	_, err := LoadManifest(metaDir)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrConfig)
	assert.Contains(t, err.Error(), "hook script not found")
}

func TestLoadManifestBareCommandNotStatted(t *testing.T) {
	_, metaDir := newProjectDir(t)
	// Bare names resolve via PATH at exec time; existence is not checked at
	// load time and they never join the fingerprint.
	writeManifest(t, metaDir, `{
		"version": 1,
		"hooks": [{"id": "ext", "event": "task-pre-add", "command": ["definitely-not-on-path-xyz"]}]
	}`)

	m := mustLoad(t, metaDir)
	assert.Empty(t, m.ScriptPaths())
}

func TestLoadManifestSchemaViolation(t *testing.T) {
	_, metaDir := newProjectDir(t)
	writeManifest(t, metaDir, `{"version": "one", "hooks": []}`)

	_, err := LoadManifest(metaDir)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrConfig)
	assert.Contains(t, err.Error(), "schema violation")
}

func TestManifestScriptPaths(t *testing.T) {
	_, metaDir := newProjectDir(t)
	upper := writeScript(t, metaDir, "upper.sh", "cat")
	tag := writeScript(t, metaDir, "tag.sh", "cat")
	writeManifest(t, metaDir, `{
		"version": 1,
		"hooks": [
			{"id": "a", "event": "task-pre-add", "command": ["./upper.sh"]},
			{"id": "b", "event": "task-pre-add", "command": ["./tag.sh", "--fast"]},
			{"id": "c", "event": "task-deleted", "command": ["./upper.sh"]},
			{"id": "d", "event": "task-updated", "command": ["sh", "-c", "cat"]}
		]
	}`)

	m := mustLoad(t, metaDir)

	// Deduplicated, sorted, local scripts only.
	assert.Equal(t, []string{tag, upper}, m.ScriptPaths())
}

func TestDefinitionTimeout(t *testing.T) {
	d := Definition{TimeoutMS: 250}
	assert.Equal(t, "250ms", d.Timeout(0).String())

	d = Definition{}
	assert.Equal(t, "5s", d.Timeout(5e9).String())
	assert.Equal(t, "0s", d.Timeout(0).String())
}
