package hooks

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDisabledBus(t *testing.T) {
	b := Disabled()
	assert.False(t, b.Enabled())

	p := preAddPayload(t)
	out, err := b.Mutate(context.Background(), EventTaskPreAdd, p)
	require.NoError(t, err)
	assert.Same(t, p, out)

	require.NoError(t, b.Emit(context.Background(), EventTaskCompleted, map[string]any{"task_id": "task_1"}))
}

func TestNewBusNilManifestIsDisabled(t *testing.T) {
	b := NewBus(nil, 0)
	assert.False(t, b.Enabled())
}

func TestBusEnabledWithZeroHooks(t *testing.T) {
	_, metaDir := newProjectDir(t)
	writeManifest(t, metaDir, `{"version": 1, "hooks": []}`)

	// A present manifest enables the bus even before any hooks are declared.
	b := NewBus(mustLoad(t, metaDir), 0)
	assert.True(t, b.Enabled())

	p := preAddPayload(t)
	out, err := b.Mutate(context.Background(), EventTaskPreAdd, p)
	require.NoError(t, err)
	assert.Equal(t, "demo", out.String("name", ""))
}

func TestBusMutateRunsHooks(t *testing.T) {
	_, metaDir := newProjectDir(t)
	writeScript(t, metaDir, "upper.sh", `sed 's/"name":"demo"/"name":"DEMO"/'`)
	writeManifest(t, metaDir, `{
		"version": 1,
		"hooks": [{"id": "upper", "event": "task-pre-add", "command": ["./upper.sh"]}]
	}`)

	b := NewBus(mustLoad(t, metaDir), 0)
	out, err := b.Mutate(context.Background(), EventTaskPreAdd, preAddPayload(t))
	require.NoError(t, err)
	assert.Equal(t, "DEMO", out.String("name", ""))
}

func TestBusEmitValidatesFields(t *testing.T) {
	_, metaDir := newProjectDir(t)
	writeManifest(t, metaDir, `{"version": 1, "hooks": []}`)

	b := NewBus(mustLoad(t, metaDir), 0)
	err := b.Emit(context.Background(), EventTaskCompleted, map[string]any{})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrPayload)
}

func TestBusEmitPropagatesHookFailure(t *testing.T) {
	_, metaDir := newProjectDir(t)
	writeScript(t, metaDir, "reject.sh", "exit 7")
	writeManifest(t, metaDir, `{
		"version": 1,
		"hooks": [{"id": "reject", "event": "task-completed", "command": ["./reject.sh"]}]
	}`)

	b := NewBus(mustLoad(t, metaDir), 0)
	err := b.Emit(context.Background(), EventTaskCompleted, map[string]any{"task_id": "task_1"})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrExec)
}

func TestBusEmitToleratedFailure(t *testing.T) {
	_, metaDir := newProjectDir(t)
	writeScript(t, metaDir, "reject.sh", "exit 7")
	writeManifest(t, metaDir, `{
		"version": 1,
		"hooks": [{"id": "reject", "event": "task-completed", "command": ["./reject.sh"], "continue_on_error": true}]
	}`)

	b := NewBus(mustLoad(t, metaDir), 0)
	err := b.Emit(context.Background(), EventTaskCompleted, map[string]any{"task_id": "task_1"})
	require.NoError(t, err)
}
