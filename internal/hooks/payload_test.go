package hooks

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPayload(t *testing.T) {
	p, err := NewPayload(EventTaskPreAdd, map[string]any{
		"name":      "demo",
		"details":   "body",
		"parent_id": nil,
	})
	require.NoError(t, err)

	assert.Equal(t, EventTaskPreAdd, p.Event())
	assert.Equal(t, "demo", p.String("name", ""))
	assert.Equal(t, "body", p.String("details", ""))

	v, ok := p.Get("parent_id")
	assert.True(t, ok)
	assert.Nil(t, v)
}

func TestNewPayloadMissingRequiredField(t *testing.T) {
	_, err := NewPayload(EventTaskPreAdd, map[string]any{"name": "demo"})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrPayload)

	var pe *PayloadError
	require.True(t, errors.As(err, &pe))
	assert.Equal(t, "details", pe.Field)
}

func TestNewPayloadWrongFieldType(t *testing.T) {
	_, err := NewPayload(EventTaskPreAdd, map[string]any{
		"name":    42,
		"details": "body",
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrPayload)
	assert.Contains(t, err.Error(), "name")
}

func TestNewPayloadUnknownEvent(t *testing.T) {
	_, err := NewPayload(Event("task-pre-frobnicate"), map[string]any{})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrPayload)
}

func TestNewPayloadListField(t *testing.T) {
	_, err := NewPayload(EventTaskPreImport, map[string]any{"tasks": "not-a-list"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "must be a list")

	p, err := NewPayload(EventTaskPreImport, map[string]any{"tasks": []any{map[string]any{"name": "a"}}})
	require.NoError(t, err)
	require.NotNil(t, p)
}

func TestNewPayloadRejectsNonSerializableValue(t *testing.T) {
	_, err := NewPayload(EventTaskPreAdd, map[string]any{
		"name":    "demo",
		"details": "body",
		"ch":      make(chan int),
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrPayload)
}

func TestNewPayloadCarriesExtraFields(t *testing.T) {
	p, err := NewPayload(EventTaskPreAdd, map[string]any{
		"name":    "demo",
		"details": "body",
		"labels":  []any{"urgent"},
	})
	require.NoError(t, err)

	v, ok := p.Get("labels")
	assert.True(t, ok)
	assert.Equal(t, []any{"urgent"}, v)
}

func TestNewPayloadCopiesCallerMap(t *testing.T) {
	fields := map[string]any{"name": "demo", "details": "body"}
	p, err := NewPayload(EventTaskPreAdd, fields)
	require.NoError(t, err)

	fields["name"] = "mutated-by-caller"
	assert.Equal(t, "demo", p.String("name", ""))
}

func TestPayloadMergeShallowOverwrite(t *testing.T) {
	p, err := NewPayload(EventTaskPreAdd, map[string]any{
		"name":    "demo",
		"details": "body",
		"meta":    map[string]any{"a": 1, "b": 2},
	})
	require.NoError(t, err)

	p.Merge(map[string]any{
		"name": "DEMO",
		"meta": map[string]any{"a": 9},
	})

	assert.Equal(t, "DEMO", p.String("name", ""))
	assert.Equal(t, "body", p.String("details", ""))

	// Nested structures are replaced whole, not deep-merged.
	meta, _ := p.Get("meta")
	assert.Equal(t, map[string]any{"a": 9}, meta)
}
