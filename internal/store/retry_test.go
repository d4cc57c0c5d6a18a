package store

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRetryWithBackoffRetriesLockedErrors(t *testing.T) {
	attempts := 0
	err := RetryWithBackoff(func() error {
		attempts++
		if attempts < 3 {
			return errors.New("database is locked (5) (SQLITE_BUSY)")
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 3, attempts)
}

func TestRetryWithBackoffStopsOnPermanentError(t *testing.T) {
	attempts := 0
	permanent := errors.New("UNIQUE constraint failed: projects.root")
	err := RetryWithBackoff(func() error {
		attempts++
		return permanent
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, permanent)
	assert.Equal(t, 1, attempts)
}

func TestIsRetryableError(t *testing.T) {
	assert.True(t, isRetryableError(errors.New("database is locked")))
	assert.True(t, isRetryableError(errors.New("sqlite: step: SQLITE_BUSY")))
	assert.False(t, isRetryableError(errors.New("UNIQUE constraint failed")))
	assert.False(t, isRetryableError(&VersionConflictError{Entity: "task", ID: "t", Version: 1}))
}
