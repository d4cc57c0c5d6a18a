package store

import (
	"database/sql"
	"fmt"
	"testing"

	"github.com/dotcommander/tasky/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInsertAndListEvents(t *testing.T) {
	db := setupTestDB(t)

	task, err := CreateTask(db, "t", "", "", "", 0)
	require.NoError(t, err)

	var firstID int64
	require.NoError(t, Transact(db, func(tx *sql.Tx) error {
		id, err := InsertEventTx(tx, models.EventKindTaskCreated, task.ID, "created")
		if err != nil {
			return err
		}
		firstID = id
		_, err = InsertEventTx(tx, models.EventKindTaskStatus, task.ID, "pending -> in_progress")
		return err
	}))
	assert.Greater(t, firstID, int64(0))

	events, err := ListEvents(db, task.ID, 0)
	require.NoError(t, err)
	require.Len(t, events, 2)

	// Newest first.
	assert.Equal(t, models.EventKindTaskStatus, events[0].Kind)
	assert.Equal(t, models.EventKindTaskCreated, events[1].Kind)
	assert.Equal(t, task.ID, events[0].TaskID)
}

func TestListEventsLimit(t *testing.T) {
	db := setupTestDB(t)

	require.NoError(t, Transact(db, func(tx *sql.Tx) error {
		for i := 0; i < 5; i++ {
			if _, err := InsertEventTx(tx, models.EventKindTaskStatus, "task_x", fmt.Sprintf("step %d", i)); err != nil {
				return err
			}
		}
		return nil
	}))

	events, err := ListEvents(db, "task_x", 2)
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, "step 4", events[0].Message)
	assert.Equal(t, "step 3", events[1].Message)
}

func TestListEventsEmpty(t *testing.T) {
	db := setupTestDB(t)

	events, err := ListEvents(db, "task_none", 10)
	require.NoError(t, err)
	assert.Empty(t, events)
}
