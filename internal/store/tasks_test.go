package store

import (
	"database/sql"
	"errors"
	"testing"

	"github.com/dotcommander/tasky/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateAndGetTask(t *testing.T) {
	db := setupTestDB(t)

	task, err := CreateTask(db, "write report", "quarterly numbers", "", "", 2)
	require.NoError(t, err)

	assert.Regexp(t, `^task_`, task.ID)
	assert.Equal(t, "write report", task.Name)
	assert.Equal(t, "quarterly numbers", task.Details)
	assert.Equal(t, models.TaskStatusPending, task.Status)
	assert.Equal(t, 2, task.Priority)
	assert.Equal(t, 1, task.Version)
	assert.Empty(t, task.ProjectID)
	assert.Empty(t, task.ParentID)
	assert.False(t, task.CreatedAt.IsZero())

	got, err := GetTask(db, task.ID)
	require.NoError(t, err)
	assert.Equal(t, task.ID, got.ID)
	assert.Equal(t, task.Name, got.Name)
}

func TestGetTaskNotFound(t *testing.T) {
	db := setupTestDB(t)

	_, err := GetTask(db, "task_missing")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "task not found: task_missing")
}

func TestCreateTaskWithParent(t *testing.T) {
	db := setupTestDB(t)

	parent, err := CreateTask(db, "epic", "", "", "", 0)
	require.NoError(t, err)

	child, err := CreateTask(db, "subtask", "", "", parent.ID, 0)
	require.NoError(t, err)
	assert.Equal(t, parent.ID, child.ParentID)
}

func TestDeleteTaskClearsChildParent(t *testing.T) {
	db := setupTestDB(t)

	parent, err := CreateTask(db, "epic", "", "", "", 0)
	require.NoError(t, err)
	child, err := CreateTask(db, "subtask", "", "", parent.ID, 0)
	require.NoError(t, err)

	require.NoError(t, Transact(db, func(tx *sql.Tx) error {
		return DeleteTaskTx(tx, parent.ID)
	}))

	_, err = GetTask(db, parent.ID)
	assert.Error(t, err)

	// ON DELETE SET NULL keeps the child but detaches it.
	got, err := GetTask(db, child.ID)
	require.NoError(t, err)
	assert.Empty(t, got.ParentID)
}

func TestListTasksFiltersAndOrder(t *testing.T) {
	db := setupTestDB(t)

	proj, err := CreateProject(db, "demo", t.TempDir())
	require.NoError(t, err)

	low, err := CreateTask(db, "low", "", proj.ID, "", 1)
	require.NoError(t, err)
	high, err := CreateTask(db, "high", "", proj.ID, "", 9)
	require.NoError(t, err)
	_, err = CreateTask(db, "elsewhere", "", "", "", 5)
	require.NoError(t, err)

	tasks, err := ListTasks(db, proj.ID, "")
	require.NoError(t, err)
	require.Len(t, tasks, 2)
	assert.Equal(t, high.ID, tasks[0].ID)
	assert.Equal(t, low.ID, tasks[1].ID)

	require.NoError(t, Transact(db, func(tx *sql.Tx) error {
		return UpdateTaskStatusTx(tx, high.ID, models.TaskStatusCompleted, high.Version)
	}))

	pending, err := ListTasks(db, proj.ID, models.TaskStatusPending)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, low.ID, pending[0].ID)

	all, err := ListTasks(db, "", "")
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestUpdateTaskStatusBumpsVersion(t *testing.T) {
	db := setupTestDB(t)

	task, err := CreateTask(db, "t", "", "", "", 0)
	require.NoError(t, err)

	require.NoError(t, Transact(db, func(tx *sql.Tx) error {
		return UpdateTaskStatusTx(tx, task.ID, models.TaskStatusInProgress, task.Version)
	}))

	got, err := GetTask(db, task.ID)
	require.NoError(t, err)
	assert.Equal(t, models.TaskStatusInProgress, got.Status)
	assert.Equal(t, 2, got.Version)
}

func TestUpdateTaskStatusVersionConflict(t *testing.T) {
	db := setupTestDB(t)

	task, err := CreateTask(db, "t", "", "", "", 0)
	require.NoError(t, err)

	err = Transact(db, func(tx *sql.Tx) error {
		return UpdateTaskStatusTx(tx, task.ID, models.TaskStatusCompleted, task.Version+1)
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrVersionConflict)

	var vc *VersionConflictError
	require.True(t, errors.As(err, &vc))
	assert.Equal(t, "task", vc.Entity)
	assert.Equal(t, task.ID, vc.ID)

	// The row is untouched.
	got, err := GetTask(db, task.ID)
	require.NoError(t, err)
	assert.Equal(t, models.TaskStatusPending, got.Status)
	assert.Equal(t, 1, got.Version)
}

func TestDeleteTaskNotFound(t *testing.T) {
	db := setupTestDB(t)

	err := Transact(db, func(tx *sql.Tx) error {
		return DeleteTaskTx(tx, "task_missing")
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "task not found")
}
