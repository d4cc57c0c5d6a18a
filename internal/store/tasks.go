package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dotcommander/tasky/internal/models"
)

// CreateTask creates a new task. Task IDs follow the pattern
// task_<unix_nano>_<random_suffix>; initial status is "pending", version 1.
func CreateTask(db *sql.DB, name, details, projectID, parentID string, priority int) (*models.Task, error) {
	var task *models.Task

	err := Transact(db, func(tx *sql.Tx) error {
		createdTask, err := CreateTaskTx(tx, name, details, projectID, parentID, priority)
		if err != nil {
			return err
		}
		task = createdTask
		return nil
	})
	if err != nil {
		return nil, err
	}

	return task, nil
}

// CreateTaskTx inserts and returns a task inside an existing transaction.
func CreateTaskTx(tx *sql.Tx, name, details, projectID, parentID string, priority int) (*models.Task, error) {
	taskID := generateTaskID()
	var projVal, parentVal any
	if projectID != "" {
		projVal = projectID
	}
	if parentID != "" {
		parentVal = parentID
	}

	result, err := tx.ExecContext(context.Background(), `
		INSERT INTO tasks (id, name, details, status, priority, project_id, parent_id, version, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, 1, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)
	`, taskID, name, details, "pending", priority, projVal, parentVal)
	if err != nil {
		return nil, fmt.Errorf("failed to insert task: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return nil, errors.New("failed to insert task: no rows affected")
	}

	row := tx.QueryRowContext(context.Background(),
		`SELECT `+taskColumns+` FROM tasks WHERE id = ?`, taskID)

	task, err := scanTaskRow(row)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch created task: %w", err)
	}

	return task, nil
}

// GetTask fetches a task by ID.
func GetTask(db *sql.DB, taskID string) (*models.Task, error) {
	row := db.QueryRowContext(context.Background(),
		`SELECT `+taskColumns+` FROM tasks WHERE id = ?`, taskID)

	task, err := scanTaskRow(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("task not found: %s", taskID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch task: %w", err)
	}
	return task, nil
}

// ListTasks returns tasks, optionally filtered by project and/or status,
// ordered by priority (desc) then creation time.
func ListTasks(db *sql.DB, projectID string, status models.TaskStatus) ([]*models.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE 1=1`
	var args []any
	if projectID != "" {
		query += ` AND project_id = ?`
		args = append(args, projectID)
	}
	if status != "" {
		query += ` AND status = ?`
		args = append(args, string(status))
	}
	query += ` ORDER BY priority DESC, created_at ASC, id ASC`

	rows, err := db.QueryContext(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var tasks []*models.Task
	for rows.Next() {
		task, err := scanTaskRow(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan task: %w", err)
		}
		tasks = append(tasks, task)
	}
	return tasks, rows.Err()
}

// UpdateTaskStatusTx updates task status using optimistic concurrency.
// Returns *VersionConflictError if the version has changed since read.
func UpdateTaskStatusTx(tx *sql.Tx, taskID string, status models.TaskStatus, version int) error {
	result, err := tx.ExecContext(context.Background(), `
		UPDATE tasks
		SET status = ?, version = version + 1, updated_at = CURRENT_TIMESTAMP
		WHERE id = ? AND version = ?
	`, string(status), taskID, version)
	if err != nil {
		return fmt.Errorf("failed to update task: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return &VersionConflictError{Entity: "task", ID: taskID, Version: version}
	}
	return nil
}

// DeleteTaskTx removes a task. Child tasks keep existing with parent_id
// cleared by the schema's ON DELETE SET NULL.
func DeleteTaskTx(tx *sql.Tx, taskID string) error {
	result, err := tx.ExecContext(context.Background(), `DELETE FROM tasks WHERE id = ?`, taskID)
	if err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("task not found: %s", taskID)
	}
	return nil
}
