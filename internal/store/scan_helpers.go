package store

import (
	"database/sql"

	"github.com/dotcommander/tasky/internal/models"
)

// scanNullString converts sql.NullString to string (empty if NULL)
func scanNullString(ns sql.NullString) string {
	if ns.Valid {
		return ns.String
	}
	return ""
}

// rowScanner is the common surface of *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

// scanTaskRow scans and hydrates a task from a row selected with taskColumns.
func scanTaskRow(row rowScanner) (*models.Task, error) {
	var task models.Task
	var projID, parentID sql.NullString

	err := row.Scan(
		&task.ID,
		&task.Name,
		&task.Details,
		&task.Status,
		&task.Priority,
		&projID,
		&parentID,
		&task.Version,
		&task.CreatedAt,
		&task.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	task.ProjectID = scanNullString(projID)
	task.ParentID = scanNullString(parentID)
	return &task, nil
}

// taskColumns is the SELECT column list scanTaskRow expects.
const taskColumns = "id, name, details, status, priority, project_id, parent_id, version, created_at, updated_at"
