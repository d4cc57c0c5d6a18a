package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dotcommander/tasky/internal/models"
)

// InsertEventTx appends an event log row inside an existing transaction and
// returns its ID. The log is append-only: rows are never updated.
func InsertEventTx(tx *sql.Tx, kind, taskID, message string) (int64, error) {
	result, err := tx.ExecContext(context.Background(), `
		INSERT INTO events (kind, task_id, message, created_at)
		VALUES (?, ?, ?, CURRENT_TIMESTAMP)
	`, kind, taskID, message)
	if err != nil {
		return 0, fmt.Errorf("failed to insert event: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get event id: %w", err)
	}
	return id, nil
}

// ListEvents returns the most recent events for a task, newest first.
func ListEvents(db *sql.DB, taskID string, limit int) ([]*models.Event, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := db.QueryContext(context.Background(), `
		SELECT id, kind, task_id, message, created_at
		FROM events
		WHERE task_id = ?
		ORDER BY id DESC
		LIMIT ?
	`, taskID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var events []*models.Event
	for rows.Next() {
		var e models.Event
		if err := rows.Scan(&e.ID, &e.Kind, &e.TaskID, &e.Message, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan event: %w", err)
		}
		events = append(events, &e)
	}
	return events, rows.Err()
}
