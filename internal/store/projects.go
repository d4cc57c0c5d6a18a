package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/dotcommander/tasky/internal/models"
)

// CreateProject registers a project root. Name and root are unique; a
// duplicate returns the UNIQUE constraint error from SQLite.
func CreateProject(db *sql.DB, name, root string) (*models.Project, error) {
	if strings.TrimSpace(name) == "" {
		return nil, errors.New("project name is required")
	}

	projectID := generateProjectID()
	var project *models.Project

	err := Transact(db, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(context.Background(), `
			INSERT INTO projects (id, name, root, created_at)
			VALUES (?, ?, ?, CURRENT_TIMESTAMP)
		`, projectID, name, root)
		if err != nil {
			return fmt.Errorf("failed to insert project: %w", err)
		}

		row := tx.QueryRowContext(context.Background(), `
			SELECT id, name, root, created_at FROM projects WHERE id = ?
		`, projectID)

		var p models.Project
		if err := row.Scan(&p.ID, &p.Name, &p.Root, &p.CreatedAt); err != nil {
			return fmt.Errorf("failed to fetch created project: %w", err)
		}
		project = &p
		return nil
	})
	if err != nil {
		return nil, err
	}

	return project, nil
}

// GetProjectByRoot looks a project up by its registered root path.
// Returns (nil, nil) when the root is not registered.
func GetProjectByRoot(db *sql.DB, root string) (*models.Project, error) {
	row := db.QueryRowContext(context.Background(), `
		SELECT id, name, root, created_at FROM projects WHERE root = ?
	`, root)

	var p models.Project
	err := row.Scan(&p.ID, &p.Name, &p.Root, &p.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch project: %w", err)
	}
	return &p, nil
}

// ListProjects returns all registered projects ordered by name.
func ListProjects(db *sql.DB) ([]*models.Project, error) {
	rows, err := db.QueryContext(context.Background(), `
		SELECT id, name, root, created_at FROM projects ORDER BY name ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var projects []*models.Project
	for rows.Next() {
		var p models.Project
		if err := rows.Scan(&p.ID, &p.Name, &p.Root, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan project: %w", err)
		}
		projects = append(projects, &p)
	}
	return projects, rows.Err()
}
