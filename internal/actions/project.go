package actions

import (
	"database/sql"
	"fmt"
	"path/filepath"

	"github.com/dotcommander/tasky/internal/models"
	"github.com/dotcommander/tasky/internal/project"
	"github.com/dotcommander/tasky/internal/store"
)

// ProjectInit creates the .tasky metadata directory for pc and registers the
// project root in the database. Re-running on an already-registered root
// returns the existing project unchanged.
func ProjectInit(db *sql.DB, pc project.Context, name string) (*models.Project, bool, error) {
	if err := pc.EnsureMetaDir(); err != nil {
		return nil, false, err
	}

	existing, err := store.GetProjectByRoot(db, pc.Root())
	if err != nil {
		return nil, false, err
	}
	if existing != nil {
		return existing, false, nil
	}

	if name == "" {
		name = filepath.Base(pc.Root())
	}

	created, err := store.CreateProject(db, name, pc.Root())
	if err != nil {
		return nil, false, fmt.Errorf("failed to register project: %w", err)
	}
	return created, true, nil
}
