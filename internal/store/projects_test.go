package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateProjectAndGetByRoot(t *testing.T) {
	db := setupTestDB(t)
	root := t.TempDir()

	p, err := CreateProject(db, "demo", root)
	require.NoError(t, err)
	assert.Regexp(t, `^proj_`, p.ID)
	assert.Equal(t, "demo", p.Name)
	assert.Equal(t, root, p.Root)

	got, err := GetProjectByRoot(db, root)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, p.ID, got.ID)
}

func TestGetProjectByRootUnregistered(t *testing.T) {
	db := setupTestDB(t)

	got, err := GetProjectByRoot(db, "/nowhere/special")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestCreateProjectRequiresName(t *testing.T) {
	db := setupTestDB(t)

	_, err := CreateProject(db, "   ", t.TempDir())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "project name is required")
}

func TestCreateProjectDuplicateRoot(t *testing.T) {
	db := setupTestDB(t)
	root := t.TempDir()

	_, err := CreateProject(db, "first", root)
	require.NoError(t, err)

	_, err = CreateProject(db, "second", root)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "UNIQUE")
}

func TestListProjectsOrderedByName(t *testing.T) {
	db := setupTestDB(t)

	_, err := CreateProject(db, "zebra", t.TempDir())
	require.NoError(t, err)
	_, err = CreateProject(db, "alpha", t.TempDir())
	require.NoError(t, err)

	projects, err := ListProjects(db)
	require.NoError(t, err)
	require.Len(t, projects, 2)
	assert.Equal(t, "alpha", projects[0].Name)
	assert.Equal(t, "zebra", projects[1].Name)
}
