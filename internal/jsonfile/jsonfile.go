// Package jsonfile is the JSON storage adapter: a flat task-list document
// used by `tasky task export` and `tasky task import`. Documents are the
// interchange format, not a live store; hierarchy (parent_id) is not carried,
// imported tasks are created with fresh IDs.
package jsonfile

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/dotcommander/tasky/internal/models"
)

// DocumentVersion is the single supported task document version.
const DocumentVersion = 1

// TaskRecord is one task in a document.
type TaskRecord struct {
	Name     string `json:"name"`
	Details  string `json:"details,omitempty"`
	Status   string `json:"status,omitempty"`
	Priority int    `json:"priority,omitempty"`
}

// Document is a versioned task list.
type Document struct {
	Version int          `json:"version"`
	Tasks   []TaskRecord `json:"tasks"`
}

// FromTasks flattens stored tasks into a document.
func FromTasks(tasks []*models.Task) *Document {
	doc := &Document{Version: DocumentVersion, Tasks: make([]TaskRecord, 0, len(tasks))}
	for _, t := range tasks {
		doc.Tasks = append(doc.Tasks, TaskRecord{
			Name:     t.Name,
			Details:  t.Details,
			Status:   string(t.Status),
			Priority: t.Priority,
		})
	}
	return doc
}

// Write marshals doc to path with a trailing newline.
func Write(path string, doc *Document) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal task document: %w", err)
	}
	data = append(data, '\n')

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// Read loads and validates a task document.
func Read(path string) (*Document, error) {
	data, err := os.ReadFile(path) //nolint:gosec // G304: path is a user-supplied CLI argument
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	if doc.Version != DocumentVersion {
		return nil, fmt.Errorf("unsupported task document version %d in %s (supported: %d)", doc.Version, path, DocumentVersion)
	}
	for i, r := range doc.Tasks {
		if strings.TrimSpace(r.Name) == "" {
			return nil, fmt.Errorf("task %d in %s has no name", i, path)
		}
		if r.Status != "" && !models.TaskStatus(r.Status).Valid() {
			return nil, fmt.Errorf("task %d in %s has unknown status %q", i, path, r.Status)
		}
	}
	return &doc, nil
}
