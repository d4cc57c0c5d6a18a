package models

import "time"

// ID Strategy:
// - Tasks and Projects use string IDs (e.g. "task_1234567890_a3f9") so IDs
//   survive JSON export/import round trips without renumbering.
// - The event log uses int64 (auto-increment) for cheap ordered reads.

// TaskStatus represents the current state of a task.
type TaskStatus string

// Task status constants.
const (
	TaskStatusPending    TaskStatus = "pending"
	TaskStatusInProgress TaskStatus = "in_progress"
	TaskStatusCompleted  TaskStatus = "completed"
)

// IsTerminal returns true if the task is in a completed state.
func (s TaskStatus) IsTerminal() bool {
	return s == TaskStatusCompleted
}

// Valid returns true if s is a known task status.
func (s TaskStatus) Valid() bool {
	switch s {
	case TaskStatusPending, TaskStatusInProgress, TaskStatusCompleted:
		return true
	}
	return false
}

// Task represents a task in the system.
type Task struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	Details   string     `json:"details"`
	Status    TaskStatus `json:"status"`
	Priority  int        `json:"priority"`
	ProjectID string     `json:"project_id,omitempty"`
	ParentID  string     `json:"parent_id,omitempty"`
	Version   int        `json:"version"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// Project represents a registered project root.
type Project struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Root      string    `json:"root"`
	CreatedAt time.Time `json:"created_at"`
}

// Event represents a single row in the append-only task event log.
type Event struct {
	ID        int64     `json:"id"`
	Kind      string    `json:"kind"`
	TaskID    string    `json:"task_id"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}

// Event log kinds.
const (
	EventKindTaskCreated   = "task_created"
	EventKindTaskImported  = "task_imported"
	EventKindTaskStatus    = "task_status"
	EventKindTaskCompleted = "task_completed"
	EventKindTaskDeleted   = "task_deleted"
)
