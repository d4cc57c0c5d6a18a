package actions

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dotcommander/tasky/internal/hooks"
	"github.com/dotcommander/tasky/internal/models"
	"github.com/dotcommander/tasky/internal/store"
)

// TaskCreate creates a task, letting project hooks rewrite the pre-add
// payload first. The hook-mutated name/details/parent are what get stored.
// A failing required post-add hook returns an error even though the task is
// already committed; the error names the created task id.
func TaskCreate(ctx context.Context, env Env, name, details, projectID, parentID string, priority int) (*models.Task, error) { //nolint:revive // argument-limit: all params are required and semantically distinct
	if name == "" {
		return nil, errors.New("task name is required")
	}

	fields := map[string]any{
		"name":    name,
		"details": details,
	}
	if parentID != "" {
		fields["parent_id"] = parentID
	} else {
		fields["parent_id"] = nil
	}

	payload, err := hooks.NewPayload(hooks.EventTaskPreAdd, fields)
	if err != nil {
		return nil, err
	}
	payload, err = env.Bus.Mutate(ctx, hooks.EventTaskPreAdd, payload)
	if err != nil {
		return nil, err
	}

	// Adopt the hook-modified result.
	name = payload.String("name", name)
	details = payload.String("details", details)
	parentID = ""
	if v, ok := payload.Get("parent_id"); ok {
		if s, isStr := v.(string); isStr {
			parentID = s
		}
	}
	if name == "" {
		return nil, &hooks.PayloadError{Event: hooks.EventTaskPreAdd, Field: "name", Reason: "was emptied by a hook"}
	}

	var task *models.Task
	err = store.Transact(env.DB, func(tx *sql.Tx) error {
		created, err := store.CreateTaskTx(tx, name, details, projectID, parentID, priority)
		if err != nil {
			return err
		}
		if _, err := store.InsertEventTx(tx, models.EventKindTaskCreated, created.ID, fmt.Sprintf("Task created: %s", name)); err != nil {
			return fmt.Errorf("failed to append event: %w", err)
		}
		task = created
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	env.notify(models.EventKindTaskCreated, task.ID, task.Name)

	if err := env.Bus.Emit(ctx, hooks.EventTaskPostAdd, map[string]any{
		"task_id":   task.ID,
		"name":      task.Name,
		"details":   task.Details,
		"parent_id": nullableString(task.ParentID),
	}); err != nil {
		return nil, fmt.Errorf("task %s created but post-add hook failed: %w", task.ID, err)
	}

	return task, nil
}

// TaskSetStatus updates a task's status with optimistic concurrency and
// emits task-updated (or task-completed when the new status is terminal).
func TaskSetStatus(ctx context.Context, env Env, taskID string, status models.TaskStatus) (*models.Task, error) {
	if !status.Valid() {
		return nil, fmt.Errorf("invalid status %q (valid: pending, in_progress, completed)", status)
	}

	task, err := store.GetTask(env.DB, taskID)
	if err != nil {
		return nil, err
	}

	err = store.Transact(env.DB, func(tx *sql.Tx) error {
		if err := store.UpdateTaskStatusTx(tx, taskID, status, task.Version); err != nil {
			return err
		}
		kind := models.EventKindTaskStatus
		if status.IsTerminal() {
			kind = models.EventKindTaskCompleted
		}
		if _, err := store.InsertEventTx(tx, kind, taskID, fmt.Sprintf("Status changed to: %s", status)); err != nil {
			return fmt.Errorf("failed to append event: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	updated, err := store.GetTask(env.DB, taskID)
	if err != nil {
		return nil, err
	}

	env.notify(models.EventKindTaskStatus, taskID, string(status))

	event := hooks.EventTaskUpdated
	fields := map[string]any{"task_id": taskID, "status": string(status)}
	if status.IsTerminal() {
		event = hooks.EventTaskCompleted
	}
	if err := env.Bus.Emit(ctx, event, fields); err != nil {
		return nil, fmt.Errorf("task %s updated but %s hook failed: %w", taskID, event, err)
	}

	return updated, nil
}

// TaskComplete marks a task completed.
func TaskComplete(ctx context.Context, env Env, taskID string) (*models.Task, error) {
	return TaskSetStatus(ctx, env, taskID, models.TaskStatusCompleted)
}

// TaskDelete removes a task and emits task-deleted.
func TaskDelete(ctx context.Context, env Env, taskID string) error {
	// Fetch first so the event carries the name and missing IDs fail early.
	task, err := store.GetTask(env.DB, taskID)
	if err != nil {
		return err
	}

	err = store.Transact(env.DB, func(tx *sql.Tx) error {
		if err := store.DeleteTaskTx(tx, taskID); err != nil {
			return err
		}
		if _, err := store.InsertEventTx(tx, models.EventKindTaskDeleted, taskID, fmt.Sprintf("Task deleted: %s", task.Name)); err != nil {
			return fmt.Errorf("failed to append event: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	env.notify(models.EventKindTaskDeleted, taskID, task.Name)

	if err := env.Bus.Emit(ctx, hooks.EventTaskDeleted, map[string]any{"task_id": taskID, "name": task.Name}); err != nil {
		return fmt.Errorf("task %s deleted but post-delete hook failed: %w", taskID, err)
	}
	return nil
}

func nullableString(s string) any {
	if s == "" {
		return nil
	}
	return s
}
