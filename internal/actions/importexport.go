package actions

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/dotcommander/tasky/internal/hooks"
	"github.com/dotcommander/tasky/internal/jsonfile"
	"github.com/dotcommander/tasky/internal/models"
	"github.com/dotcommander/tasky/internal/store"
)

// TaskExport writes the project's tasks (or all tasks when projectID is
// empty) to a JSON task document. Export is read-only, so no hooks run.
func TaskExport(env Env, path, projectID string) (int, error) {
	tasks, err := store.ListTasks(env.DB, projectID, "")
	if err != nil {
		return 0, err
	}
	if err := jsonfile.Write(path, jsonfile.FromTasks(tasks)); err != nil {
		return 0, err
	}
	return len(tasks), nil
}

// TaskImport loads a JSON task document and creates its tasks in one
// transaction. The whole task list passes through the task-pre-import mutate
// hook first, so a project can normalize or reject incoming tasks in bulk;
// task-post-import fires after commit with the created ids.
func TaskImport(ctx context.Context, env Env, path, projectID string) ([]*models.Task, error) {
	doc, err := jsonfile.Read(path)
	if err != nil {
		return nil, err
	}

	payload, err := hooks.NewPayload(hooks.EventTaskPreImport, map[string]any{
		"tasks":  recordsToAny(doc.Tasks),
		"source": path,
	})
	if err != nil {
		return nil, err
	}
	payload, err = env.Bus.Mutate(ctx, hooks.EventTaskPreImport, payload)
	if err != nil {
		return nil, err
	}

	records, err := recordsFromPayload(payload)
	if err != nil {
		return nil, err
	}

	var tasks []*models.Task
	err = store.Transact(env.DB, func(tx *sql.Tx) error {
		tasks = tasks[:0]
		for _, r := range records {
			created, err := store.CreateTaskTx(tx, r.Name, r.Details, projectID, "", r.Priority)
			if err != nil {
				return err
			}
			if r.Status != "" && r.Status != string(models.TaskStatusPending) {
				if err := store.UpdateTaskStatusTx(tx, created.ID, models.TaskStatus(r.Status), created.Version); err != nil {
					return err
				}
				created.Status = models.TaskStatus(r.Status)
				created.Version++
			}
			if _, err := store.InsertEventTx(tx, models.EventKindTaskImported, created.ID, fmt.Sprintf("Task imported from %s", path)); err != nil {
				return fmt.Errorf("failed to append event: %w", err)
			}
			tasks = append(tasks, created)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to import tasks: %w", err)
	}

	taskIDs := make([]any, 0, len(tasks))
	for _, t := range tasks {
		env.notify(models.EventKindTaskImported, t.ID, t.Name)
		taskIDs = append(taskIDs, t.ID)
	}

	if err := env.Bus.Emit(ctx, hooks.EventTaskPostImport, map[string]any{
		"task_ids": taskIDs,
		"source":   path,
	}); err != nil {
		return nil, fmt.Errorf("%d tasks imported but post-import hook failed: %w", len(tasks), err)
	}

	return tasks, nil
}

func recordsToAny(records []jsonfile.TaskRecord) []any {
	out := make([]any, 0, len(records))
	for _, r := range records {
		out = append(out, map[string]any{
			"name":     r.Name,
			"details":  r.Details,
			"status":   r.Status,
			"priority": r.Priority,
		})
	}
	return out
}

// recordsFromPayload decodes the (possibly hook-mutated) tasks list back into
// records and re-validates it: hooks can rewrite or drop tasks but not
// produce nameless or unknown-status ones.
func recordsFromPayload(payload *hooks.Payload) ([]jsonfile.TaskRecord, error) {
	v, _ := payload.Get("tasks")

	raw, err := json.Marshal(v)
	if err != nil {
		return nil, &hooks.PayloadError{Event: payload.Event(), Field: "tasks", Reason: "is not JSON-serializable after hook mutation"}
	}
	var records []jsonfile.TaskRecord
	if err := json.Unmarshal(raw, &records); err != nil {
		return nil, &hooks.PayloadError{Event: payload.Event(), Field: "tasks", Reason: "is no longer a task list after hook mutation"}
	}

	for i, r := range records {
		if strings.TrimSpace(r.Name) == "" {
			return nil, &hooks.PayloadError{Event: payload.Event(), Field: "tasks", Reason: fmt.Sprintf("task %d has no name after hook mutation", i)}
		}
		if r.Status != "" && !models.TaskStatus(r.Status).Valid() {
			return nil, &hooks.PayloadError{Event: payload.Event(), Field: "tasks", Reason: fmt.Sprintf("task %d has unknown status %q after hook mutation", i, r.Status)}
		}
	}
	return records, nil
}
