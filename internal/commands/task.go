package commands

import (
	"errors"

	"github.com/dotcommander/tasky/internal/actions"
	"github.com/dotcommander/tasky/internal/models"
	"github.com/dotcommander/tasky/internal/output"
	"github.com/dotcommander/tasky/internal/store"
	"github.com/spf13/cobra"
)

// newTaskCmd creates the task command group
func newTaskCmd(rt *runtime) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "task",
		Short: "Manage tasks",
		Long:  "Create, update, and query tasks. Valid statuses: pending, in_progress, completed",
		Args:  cobra.NoArgs,
	}

	cmd.AddCommand(newTaskCreateCmd(rt))
	cmd.AddCommand(newTaskGetCmd())
	cmd.AddCommand(newTaskListCmd())
	cmd.AddCommand(newTaskSetStatusCmd(rt))
	cmd.AddCommand(newTaskCompleteCmd(rt))
	cmd.AddCommand(newTaskDeleteCmd(rt))
	cmd.AddCommand(newTaskExportCmd(rt))
	cmd.AddCommand(newTaskImportCmd(rt))

	return cmd
}

func newTaskCreateCmd(rt *runtime) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a new task (runs task-pre-add/task-post-add hooks)",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireFlags(cmd, "name"); err != nil {
				return cmdErr(err)
			}
			name, _ := cmd.Flags().GetString("name")
			details, _ := cmd.Flags().GetString("details")
			projectID, _ := cmd.Flags().GetString("project-id")
			parentID, _ := cmd.Flags().GetString("parent-id")
			priority, _ := cmd.Flags().GetInt("priority")

			var task *models.Task
			if err := withDB(func(db *DB) error {
				env, err := rt.env(db)
				if err != nil {
					return err
				}
				t, err := actions.TaskCreate(cmd.Context(), env, name, details, projectID, parentID, priority)
				if err != nil {
					return err
				}
				task = t
				return nil
			}); err != nil {
				return err
			}

			type resp struct {
				Task *models.Task `json:"task"`
			}
			return output.PrintSuccess(resp{Task: task})
		},
	}

	cmd.Flags().String("name", "", "Task name (required)")
	cmd.Flags().String("details", "", "Task details")
	cmd.Flags().String("project-id", "", "Project ID to associate task with")
	cmd.Flags().String("parent-id", "", "Parent task ID")
	cmd.Flags().Int("priority", 0, "Task priority (higher = more urgent, default 0)")

	return cmd
}

func newTaskGetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "get",
		Short: "Get a task by ID",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireFlags(cmd, "id"); err != nil {
				return cmdErr(err)
			}
			id, _ := cmd.Flags().GetString("id")

			var task *models.Task
			var events []*models.Event
			if err := withDB(func(db *DB) error {
				t, err := store.GetTask(db, id)
				if err != nil {
					return err
				}
				task = t
				events, err = store.ListEvents(db, id, 20)
				return err
			}); err != nil {
				return err
			}

			type resp struct {
				Task   *models.Task    `json:"task"`
				Events []*models.Event `json:"events,omitempty"`
			}
			return output.PrintSuccess(resp{Task: task, Events: events})
		},
	}

	cmd.Flags().String("id", "", "Task ID (required)")
	return cmd
}

func newTaskListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List tasks",
		RunE: func(cmd *cobra.Command, args []string) error {
			projectID, _ := cmd.Flags().GetString("project-id")
			status, _ := cmd.Flags().GetString("status")

			if status != "" && !models.TaskStatus(status).Valid() {
				return cmdErr(errors.New("invalid --status (valid: pending, in_progress, completed)"))
			}

			var tasks []*models.Task
			if err := withDB(func(db *DB) error {
				var err error
				tasks, err = store.ListTasks(db, projectID, models.TaskStatus(status))
				return err
			}); err != nil {
				return err
			}

			type resp struct {
				Tasks []*models.Task `json:"tasks"`
				Count int            `json:"count"`
			}
			return output.PrintSuccess(resp{Tasks: tasks, Count: len(tasks)})
		},
	}

	cmd.Flags().String("project-id", "", "Filter by project ID")
	cmd.Flags().String("status", "", "Filter by status")
	return cmd
}

func newTaskSetStatusCmd(rt *runtime) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "set-status",
		Short: "Update task status (runs the task-updated hook)",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireFlags(cmd, "id", "status"); err != nil {
				return cmdErr(err)
			}
			id, _ := cmd.Flags().GetString("id")
			status, _ := cmd.Flags().GetString("status")

			var task *models.Task
			if err := withDB(func(db *DB) error {
				env, err := rt.env(db)
				if err != nil {
					return err
				}
				task, err = actions.TaskSetStatus(cmd.Context(), env, id, models.TaskStatus(status))
				return err
			}); err != nil {
				return err
			}

			type resp struct {
				Task *models.Task `json:"task"`
			}
			return output.PrintSuccess(resp{Task: task})
		},
	}

	cmd.Flags().String("id", "", "Task ID (required)")
	cmd.Flags().String("status", "", "New status (required)")
	return cmd
}

func newTaskCompleteCmd(rt *runtime) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "complete",
		Short: "Mark a task completed (runs the task-completed hook)",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireFlags(cmd, "id"); err != nil {
				return cmdErr(err)
			}
			id, _ := cmd.Flags().GetString("id")

			var task *models.Task
			if err := withDB(func(db *DB) error {
				env, err := rt.env(db)
				if err != nil {
					return err
				}
				task, err = actions.TaskComplete(cmd.Context(), env, id)
				return err
			}); err != nil {
				return err
			}

			type resp struct {
				Task *models.Task `json:"task"`
			}
			return output.PrintSuccess(resp{Task: task})
		},
	}

	cmd.Flags().String("id", "", "Task ID (required)")
	return cmd
}

func newTaskDeleteCmd(rt *runtime) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete",
		Short: "Delete a task (runs the task-deleted hook)",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireFlags(cmd, "id"); err != nil {
				return cmdErr(err)
			}
			id, _ := cmd.Flags().GetString("id")

			if err := withDB(func(db *DB) error {
				env, err := rt.env(db)
				if err != nil {
					return err
				}
				return actions.TaskDelete(cmd.Context(), env, id)
			}); err != nil {
				return err
			}

			type resp struct {
				Deleted string `json:"deleted"`
			}
			return output.PrintSuccess(resp{Deleted: id})
		},
	}

	cmd.Flags().String("id", "", "Task ID (required)")
	return cmd
}

func newTaskExportCmd(rt *runtime) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export tasks to a JSON task document",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireFlags(cmd, "out"); err != nil {
				return cmdErr(err)
			}
			out, _ := cmd.Flags().GetString("out")
			projectID, _ := cmd.Flags().GetString("project-id")

			var count int
			if err := withDB(func(db *DB) error {
				env, err := rt.env(db)
				if err != nil {
					return err
				}
				count, err = actions.TaskExport(env, out, projectID)
				return err
			}); err != nil {
				return err
			}

			type resp struct {
				Path  string `json:"path"`
				Count int    `json:"count"`
			}
			return output.PrintSuccess(resp{Path: out, Count: count})
		},
	}

	cmd.Flags().String("out", "", "Output file path (required)")
	cmd.Flags().String("project-id", "", "Export only this project's tasks")
	return cmd
}

func newTaskImportCmd(rt *runtime) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Import tasks from a JSON task document (runs task-pre-import/task-post-import hooks)",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireFlags(cmd, "in"); err != nil {
				return cmdErr(err)
			}
			in, _ := cmd.Flags().GetString("in")
			projectID, _ := cmd.Flags().GetString("project-id")

			var tasks []*models.Task
			if err := withDB(func(db *DB) error {
				env, err := rt.env(db)
				if err != nil {
					return err
				}
				tasks, err = actions.TaskImport(cmd.Context(), env, in, projectID)
				return err
			}); err != nil {
				return err
			}

			type resp struct {
				Tasks []*models.Task `json:"tasks"`
				Count int            `json:"count"`
			}
			return output.PrintSuccess(resp{Tasks: tasks, Count: len(tasks)})
		},
	}

	cmd.Flags().String("in", "", "Input file path (required)")
	cmd.Flags().String("project-id", "", "Project ID to associate imported tasks with")
	return cmd
}
