package commands

import (
	"os"

	"github.com/dotcommander/tasky/internal/actions"
	"github.com/dotcommander/tasky/internal/models"
	"github.com/dotcommander/tasky/internal/output"
	"github.com/dotcommander/tasky/internal/project"
	"github.com/dotcommander/tasky/internal/store"
	"github.com/spf13/cobra"
)

// newInitCmd turns the working directory into a tasky project.
func newInitCmd(rt *runtime) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize a tasky project in the current directory",
		Long:  "Creates ./.tasky (including the hooks directory) and registers the project root.",
		RunE: func(cmd *cobra.Command, args []string) error {
			name, _ := cmd.Flags().GetString("name")

			wd, err := os.Getwd()
			if err != nil {
				return cmdErr(err)
			}
			pc, err := project.New(wd)
			if err != nil {
				return cmdErr(err)
			}

			var proj *models.Project
			var created bool
			if err := withDB(func(db *DB) error {
				proj, created, err = actions.ProjectInit(db, pc, name)
				return err
			}); err != nil {
				return err
			}

			// A fresh metadata dir means any cached bus for this root is stale.
			rt.hookCache.Reset()

			type resp struct {
				Project *models.Project `json:"project"`
				Created bool            `json:"created"`
				MetaDir string          `json:"meta_dir"`
			}
			return output.PrintSuccess(resp{Project: proj, Created: created, MetaDir: pc.MetaDir()})
		},
	}

	cmd.Flags().String("name", "", "Project name (default: directory name)")
	return cmd
}

// newProjectCmd creates the project command group
func newProjectCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "project",
		Short: "Manage registered projects",
		Args:  cobra.NoArgs,
	}

	cmd.AddCommand(newProjectListCmd())
	return cmd
}

func newProjectListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List registered projects",
		RunE: func(cmd *cobra.Command, args []string) error {
			var projects []*models.Project
			if err := withDB(func(db *DB) error {
				var err error
				projects, err = store.ListProjects(db)
				return err
			}); err != nil {
				return err
			}

			type resp struct {
				Projects []*models.Project `json:"projects"`
				Count    int               `json:"count"`
			}
			return output.PrintSuccess(resp{Projects: projects, Count: len(projects)})
		},
	}
}
