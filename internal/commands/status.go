package commands

import (
	"os"

	"github.com/dotcommander/tasky/internal/app"
	"github.com/dotcommander/tasky/internal/hooks"
	"github.com/dotcommander/tasky/internal/output"
	"github.com/dotcommander/tasky/internal/project"
	"github.com/dotcommander/tasky/internal/store"
	"github.com/spf13/cobra"
)

// newStatusCmd reports environment health: database, schema, project
// discovery, and the hook manifest state.
func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show database, project, and hook status",
		RunE: func(cmd *cobra.Command, args []string) error {
			type hookStatus struct {
				Manifest string `json:"manifest,omitempty"`
				State    string `json:"state"`
				Count    int    `json:"count,omitempty"`
				Error    string `json:"error,omitempty"`
			}
			type resp struct {
				DBPath        string     `json:"db_path"`
				SchemaCurrent int64      `json:"schema_current"`
				SchemaLatest  int64      `json:"schema_latest"`
				ProjectRoot   string     `json:"project_root,omitempty"`
				Hooks         hookStatus `json:"hooks"`
			}

			var r resp

			dbPath, err := app.GetDBPath()
			if err != nil {
				return cmdErr(err)
			}
			r.DBPath = dbPath

			if err := withDB(func(db *DB) error {
				current, latest, err := store.SchemaVersion(db)
				if err != nil {
					return err
				}
				r.SchemaCurrent = current
				r.SchemaLatest = latest
				return nil
			}); err != nil {
				return err
			}

			wd, err := os.Getwd()
			if err != nil {
				return cmdErr(err)
			}
			pc, found, err := project.Discover(wd)
			if err != nil {
				return cmdErr(err)
			}

			switch {
			case !found:
				r.Hooks.State = "no project"
			default:
				r.ProjectRoot = pc.Root()
				r.Hooks.Manifest = hooks.ManifestPath(pc.MetaDir())
				m, err := hooks.LoadManifest(pc.MetaDir())
				switch {
				case err != nil:
					r.Hooks.State = "invalid"
					r.Hooks.Error = err.Error()
				case m == nil:
					r.Hooks.State = "absent"
				default:
					r.Hooks.State = "enabled"
					r.Hooks.Count = len(m.Hooks)
				}
			}

			return output.PrintSuccess(r)
		},
	}
}
