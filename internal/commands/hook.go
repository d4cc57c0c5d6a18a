package commands

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/dotcommander/tasky/internal/hooks"
	"github.com/dotcommander/tasky/internal/output"
	"github.com/dotcommander/tasky/internal/project"
	"github.com/spf13/cobra"
)

// newHookCmd creates the hook command group. These commands work on the
// manifest of the project enclosing the working directory.
func newHookCmd(rt *runtime) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "hook",
		Short: "Inspect and test project hooks",
		Args:  cobra.NoArgs,
	}

	cmd.AddCommand(newHookListCmd())
	cmd.AddCommand(newHookValidateCmd())
	cmd.AddCommand(newHookRunCmd(rt))
	return cmd
}

func discoverProject() (project.Context, error) {
	wd, err := os.Getwd()
	if err != nil {
		return project.Context{}, err
	}
	pc, ok, err := project.Discover(wd)
	if err != nil {
		return project.Context{}, err
	}
	if !ok {
		return project.Context{}, errors.New("not inside a tasky project (run 'tasky init' first)")
	}
	return pc, nil
}

func newHookListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the hooks declared by the enclosing project",
		RunE: func(cmd *cobra.Command, args []string) error {
			pc, err := discoverProject()
			if err != nil {
				return cmdErr(err)
			}

			m, err := hooks.LoadManifest(pc.MetaDir())
			if err != nil {
				return cmdErr(err)
			}

			type resp struct {
				Manifest string             `json:"manifest"`
				Enabled  bool               `json:"enabled"`
				Hooks    []hooks.Definition `json:"hooks,omitempty"`
			}
			r := resp{Manifest: hooks.ManifestPath(pc.MetaDir())}
			if m != nil {
				r.Enabled = true
				r.Hooks = m.Hooks
			}
			return output.PrintSuccess(r)
		},
	}
}

func newHookValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Validate the enclosing project's hook manifest",
		RunE: func(cmd *cobra.Command, args []string) error {
			pc, err := discoverProject()
			if err != nil {
				return cmdErr(err)
			}

			m, err := hooks.LoadManifest(pc.MetaDir())
			if err != nil {
				return cmdErr(err)
			}

			type resp struct {
				Manifest  string `json:"manifest"`
				Enabled   bool   `json:"enabled"`
				HookCount int    `json:"hook_count"`
				Message   string `json:"message"`
			}
			r := resp{Manifest: hooks.ManifestPath(pc.MetaDir())}
			if m == nil {
				r.Message = "no hook manifest; hooks are disabled for this project"
			} else {
				r.Enabled = true
				r.HookCount = len(m.Hooks)
				r.Message = fmt.Sprintf("manifest is valid (%d hooks)", len(m.Hooks))
			}
			return output.PrintSuccess(r)
		},
	}
}

// newHookRunCmd dispatches a synthetic payload through the project's hooks,
// for developing and debugging hook scripts.
func newHookRunCmd(rt *runtime) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Dispatch a test payload through the project's hooks",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireFlags(cmd, "event"); err != nil {
				return cmdErr(err)
			}
			eventName, _ := cmd.Flags().GetString("event")
			fieldsJSON, _ := cmd.Flags().GetString("fields")

			var fields map[string]any
			if fieldsJSON != "" {
				if err := json.Unmarshal([]byte(fieldsJSON), &fields); err != nil {
					return cmdErr(fmt.Errorf("--fields is not a JSON object: %w", err))
				}
			}

			payload, err := hooks.NewPayload(hooks.Event(eventName), fields)
			if err != nil {
				return cmdErr(err)
			}

			bus, _, found, err := rt.discoverBus()
			if err != nil {
				return cmdErr(err)
			}
			if !found {
				return cmdErr(errors.New("not inside a tasky project (run 'tasky init' first)"))
			}

			result, err := bus.Mutate(cmd.Context(), hooks.Event(eventName), payload)
			if err != nil {
				return cmdErr(err)
			}

			type resp struct {
				Event   string         `json:"event"`
				Enabled bool           `json:"enabled"`
				Fields  map[string]any `json:"fields"`
			}
			return output.PrintSuccess(resp{Event: eventName, Enabled: bus.Enabled(), Fields: result.Fields()})
		},
	}

	cmd.Flags().String("event", "", "Hook event to dispatch (required)")
	cmd.Flags().String("fields", "", "Payload fields as a JSON object")
	return cmd
}
