package commands

import (
	"log/slog"
	"os"

	"github.com/dotcommander/tasky/internal/actions"
	"github.com/dotcommander/tasky/internal/app"
	"github.com/dotcommander/tasky/internal/hooks"
	"github.com/dotcommander/tasky/internal/lifecycle"
	"github.com/dotcommander/tasky/internal/project"
)

// runtime holds per-invocation shared state. The hook cache lives here
// (constructor-injected, explicit lifecycle) rather than as a package global,
// so long-lived hosts and tests control when it resets.
type runtime struct {
	hookCache *hooks.Cache
}

func newRuntime() *runtime {
	return &runtime{hookCache: hooks.NewCache(app.EffectiveHookTimeout())}
}

// discoverBus finds the project enclosing the working directory and returns
// its hook bus. Outside any project the disabled bus is returned, so command
// code dispatches unconditionally.
func (rt *runtime) discoverBus() (hooks.Bus, project.Context, bool, error) {
	wd, err := os.Getwd()
	if err != nil {
		return nil, project.Context{}, false, err
	}

	pc, ok, err := project.Discover(wd)
	if err != nil {
		return nil, project.Context{}, false, err
	}
	if !ok {
		return hooks.Disabled(), project.Context{}, false, nil
	}

	bus, err := rt.hookCache.Bus(pc)
	if err != nil {
		return nil, pc, true, err
	}
	return bus, pc, true, nil
}

// env assembles the action environment for db: the discovered project's hook
// bus plus a lifecycle dispatcher with the default logging observer.
func (rt *runtime) env(db *DB) (actions.Env, error) {
	bus, _, _, err := rt.discoverBus()
	if err != nil {
		return actions.Env{}, err
	}

	dispatcher := lifecycle.NewDispatcher()
	dispatcher.Subscribe(func(n lifecycle.Notification) {
		slog.Debug("lifecycle", "kind", n.Kind, "task_id", n.TaskID, "message", n.Message)
	})

	return actions.Env{DB: db, Bus: bus, Dispatcher: dispatcher}, nil
}
