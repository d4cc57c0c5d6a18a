// Package actions is the use-case layer: each operation wraps a store
// transaction with the project hook dispatches (mutate before commit, emit
// after) and the in-process lifecycle notifications. It is the only code
// that talks to the hook bus.
package actions

import (
	"database/sql"

	"github.com/dotcommander/tasky/internal/hooks"
	"github.com/dotcommander/tasky/internal/lifecycle"
)

// Env carries the collaborators an action needs. Commands construct one per
// invocation; Bus may be the disabled bus when no project is discovered.
type Env struct {
	DB         *sql.DB
	Bus        hooks.Bus
	Dispatcher *lifecycle.Dispatcher
}

func (e Env) notify(kind, taskID, message string) {
	if e.Dispatcher == nil {
		return
	}
	e.Dispatcher.Dispatch(lifecycle.Notification{Kind: kind, TaskID: taskID, Message: message})
}
