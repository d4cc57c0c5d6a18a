// Package hooks runs project-declared external executables at task lifecycle
// points. A project lists its hooks in .tasky/hooks/hook.json; each hook is a
// subprocess that receives the current payload as one JSON object on stdin
// and prints one JSON object of field overwrites on stdout. Hooks for one
// event run sequentially in manifest order so later hooks observe earlier
// mutations.
package hooks

// Event is a lifecycle point a hook may target. The event determines the
// required payload fields checked at payload construction.
type Event string

// Hook events.
const (
	EventTaskPreAdd     Event = "task-pre-add"
	EventTaskPostAdd    Event = "task-post-add"
	EventTaskPreImport  Event = "task-pre-import"
	EventTaskPostImport Event = "task-post-import"
	EventTaskUpdated    Event = "task-updated"
	EventTaskCompleted  Event = "task-completed"
	EventTaskDeleted    Event = "task-deleted"
)

// Events returns all known events in a stable order.
func Events() []Event {
	return []Event{
		EventTaskPreAdd,
		EventTaskPostAdd,
		EventTaskPreImport,
		EventTaskPostImport,
		EventTaskUpdated,
		EventTaskCompleted,
		EventTaskDeleted,
	}
}

// Valid returns true if e is a known event.
func (e Event) Valid() bool {
	_, ok := eventFields[e]
	return ok
}

// fieldKind is the expected JSON shape of a required payload field.
type fieldKind int

const (
	kindString fieldKind = iota
	kindList
)

func (k fieldKind) String() string {
	switch k {
	case kindString:
		return "string"
	case kindList:
		return "list"
	}
	return "unknown"
}

type fieldSpec struct {
	Name string
	Kind fieldKind
}

// eventFields maps each event to its required payload fields. Optional fields
// (e.g. parent_id on task-pre-add) and any extra fields are carried through
// untouched so future hook versions can rely on them.
//
//nolint:gochecknoglobals // closed schema table, read-only after init
var eventFields = map[Event][]fieldSpec{
	EventTaskPreAdd: {
		{Name: "name", Kind: kindString},
		{Name: "details", Kind: kindString},
	},
	EventTaskPostAdd: {
		{Name: "task_id", Kind: kindString},
		{Name: "name", Kind: kindString},
	},
	EventTaskPreImport: {
		{Name: "tasks", Kind: kindList},
	},
	EventTaskPostImport: {
		{Name: "task_ids", Kind: kindList},
	},
	EventTaskUpdated: {
		{Name: "task_id", Kind: kindString},
		{Name: "status", Kind: kindString},
	},
	EventTaskCompleted: {
		{Name: "task_id", Kind: kindString},
	},
	EventTaskDeleted: {
		{Name: "task_id", Kind: kindString},
	},
}
