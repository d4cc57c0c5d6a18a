package hooks

import (
	"context"
	"time"
)

// Bus is the façade domain code dispatches hooks through. Use-case code calls
// Mutate before committing a state change and Emit after committing one; it
// never talks to the runner, loader, or cache directly. When a project has no
// manifest the bus is a null object, so callers dispatch unconditionally
// without branching on whether hooks are configured.
type Bus interface {
	// Enabled reports whether a manifest was found, even one with zero hooks.
	Enabled() bool
	// Mutate runs the hooks for a pre-action event and returns the resulting
	// (possibly unchanged) payload, which the domain must adopt.
	Mutate(ctx context.Context, event Event, payload *Payload) (*Payload, error)
	// Emit runs the hooks for a post-action event for side effects only. The
	// same error policy applies: a required post hook failing still aborts,
	// so operators can enforce invariants after an action.
	Emit(ctx context.Context, event Event, fields map[string]any) error
}

// NewBus builds a bus over a loaded manifest. A nil manifest yields the
// disabled bus.
func NewBus(m *Manifest, defaultTimeout time.Duration) Bus {
	if m == nil {
		return disabledBus{}
	}
	return &manifestBus{runner: NewRunner(m, defaultTimeout)}
}

type manifestBus struct {
	runner *Runner
}

func (b *manifestBus) Enabled() bool { return true }

func (b *manifestBus) Mutate(ctx context.Context, event Event, payload *Payload) (*Payload, error) {
	res, err := b.runner.Run(ctx, event, payload)
	if err != nil {
		return nil, err
	}
	return res.Payload, nil
}

func (b *manifestBus) Emit(ctx context.Context, event Event, fields map[string]any) error {
	payload, err := NewPayload(event, fields)
	if err != nil {
		return err
	}
	_, err = b.runner.Run(ctx, event, payload)
	return err
}

// disabledBus is the null-object bus for projects without a manifest.
type disabledBus struct{}

func (disabledBus) Enabled() bool { return false }

func (disabledBus) Mutate(_ context.Context, _ Event, payload *Payload) (*Payload, error) {
	return payload, nil
}

func (disabledBus) Emit(context.Context, Event, map[string]any) error { return nil }

// Disabled returns the no-op bus. Commands use it when no project root is
// discovered at all.
func Disabled() Bus { return disabledBus{} }
