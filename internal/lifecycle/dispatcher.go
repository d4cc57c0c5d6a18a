// Package lifecycle is a synchronous in-process observer list for domain
// notifications. It is unrelated to project hooks: observers are Go functions
// registered by the hosting command, not external subprocesses, and failures
// here never abort the domain action.
package lifecycle

import (
	"sync"
	"time"
)

// Notification describes a committed domain action.
type Notification struct {
	Kind    string
	TaskID  string
	Message string
	At      time.Time
}

// Observer receives notifications in subscription order.
type Observer func(Notification)

// Dispatcher fans a notification out to all subscribed observers, in order,
// on the calling goroutine.
type Dispatcher struct {
	mu        sync.Mutex
	observers []Observer
}

// NewDispatcher returns an empty dispatcher.
func NewDispatcher() *Dispatcher {
	return &Dispatcher{}
}

// Subscribe appends an observer. Observers are never removed; a dispatcher's
// lifetime is one command invocation.
func (d *Dispatcher) Subscribe(fn Observer) {
	d.mu.Lock()
	d.observers = append(d.observers, fn)
	d.mu.Unlock()
}

// Dispatch delivers n to every observer synchronously.
func (d *Dispatcher) Dispatch(n Notification) {
	if n.At.IsZero() {
		n.At = time.Now()
	}

	d.mu.Lock()
	observers := make([]Observer, len(d.observers))
	copy(observers, d.observers)
	d.mu.Unlock()

	for _, fn := range observers {
		fn(n)
	}
}
