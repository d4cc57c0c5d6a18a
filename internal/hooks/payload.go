package hooks

import (
	"encoding/json"
	"reflect"
)

// Payload is the JSON-compatible data exchanged with hook subprocesses for
// one event. Construction validates the event's required fields once, so the
// runner and hooks can rely on their presence and shape. Extra fields pass
// through untouched.
type Payload struct {
	event  Event
	fields map[string]any
}

// NewPayload builds a validated payload for event from raw fields.
// Returns *PayloadError when a required field is missing or of the wrong
// shape, or when any value is not JSON-serializable.
func NewPayload(event Event, fields map[string]any) (*Payload, error) {
	specs, ok := eventFields[event]
	if !ok {
		return nil, &PayloadError{Event: event, Reason: "unknown event"}
	}

	for _, spec := range specs {
		v, present := fields[spec.Name]
		if !present {
			return nil, &PayloadError{Event: event, Field: spec.Name, Reason: "is required"}
		}
		if !matchesKind(v, spec.Kind) {
			return nil, &PayloadError{Event: event, Field: spec.Name, Reason: "must be a " + spec.Kind.String()}
		}
	}

	// Reject values the subprocess protocol cannot carry (channels, funcs, …).
	if _, err := json.Marshal(fields); err != nil {
		return nil, &PayloadError{Event: event, Reason: "fields are not JSON-serializable: " + err.Error()}
	}

	owned := make(map[string]any, len(fields))
	for k, v := range fields {
		owned[k] = v
	}
	return &Payload{event: event, fields: owned}, nil
}

// Event returns the event this payload was built for.
func (p *Payload) Event() Event { return p.event }

// Fields returns the live field map. Callers may read and write it directly;
// the payload is a value owned by the dispatch that produced it.
func (p *Payload) Fields() map[string]any { return p.fields }

// Get returns the named field.
func (p *Payload) Get(name string) (any, bool) {
	v, ok := p.fields[name]
	return v, ok
}

// String returns the named field as a string, or fallback when absent or not
// a string. Domain code uses this to adopt hook-mutated values defensively.
func (p *Payload) String(name, fallback string) string {
	if s, ok := p.fields[name].(string); ok {
		return s
	}
	return fallback
}

// Merge shallow-overwrites p's fields with the subprocess output: keys
// present in overlay replace the current value, keys absent from overlay are
// retained unchanged. Nested structures are replaced whole, not deep-merged.
func (p *Payload) Merge(overlay map[string]any) {
	for k, v := range overlay {
		p.fields[k] = v
	}
}

// MarshalJSON serializes the payload as the single JSON object written to a
// hook's stdin.
func (p *Payload) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.fields)
}

func matchesKind(v any, kind fieldKind) bool {
	switch kind {
	case kindString:
		_, ok := v.(string)
		return ok
	case kindList:
		if v == nil {
			return false
		}
		k := reflect.TypeOf(v).Kind()
		return k == reflect.Slice || k == reflect.Array
	}
	return false
}
