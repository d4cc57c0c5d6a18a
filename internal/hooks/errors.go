package hooks

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/dotcommander/tasky/internal/models"
)

// Sentinel errors for errors.Is checks. The structured types below carry the
// diagnostic detail and satisfy models.RecoverableError.
var (
	// ErrConfig marks a malformed hook manifest. Always fatal at load time.
	ErrConfig = errors.New("invalid hook configuration")
	// ErrPayload marks a payload that could not be built from supplied fields.
	ErrPayload = errors.New("invalid hook payload")
	// ErrExec marks a failed hook dispatch. Aborts the remaining hooks for
	// the event.
	ErrExec = errors.New("hook execution failed")
)

// Interface checks.
var (
	_ models.RecoverableError = (*ConfigError)(nil)
	_ models.RecoverableError = (*PayloadError)(nil)
	_ models.RecoverableError = (*ExecError)(nil)
)

// ConfigError reports a malformed hook manifest: bad JSON, unsupported
// version, duplicate id, empty command, or a missing local script.
type ConfigError struct {
	Path   string
	HookID string
	Reason string
}

func (e *ConfigError) Error() string {
	if e.HookID != "" {
		return fmt.Sprintf("invalid hook configuration (hook %q): %s", e.HookID, e.Reason)
	}
	return "invalid hook configuration: " + e.Reason
}

func (e *ConfigError) ErrorCode() string { return "HOOK_CONFIG" }

func (e *ConfigError) Context() map[string]string {
	ctx := map[string]string{"manifest": e.Path, "reason": e.Reason}
	if e.HookID != "" {
		ctx["hook_id"] = e.HookID
	}
	return ctx
}

func (e *ConfigError) SuggestedAction() string {
	return fmt.Sprintf("fix %s and run 'tasky hook validate'", e.Path)
}

func (e *ConfigError) SlogAttrs() []any {
	attrs := []any{"manifest", e.Path, "reason", e.Reason}
	if e.HookID != "" {
		attrs = append(attrs, "hook_id", e.HookID)
	}
	return attrs
}

func (e *ConfigError) Is(target error) bool { return target == ErrConfig }

// PayloadError reports a payload that fails its event's required-field
// schema. Raised before any subprocess runs.
type PayloadError struct {
	Event  Event
	Field  string
	Reason string
}

func (e *PayloadError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("invalid %s payload: field %q %s", e.Event, e.Field, e.Reason)
	}
	return fmt.Sprintf("invalid %s payload: %s", e.Event, e.Reason)
}

func (e *PayloadError) ErrorCode() string { return "HOOK_PAYLOAD" }

func (e *PayloadError) Context() map[string]string {
	ctx := map[string]string{"event": string(e.Event), "reason": e.Reason}
	if e.Field != "" {
		ctx["field"] = e.Field
	}
	return ctx
}

func (e *PayloadError) SuggestedAction() string {
	return "this is a tasky bug or a caller passing malformed fields; re-run with valid field values"
}

func (e *PayloadError) SlogAttrs() []any {
	return []any{"event", string(e.Event), "field", e.Field, "reason", e.Reason}
}

func (e *PayloadError) Is(target error) bool { return target == ErrPayload }

// ExecError reports a hook subprocess that exited nonzero, timed out, or
// violated the stdout contract, without continue_on_error set.
type ExecError struct {
	HookID   string
	ExitCode int
	TimedOut bool
	Stderr   string
	Reason   string
}

func (e *ExecError) Error() string {
	return fmt.Sprintf("hook %q failed: %s", e.HookID, e.Reason)
}

func (e *ExecError) ErrorCode() string { return "HOOK_EXEC" }

func (e *ExecError) Context() map[string]string {
	ctx := map[string]string{
		"hook_id":   e.HookID,
		"exit_code": strconv.Itoa(e.ExitCode),
		"timed_out": strconv.FormatBool(e.TimedOut),
	}
	if e.Stderr != "" {
		ctx["stderr"] = e.Stderr
	}
	return ctx
}

func (e *ExecError) SuggestedAction() string {
	return fmt.Sprintf("fix hook %q or set continue_on_error to tolerate its failures", e.HookID)
}

func (e *ExecError) SlogAttrs() []any {
	return []any{
		"hook_id", e.HookID,
		"exit_code", e.ExitCode,
		"timed_out", e.TimedOut,
		"stderr", e.Stderr,
	}
}

func (e *ExecError) Is(target error) bool { return target == ErrExec }
