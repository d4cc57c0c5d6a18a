package hooks

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"time"
)

// maxStderrBytes caps captured hook stderr. Stderr is diagnostics only;
// unbounded capture would let a buggy hook exhaust memory.
const maxStderrBytes = 4096

// Hook outcome values recorded in DispatchResult.Executed.
const (
	OutcomeOK        = "ok"
	OutcomeTolerated = "tolerated"
)

// HookResult records the outcome of one executed hook.
type HookResult struct {
	HookID     string `json:"hook_id"`
	Outcome    string `json:"outcome"`
	ExitCode   int    `json:"exit_code"`
	TimedOut   bool   `json:"timed_out,omitempty"`
	DurationMS int64  `json:"duration_ms"`
}

// DispatchResult is the payload after all hooks for an event have run,
// plus which hooks executed and how each fared. Owned transiently by the
// caller; never persisted.
type DispatchResult struct {
	Payload  *Payload
	Executed []HookResult
}

// Runner executes the hooks registered for an event, in manifest order,
// against a single payload. A Runner is stateless and safe for concurrent
// dispatches of different events; hooks within one dispatch never run
// concurrently with each other, so later hooks observe earlier mutations.
type Runner struct {
	manifest       *Manifest
	defaultTimeout time.Duration
	logger         *slog.Logger
}

// NewRunner returns a runner over a loaded manifest. defaultTimeout bounds
// hooks that set no timeout_ms of their own; zero means unbounded.
func NewRunner(m *Manifest, defaultTimeout time.Duration) *Runner {
	return &Runner{
		manifest:       m,
		defaultTimeout: defaultTimeout,
		logger:         slog.Default(),
	}
}

// Run dispatches payload through every hook registered for event. An event
// with no hooks returns the payload unchanged with an empty executed list.
// A fatal hook failure aborts the remaining hooks and returns *ExecError.
func (r *Runner) Run(ctx context.Context, event Event, payload *Payload) (*DispatchResult, error) {
	result := &DispatchResult{Payload: payload}

	for _, def := range r.manifest.ForEvent(event) {
		hr, overlay, err := r.runOne(ctx, def, payload)
		if err != nil {
			return nil, err
		}
		result.Executed = append(result.Executed, hr)
		if overlay != nil {
			payload.Merge(overlay)
		}
	}
	return result, nil
}

// runOne executes a single hook subprocess: payload JSON on stdin, one JSON
// object expected on stdout, stderr captured for diagnostics. A nil overlay
// with a nil error means the failure was tolerated via continue_on_error.
func (r *Runner) runOne(ctx context.Context, def Definition, payload *Payload) (HookResult, map[string]any, error) {
	input, err := json.Marshal(payload)
	if err != nil {
		// Payload construction already proved serializability; only direct
		// Fields() mutation with a bad value can get here.
		return HookResult{}, nil, &ExecError{HookID: def.ID, ExitCode: -1, Reason: fmt.Sprintf("serialize payload: %v", err)}
	}

	hctx := ctx
	if timeout := def.Timeout(r.defaultTimeout); timeout > 0 {
		var cancel context.CancelFunc
		hctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	argv := r.manifest.commandArgv(def)
	cmd := exec.CommandContext(hctx, argv[0], argv[1:]...) //nolint:gosec // G204: commands come from the project's own validated manifest
	cmd.Dir = r.manifest.root
	cmd.Env = os.Environ()
	cmd.Stdin = bytes.NewReader(input)

	var stdout bytes.Buffer
	stderr := &limitedWriter{maxBytes: maxStderrBytes}
	cmd.Stdout = &stdout
	cmd.Stderr = stderr

	start := time.Now()
	runErr := cmd.Run()
	elapsed := time.Since(start)

	hr := HookResult{HookID: def.ID, DurationMS: elapsed.Milliseconds()}

	if runErr != nil {
		timedOut := errors.Is(hctx.Err(), context.DeadlineExceeded)
		exitCode := -1
		var exitErr *exec.ExitError
		if errors.As(runErr, &exitErr) {
			exitCode = exitErr.ExitCode()
		}

		if def.ContinueOnError {
			// Tolerated: the payload stays as it was before this hook ran
			// and the next hook still executes.
			r.logger.Warn("hook failed, continuing",
				"hook_id", def.ID,
				"exit_code", exitCode,
				"timed_out", timedOut,
				"stderr", stderr.String(),
			)
			hr.Outcome = OutcomeTolerated
			hr.ExitCode = exitCode
			hr.TimedOut = timedOut
			return hr, nil, nil
		}

		reason := fmt.Sprintf("exited with code %d", exitCode)
		if timedOut {
			reason = fmt.Sprintf("timed out after %s", def.Timeout(r.defaultTimeout))
		}
		return HookResult{}, nil, &ExecError{
			HookID:   def.ID,
			ExitCode: exitCode,
			TimedOut: timedOut,
			Stderr:   stderr.String(),
			Reason:   reason,
		}
	}

	// Exit 0: stdout must be a single JSON object of field overwrites.
	// Violating that contract is fatal regardless of continue_on_error.
	var overlay map[string]any
	if err := json.Unmarshal(bytes.TrimSpace(stdout.Bytes()), &overlay); err != nil || overlay == nil {
		return HookResult{}, nil, &ExecError{
			HookID: def.ID,
			Stderr: stderr.String(),
			Reason: "stdout is not a JSON object (hooks must print {} when making no changes)",
		}
	}

	hr.Outcome = OutcomeOK
	return hr, overlay, nil
}

// limitedWriter caps writes at maxBytes, silently discarding overflow.
type limitedWriter struct {
	buf      bytes.Buffer
	maxBytes int
}

func (w *limitedWriter) Write(p []byte) (int, error) {
	originalLen := len(p)
	remaining := w.maxBytes - w.buf.Len()
	if remaining <= 0 {
		return originalLen, nil // discard but report success
	}
	if len(p) > remaining {
		p = p[:remaining]
	}
	w.buf.Write(p)
	return originalLen, nil // always report original len to avoid short write errors
}

// String returns the captured bytes with a truncation marker when capped.
func (w *limitedWriter) String() string {
	s := w.buf.String()
	if w.buf.Len() >= w.maxBytes {
		s += " (truncated)"
	}
	return s
}
