package hooks

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// ManifestVersion is the single supported hook manifest schema version.
const ManifestVersion = 1

const (
	hooksDirName = "hooks"
	manifestName = "hook.json"
)

//go:embed hook.schema.json
var manifestSchemaData []byte

// manifestSchema validates the structural shape of hook.json before the
// typed checks below produce hook-level diagnostics.
//
//nolint:gochecknoglobals // compiled once; jsonschema.Schema is read-only after compile
var manifestSchema = jsonschema.MustCompileString(manifestName, string(manifestSchemaData))

// Definition is one hook declaration from the manifest.
type Definition struct {
	ID              string   `json:"id"`
	Event           Event    `json:"event"`
	Command         []string `json:"command"`
	ContinueOnError bool     `json:"continue_on_error"`
	TimeoutMS       int      `json:"timeout_ms"`
}

// Timeout returns the effective per-hook timeout: the definition's own
// timeout_ms when set, otherwise fallback. Zero means no timeout.
func (d Definition) Timeout(fallback time.Duration) time.Duration {
	if d.TimeoutMS > 0 {
		return time.Duration(d.TimeoutMS) * time.Millisecond
	}
	return fallback
}

// Manifest is a validated hook manifest. Hooks for the same event preserve
// declaration order; that order is the execution order.
type Manifest struct {
	Version int          `json:"version"`
	Hooks   []Definition `json:"hooks"`

	path     string
	hooksDir string
	root     string
}

// ManifestPath returns the manifest location under a project metadata dir.
func ManifestPath(metaDir string) string {
	return filepath.Join(metaDir, hooksDirName, manifestName)
}

// LoadManifest reads and validates the hook manifest under metaDir.
// Returns (nil, nil) when no manifest file exists; *ConfigError when the file
// exists but is malformed. Loading is a pure function of file contents: the
// fingerprint cache re-invokes it whenever the manifest or a referenced
// script changes on disk.
func LoadManifest(metaDir string) (*Manifest, error) {
	path := ManifestPath(metaDir)

	data, err := os.ReadFile(path) //nolint:gosec // G304: path is derived from the discovered project root
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, &ConfigError{Path: path, Reason: fmt.Sprintf("read manifest: %v", err)}
	}

	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, &ConfigError{Path: path, Reason: fmt.Sprintf("not valid JSON: %v", err)}
	}
	if err := manifestSchema.Validate(raw); err != nil {
		return nil, &ConfigError{Path: path, Reason: "schema violation: " + schemaErrorSummary(err)}
	}

	m := &Manifest{
		path:     path,
		hooksDir: filepath.Join(metaDir, hooksDirName),
		root:     filepath.Dir(metaDir),
	}
	if err := json.Unmarshal(data, m); err != nil {
		return nil, &ConfigError{Path: path, Reason: fmt.Sprintf("decode manifest: %v", err)}
	}

	if err := m.validate(); err != nil {
		return nil, err
	}
	return m, nil
}

// validate applies the checks the JSON Schema cannot express: the supported
// version, id uniqueness across the whole manifest, known events, non-empty
// commands, and existence of referenced local scripts.
func (m *Manifest) validate() error {
	if m.Version != ManifestVersion {
		return &ConfigError{
			Path:   m.path,
			Reason: fmt.Sprintf("unsupported manifest version %d (supported: %d)", m.Version, ManifestVersion),
		}
	}

	seen := make(map[string]struct{}, len(m.Hooks))
	for _, h := range m.Hooks {
		if _, dup := seen[h.ID]; dup {
			return &ConfigError{Path: m.path, HookID: h.ID, Reason: "duplicate hook id"}
		}
		seen[h.ID] = struct{}{}

		if !h.Event.Valid() {
			return &ConfigError{
				Path:   m.path,
				HookID: h.ID,
				Reason: fmt.Sprintf("unknown event %q (known: %s)", h.Event, joinEvents()),
			}
		}

		if len(h.Command) == 0 || strings.TrimSpace(h.Command[0]) == "" {
			return &ConfigError{Path: m.path, HookID: h.ID, Reason: "command must not be empty"}
		}

		if script, local := m.resolveScript(h.Command[0]); local {
			if _, err := os.Stat(script); err != nil {
				return &ConfigError{
					Path:   m.path,
					HookID: h.ID,
					Reason: fmt.Sprintf("hook script not found: %s", script),
				}
			}
		}
	}
	return nil
}

// ForEvent returns the hooks registered for event in declaration order.
func (m *Manifest) ForEvent(event Event) []Definition {
	var defs []Definition
	for _, h := range m.Hooks {
		if h.Event == event {
			defs = append(defs, h)
		}
	}
	return defs
}

// Path returns the manifest file location.
func (m *Manifest) Path() string { return m.path }

// ScriptPaths returns the deduplicated, sorted local script files referenced
// by the manifest's commands. Bare executable names resolved via PATH are
// excluded: only files under the caller's control participate in the change
// fingerprint.
func (m *Manifest) ScriptPaths() []string {
	set := make(map[string]struct{})
	for _, h := range m.Hooks {
		if len(h.Command) == 0 {
			continue
		}
		if script, local := m.resolveScript(h.Command[0]); local {
			set[script] = struct{}{}
		}
	}

	paths := make([]string, 0, len(set))
	for p := range set {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}

// resolveScript classifies a command's executable token. Absolute paths and
// paths containing a separator (resolved relative to the hooks dir) are local
// files; bare names are external executables looked up on PATH.
func (m *Manifest) resolveScript(argv0 string) (string, bool) {
	if argv0 == "" {
		return "", false
	}
	if filepath.IsAbs(argv0) {
		return filepath.Clean(argv0), true
	}
	if strings.ContainsRune(argv0, '/') {
		return filepath.Join(m.hooksDir, argv0), true
	}
	return "", false
}

// commandArgv returns the exec argv for a definition, with a local script
// token replaced by its resolved path.
func (m *Manifest) commandArgv(d Definition) []string {
	argv := make([]string, len(d.Command))
	copy(argv, d.Command)
	if script, local := m.resolveScript(argv[0]); local {
		argv[0] = script
	}
	return argv
}

func joinEvents() string {
	names := make([]string, 0, len(eventFields))
	for _, e := range Events() {
		names = append(names, string(e))
	}
	return strings.Join(names, ", ")
}

// schemaErrorSummary flattens a jsonschema validation error into one line.
func schemaErrorSummary(err error) string {
	ve, ok := err.(*jsonschema.ValidationError)
	if !ok {
		return err.Error()
	}
	var messages []string
	collectSchemaErrors(ve, &messages)
	if len(messages) == 0 {
		return ve.Error()
	}
	return strings.Join(messages, "; ")
}

func collectSchemaErrors(err *jsonschema.ValidationError, messages *[]string) {
	if err.InstanceLocation != "" {
		*messages = append(*messages, fmt.Sprintf("%s: %s", err.InstanceLocation, err.Message))
	}
	for _, cause := range err.Causes {
		collectSchemaErrors(cause, messages)
	}
}
