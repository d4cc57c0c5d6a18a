package hooks

import (
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/dotcommander/tasky/internal/project"
)

// Fingerprint is a change-detection signature over the manifest file and
// every local script it references (mtime + size each). Two fingerprints are
// equal iff the effective hook configuration is provably unchanged.
type Fingerprint string

type cacheEntry struct {
	fp Fingerprint
	// scripts is the local script list of the cached manifest. Recomputing
	// the current fingerprint needs it before reloading: a changed script
	// shows up as a stat mismatch, a changed manifest as a manifest-line
	// mismatch, and the rebuild then picks up the new script list.
	scripts []string
	bus     Bus
}

// Cache maps project identity to a built Bus, keyed by fingerprint. It is
// shared mutable state for the whole process; construct one per host (CLI
// invocation, MCP server) rather than relying on a package global, and call
// Reset to drop state between test cases or long-lived sessions.
type Cache struct {
	mu             sync.Mutex
	defaultTimeout time.Duration
	entries        map[string]cacheEntry
}

// NewCache returns an empty cache. defaultTimeout is passed through to the
// runners it builds.
func NewCache(defaultTimeout time.Duration) *Cache {
	return &Cache{
		defaultTimeout: defaultTimeout,
		entries:        make(map[string]cacheEntry),
	}
}

// Bus returns the hook bus for pc, rebuilding it when the manifest or any
// referenced local script changed on disk. The lock covers the
// lookup-or-build decision only; dispatching on the returned bus happens
// outside it, so already-cached projects never block each other.
func (c *Cache) Bus(pc project.Context) (Bus, error) {
	manifestPath := ManifestPath(pc.MetaDir())

	c.mu.Lock()
	defer c.mu.Unlock()

	if entry, ok := c.entries[pc.ID()]; ok {
		if fingerprint(manifestPath, entry.scripts) == entry.fp {
			return entry.bus, nil
		}
	}

	// Miss or stale: replace the entry wholesale. Load errors are not
	// cached, so a fixed manifest is picked up on the next call.
	m, err := LoadManifest(pc.MetaDir())
	if err != nil {
		return nil, err
	}

	var scripts []string
	if m != nil {
		scripts = m.ScriptPaths()
	}

	entry := cacheEntry{
		fp:      fingerprint(manifestPath, scripts),
		scripts: scripts,
		bus:     NewBus(m, c.defaultTimeout),
	}
	c.entries[pc.ID()] = entry
	return entry.bus, nil
}

// Reset clears all entries unconditionally. Tests and long-running hosts use
// it to avoid stale buses leaking across sessions.
func (c *Cache) Reset() {
	c.mu.Lock()
	c.entries = make(map[string]cacheEntry)
	c.mu.Unlock()
}

// fingerprint stats the manifest and each script. A missing file contributes
// a distinct marker, so creation and deletion also invalidate.
func fingerprint(manifestPath string, scripts []string) Fingerprint {
	var b strings.Builder
	writeStatLine(&b, manifestPath)
	for _, s := range scripts {
		writeStatLine(&b, s)
	}
	return Fingerprint(b.String())
}

func writeStatLine(b *strings.Builder, path string) {
	fi, err := os.Stat(path)
	if err != nil {
		fmt.Fprintf(b, "%s|absent\n", path)
		return
	}
	fmt.Fprintf(b, "%s|%d|%d\n", path, fi.ModTime().UnixNano(), fi.Size())
}
