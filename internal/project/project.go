// Package project locates the project a command operates on. A project is any
// directory containing a .tasky metadata directory; discovery walks up from
// the starting directory the way git finds its .git dir.
package project

import (
	"fmt"
	"os"
	"path/filepath"
)

// MetaDirName is the per-project metadata directory.
const MetaDirName = ".tasky"

// Context identifies a project on disk. The zero value is not valid; use New
// or Discover.
type Context struct {
	root string
}

// New returns a Context for the given project root. The root does not need to
// contain a metadata directory yet (tasky init creates it).
func New(root string) (Context, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return Context{}, fmt.Errorf("resolve project root: %w", err)
	}
	return Context{root: filepath.Clean(abs)}, nil
}

// Root returns the absolute project root directory.
func (c Context) Root() string { return c.root }

// ID returns a stable identity usable as a cache key.
func (c Context) ID() string { return c.root }

// MetaDir returns the project's .tasky metadata directory.
func (c Context) MetaDir() string { return filepath.Join(c.root, MetaDirName) }

// HooksDir returns the directory holding the hook manifest and local scripts.
func (c Context) HooksDir() string { return filepath.Join(c.MetaDir(), "hooks") }

// EnsureMetaDir creates the metadata and hooks directories.
func (c Context) EnsureMetaDir() error {
	if err := os.MkdirAll(c.HooksDir(), 0750); err != nil {
		return fmt.Errorf("create %s: %w", c.MetaDir(), err)
	}
	return nil
}

// Discover walks up from startDir looking for a .tasky directory.
// Returns ok=false when no project root is found.
func Discover(startDir string) (Context, bool, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return Context{}, false, fmt.Errorf("resolve start directory: %w", err)
	}

	for {
		info, err := os.Stat(filepath.Join(dir, MetaDirName))
		if err == nil && info.IsDir() {
			return Context{root: dir}, true, nil
		}
		if err != nil && !os.IsNotExist(err) {
			return Context{}, false, fmt.Errorf("probe %s: %w", dir, err)
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return Context{}, false, nil
		}
		dir = parent
	}
}
