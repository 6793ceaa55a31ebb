package cache

import (
	"fmt"
	"path/filepath"

	"modsync/core/apperr"

	"github.com/spf13/afero"
)

const (
	downloadsDir = "downloads"
	hashesFile   = "mod-hashes.json"
)

// Manager owns the cache root: the download staging area and the persisted hash table.
// It is not safe for use by concurrent processes.
type Manager struct {
	fs   afero.Fs
	root string
}

// New creates a manager for root. Nothing is created until EnsureDirs is called.
func New(fs afero.Fs, root string) *Manager {
	return &Manager{fs: fs, root: root}
}

// Root returns the cache root directory.
func (m *Manager) Root() string {
	return m.root
}

// Downloads returns the staging directory for in-flight downloads.
func (m *Manager) Downloads() string {
	return filepath.Join(m.root, downloadsDir)
}

// HashesPath returns the location of the persisted hash table.
func (m *Manager) HashesPath() string {
	return filepath.Join(m.root, hashesFile)
}

// Init creates the cache root and the staging directory.
func (m *Manager) Init() error {
	return m.EnsureDirs(m.root, m.Downloads())
}

// EnsureDirs creates every directory in paths, including parents.
func (m *Manager) EnsureDirs(paths ...string) error {
	for _, p := range paths {
		if err := m.fs.MkdirAll(p, 0755); err != nil {
			return apperr.IO("create directory", p, err)
		}
	}
	return nil
}

// Clear removes the cache root and everything under it. It does not ask for
// confirmation and is never called by the sync path.
func (m *Manager) Clear() error {
	if m.root == "" || filepath.Clean(m.root) == string(filepath.Separator) {
		return fmt.Errorf("refusing to clear cache root %q", m.root)
	}
	if err := m.fs.RemoveAll(m.root); err != nil {
		return apperr.IO("clear cache", m.root, err)
	}
	return nil
}
