package statedir

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"git.home.luguber.info/inful/branchlaunch/internal/logfields"
)

const ignoreFile = ".gitignore"

// Manager handles the state directory below a project root.
type Manager struct {
	path string
}

// NewManager returns a manager for dir. Relative paths resolve against root.
func NewManager(root, dir string) *Manager {
	if dir == "" {
		dir = ".branchlaunch"
	}
	if !filepath.IsAbs(dir) {
		dir = filepath.Join(root, dir)
	}
	return &Manager{path: dir}
}

// Create ensures the directory exists and is ignored by git.
func (m *Manager) Create() error {
	if err := os.MkdirAll(m.path, 0o750); err != nil {
		return fmt.Errorf("failed to create state directory: %w", err)
	}

	ignore := filepath.Join(m.path, ignoreFile)
	if _, err := os.Stat(ignore); os.IsNotExist(err) {
		if err := os.WriteFile(ignore, []byte("*\n"), 0o600); err != nil {
			return fmt.Errorf("failed to write %s: %w", ignoreFile, err)
		}
	}

	slog.Debug("Using state directory", logfields.Path(m.path))
	return nil
}

// File returns the path of name inside the state directory. Absolute names
// are returned unchanged.
func (m *Manager) File(name string) string {
	if filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(m.path, name)
}

// Exists reports whether the state directory has been created.
func (m *Manager) Exists() bool {
	info, err := os.Stat(m.path)
	return err == nil && info.IsDir()
}
