package alert

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sync"
)

// ErrHookNotFound is returned when a requested hook cannot be found.
var ErrHookNotFound = errors.New("hook not found")

// Manager manages hook discovery and access.
type Manager struct {
	hooksDir string
	hooks    map[string]*Hook
	mu       sync.RWMutex
}

// NewManager creates a new hook Manager for the given directory.
func NewManager(hooksDir string) *Manager {
	return &Manager{
		hooksDir: hooksDir,
		hooks:    make(map[string]*Hook),
	}
}

// Discover scans the hooks directory for hook.json manifests.
// Each subdirectory is expected to be one hook with a hook.json file
// next to its executable.
func (m *Manager) Discover() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.hooks = make(map[string]*Hook)

	info, err := os.Stat(m.hooksDir)
	if os.IsNotExist(err) {
		return nil // No hooks directory, nothing to discover
	}
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return nil
	}

	entries, err := os.ReadDir(m.hooksDir)
	if err != nil {
		return err
	}

	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		hookPath := filepath.Join(m.hooksDir, entry.Name())
		manifestPath := filepath.Join(hookPath, "hook.json")

		if _, err := os.Stat(manifestPath); os.IsNotExist(err) {
			continue
		}

		manifestData, err := os.ReadFile(manifestPath)
		if err != nil {
			continue // Skip hooks we can't read
		}

		var manifest Manifest
		if err := json.Unmarshal(manifestData, &manifest); err != nil {
			continue // Skip hooks with invalid JSON
		}

		m.hooks[manifest.Name] = &Hook{
			Manifest:   manifest,
			Path:       hookPath,
			Executable: filepath.Join(hookPath, manifest.Executable),
		}
	}

	return nil
}

// Get returns a hook by name.
// Returns ErrHookNotFound if the hook does not exist.
func (m *Manager) Get(name string) (*Hook, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	hook, ok := m.hooks[name]
	if !ok {
		return nil, ErrHookNotFound
	}

	return hook, nil
}

// List returns a slice of all discovered hooks.
func (m *Manager) List() []*Hook {
	m.mu.RLock()
	defer m.mu.RUnlock()

	hooks := make([]*Hook, 0, len(m.hooks))
	for _, hook := range m.hooks {
		hooks = append(hooks, hook)
	}

	return hooks
}

// HooksDir returns the hooks directory path.
func (m *Manager) HooksDir() string {
	return m.hooksDir
}
