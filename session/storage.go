package session

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// Storage persists session snapshots. Implementations must tolerate concurrent
// Save calls.
type Storage interface {
	// Save persists the snapshot.
	Save(s State) error
	// Load returns the last snapshot and whether one existed.
	Load() (State, bool, error)
	// Clear removes any persisted snapshot.
	Clear() error
}

// FileStorage keeps the snapshot as JSON on disk, written atomically.
type FileStorage struct {
	path string
	mu   sync.Mutex
}

func NewFileStorage(path string) *FileStorage {
	return &FileStorage{path: path}
}

func (f *FileStorage) Save(s State) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	raw, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding session state: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(f.path), 0750); err != nil {
		return fmt.Errorf("creating state dir: %w", err)
	}
	tmp := f.path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0600); err != nil {
		return fmt.Errorf("writing session state: %w", err)
	}
	if err := os.Rename(tmp, f.path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("committing session state: %w", err)
	}
	return nil
}

func (f *FileStorage) Load() (State, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	raw, err := os.ReadFile(f.path)
	if os.IsNotExist(err) {
		return State{}, false, nil
	}
	if err != nil {
		return State{}, false, fmt.Errorf("reading session state: %w", err)
	}
	var s State
	if err := json.Unmarshal(raw, &s); err != nil {
		return State{}, false, fmt.Errorf("decoding session state: %w", err)
	}
	return s, true, nil
}

func (f *FileStorage) Clear() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	err := os.Remove(f.path)
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// MemoryStorage is the test and ephemeral-session implementation.
type MemoryStorage struct {
	mu    sync.Mutex
	state State
	saved bool
	// FailSaves forces Save errors, for exercising persistence-failure paths.
	FailSaves bool
}

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{}
}

func (m *MemoryStorage) Save(s State) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailSaves {
		return fmt.Errorf("storage unavailable")
	}
	m.state = s
	m.saved = true
	return nil
}

func (m *MemoryStorage) Load() (State, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state, m.saved, nil
}

func (m *MemoryStorage) Clear() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state = State{}
	m.saved = false
	return nil
}
