package wallet

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sync"

	"github.com/arrondavide/psite/internal/app/domain/session"
)

// SessionStore persists at most one wallet session record across restarts.
// It is the portal's analog of the browser key/value store.
type SessionStore interface {
	// Load returns the persisted record, or ok=false when none exists.
	Load() (rec session.Record, ok bool, err error)
	Save(rec session.Record) error
	// Clear removes the record. Clearing an empty store is not an error.
	Clear() error
}

// =============================================================================
// File-backed store
// =============================================================================

// FileStore persists the session record as a JSON file.
type FileStore struct {
	path string
	mu   sync.Mutex
}

// NewFileStore creates a store writing to path.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

func (f *FileStore) Load() (session.Record, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	data, err := os.ReadFile(f.path)
	if errors.Is(err, os.ErrNotExist) {
		return session.Record{}, false, nil
	}
	if err != nil {
		return session.Record{}, false, err
	}

	var rec session.Record
	if err := json.Unmarshal(data, &rec); err != nil {
		// A corrupt record is treated as absent; the next Save rewrites it.
		return session.Record{}, false, nil
	}
	if rec.Address == "" {
		return session.Record{}, false, nil
	}
	return rec, true, nil
}

func (f *FileStore) Save(rec session.Record) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	data, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(f.path), 0o755); err != nil {
		return err
	}

	// Write-then-rename so a crash never leaves a half-written record.
	tmp := f.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return err
	}
	return os.Rename(tmp, f.path)
}

func (f *FileStore) Clear() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	err := os.Remove(f.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}

// =============================================================================
// In-memory store
// =============================================================================

// MemoryStore keeps the session record in memory, for tests and dev mode.
type MemoryStore struct {
	mu  sync.Mutex
	rec *session.Record
}

// NewMemoryStore creates an empty in-memory session store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (m *MemoryStore) Load() (session.Record, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.rec == nil {
		return session.Record{}, false, nil
	}
	return *m.rec, true, nil
}

func (m *MemoryStore) Save(rec session.Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.rec = &rec
	return nil
}

func (m *MemoryStore) Clear() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.rec = nil
	return nil
}
