package recents

import (
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/1broseidon/panehost/internal/window"
)

// Key is the well-known name the list is persisted under.
const Key = "lastOpenedWindows"

// Backend names accepted by Open.
const (
	BackendJSON   = "json"
	BackendSQLite = "sqlite"
	BackendMemory = "memory"
)

// Store is a durable home for the recents list.
type Store interface {
	Load() ([]window.Config, error)
	Save([]window.Config) error
}

// Open builds the store for backend. An empty path picks the backend's
// default location.
func Open(backend, path string) (Store, error) {
	switch strings.ToLower(strings.TrimSpace(backend)) {
	case "", BackendJSON:
		if path == "" {
			p, err := DefaultFilePath()
			if err != nil {
				return nil, err
			}
			path = p
		}
		return NewFileStore(path), nil
	case BackendSQLite:
		if path == "" {
			p, err := DefaultSQLitePath()
			if err != nil {
				return nil, err
			}
			path = p
		}
		return OpenSQLite(path)
	case BackendMemory:
		return NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unknown recents backend %q", backend)
	}
}

// Decode parses a persisted list. Malformed or absent data yields an empty
// list, and entries without a content URL are dropped.
func Decode(data []byte) []window.Config {
	if len(strings.TrimSpace(string(data))) == 0 {
		return []window.Config{}
	}
	var raw []window.Config
	if err := json.Unmarshal(data, &raw); err != nil {
		return []window.Config{}
	}
	out := make([]window.Config, 0, len(raw))
	for _, cfg := range raw {
		if cfg.ContentURL == "" {
			continue
		}
		out = append(out, cfg)
	}
	return out
}

// Encode serializes the list in its persisted form.
func Encode(items []window.Config) ([]byte, error) {
	if items == nil {
		items = []window.Config{}
	}
	data, err := json.MarshalIndent(items, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode recents: %w", err)
	}
	return data, nil
}

// MemoryStore keeps the list in process memory.
type MemoryStore struct {
	mu    sync.Mutex
	data  []byte
	saves int
}

// NewMemoryStore returns an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// Load decodes the last saved list.
func (m *MemoryStore) Load() ([]window.Config, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return Decode(m.data), nil
}

// Save replaces the stored list.
func (m *MemoryStore) Save(items []window.Config) error {
	data, err := Encode(items)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data = data
	m.saves++
	return nil
}

// SetRaw replaces the stored bytes verbatim.
func (m *MemoryStore) SetRaw(data []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data = append([]byte(nil), data...)
}

// Saves returns how many times Save has succeeded.
func (m *MemoryStore) Saves() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.saves
}
