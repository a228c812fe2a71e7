// Package prefs is a small string key-value store for settings that outlive
// a single run of the console.
package prefs

import (
	"crypto/sha256"
	"encoding/hex"
	"path/filepath"
	"sync"
)

// Store persists string values by key.
type Store interface {
	// GetString returns the stored value, or def when key is absent or the
	// store cannot be read.
	GetString(key, def string) string
	SetString(key, value string) error
	Delete(key string) error
	Close() error
}

// KeyFor returns the key the console's configuration is stored under for one
// installation. Two installations never share a blob.
func KeyFor(installDir string) string {
	sum := sha256.Sum256([]byte(filepath.Clean(installDir)))
	return "sqlpad.config." + hex.EncodeToString(sum[:8])
}

// MemoryStore keeps values in a map.
type MemoryStore struct {
	mu     sync.RWMutex
	values map[string]string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{values: map[string]string{}}
}

func (m *MemoryStore) GetString(key, def string) string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if v, ok := m.values[key]; ok {
		return v
	}
	return def
}

func (m *MemoryStore) SetString(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = value
	return nil
}

func (m *MemoryStore) Delete(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.values, key)
	return nil
}

func (m *MemoryStore) Close() error { return nil }
