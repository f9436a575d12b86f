package client

import (
	"encoding/json"
	"sync"
	"time"

	demoTypes "moneyticket-demo/types/demo"
)

// sessionStorageKey is the single namespace the cache writes under.
const sessionStorageKey = "demoSession"

// Storage is the minimal key-value surface the cache needs. The canonical
// implementation is ephemeral in-memory storage; a browser-backed or
// file-backed one can be substituted.
type Storage interface {
	Get(key string) (string, error)
	Set(key, value string) error
	Remove(key string) error
}

// SessionCache mirrors the active demo session on the client side. It holds
// no authority: the server-side session record always wins. Every failure
// mode (storage error, malformed JSON, past expiry) reads as "absent".
type SessionCache struct {
	storage Storage
	nowFunc func() time.Time
}

// NewSessionCache creates a cache over the given storage.
func NewSessionCache(storage Storage) *SessionCache {
	return &SessionCache{
		storage: storage,
		nowFunc: time.Now,
	}
}

// Save overwrites the cached session.
func (c *SessionCache) Save(data demoTypes.SessionData) error {
	raw, err := json.Marshal(data)
	if err != nil {
		return err
	}
	return c.storage.Set(sessionStorageKey, string(raw))
}

// Load returns the cached session, or nil when none is usable. An expired
// entry is cleared on the way out.
func (c *SessionCache) Load() *demoTypes.SessionData {
	raw, err := c.storage.Get(sessionStorageKey)
	if err != nil || raw == "" {
		return nil
	}

	var data demoTypes.SessionData
	if err := json.Unmarshal([]byte(raw), &data); err != nil {
		return nil
	}

	if data.ExpiresAt.Before(c.nowFunc()) {
		c.Clear()
		return nil
	}
	return &data
}

// Clear drops the cached session. Storage failures are swallowed.
func (c *SessionCache) Clear() {
	_ = c.storage.Remove(sessionStorageKey)
}

// IsActive reports whether a usable demo session is cached.
func (c *SessionCache) IsActive() bool {
	data := c.Load()
	return data != nil && data.IsDemo
}

// MemoryStorage is an ephemeral in-process Storage implementation.
type MemoryStorage struct {
	mu     sync.RWMutex
	values map[string]string
}

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{values: make(map[string]string)}
}

func (m *MemoryStorage) Get(key string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.values[key], nil
}

func (m *MemoryStorage) Set(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = value
	return nil
}

func (m *MemoryStorage) Remove(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.values, key)
	return nil
}
