package cache

import (
	"sync"
	"time"
)

type memoryEntry struct {
	writtenAt time.Time
	payload   []byte
}

// MemoryStore is the in-process backend used by tests and cache-less runs.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
	ttls    TTLConfig
	now     func() time.Time
}

var _ Store = (*MemoryStore)(nil)

// NewMemoryStore builds an empty in-memory cache.
func NewMemoryStore(ttls TTLConfig) *MemoryStore {
	return &MemoryStore{
		entries: map[string]memoryEntry{},
		ttls:    ttls,
		now:     time.Now,
	}
}

// Get returns the payload if present and fresh.
func (s *MemoryStore) Get(domain Domain, key string) ([]byte, bool) {
	s.mu.RLock()
	entry, ok := s.entries[entryKey(domain, key)]
	s.mu.RUnlock()

	if !ok {
		return nil, false
	}
	if s.now().Sub(entry.writtenAt) > s.ttls.TTL(domain) {
		return nil, false
	}

	payload := make([]byte, len(entry.payload))
	copy(payload, entry.payload)
	return payload, true
}

// Set stores a copy of the payload, superseding any previous entry.
func (s *MemoryStore) Set(domain Domain, key string, payload []byte) {
	stored := make([]byte, len(payload))
	copy(stored, payload)

	s.mu.Lock()
	s.entries[entryKey(domain, key)] = memoryEntry{writtenAt: s.now(), payload: stored}
	s.mu.Unlock()
}
