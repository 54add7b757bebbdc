package cache

import (
	"context"
	"sync"
)

// In-process route cache guarded by a read/write mutex.
//
// Hit/miss counters make cache behavior directly assertable in tests, and
// the zero dependency footprint makes this the default when no Redis
// address is configured.
type MemoryRouteCache struct {
	mu      sync.RWMutex
	entries map[string][]byte
	hits    int
	misses  int
}

func NewMemoryRouteCache() *MemoryRouteCache {
	return &MemoryRouteCache{entries: make(map[string][]byte)}
}

// Get returns the entry for key and whether it was present.
func (m *MemoryRouteCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	v, ok := m.entries[key]
	if !ok {
		m.misses++
		return nil, false, nil
	}
	m.hits++

	// Copy so callers cannot mutate the cached payload.
	out := make([]byte, len(v))
	copy(out, v)
	return out, true, nil
}

// Set stores value under key, overwriting any previous entry.
func (m *MemoryRouteCache) Set(_ context.Context, key string, value []byte) error {
	stored := make([]byte, len(value))
	copy(stored, value)

	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[key] = stored
	return nil
}

// Clear purges all entries unconditionally.
func (m *MemoryRouteCache) Clear(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = make(map[string][]byte)
	return nil
}

// Hits reports how many Gets found an entry.
func (m *MemoryRouteCache) Hits() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.hits
}

// Misses reports how many Gets found nothing.
func (m *MemoryRouteCache) Misses() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.misses
}

// Len reports the current number of entries.
func (m *MemoryRouteCache) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}
