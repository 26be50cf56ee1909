// rdapify/rdap
// Copyright 2026 The rdapify authors.
// MIT License, see the LICENSE file.

package cache

import (
	"sync"
	"time"
)

// MemoryCache is the default RegistryCache: an in-process map with a single
// freshness timeout applied uniformly to every entry.
type MemoryCache struct {
	// Timeout is how long a saved entry stays Good before it reports Expired.
	Timeout time.Duration

	mu    sync.Mutex
	cache map[string][]byte
	mtime map[string]time.Time
}

// NewMemoryCache creates an empty MemoryCache with a 24 hour timeout.
func NewMemoryCache() *MemoryCache {
	return &MemoryCache{
		cache:   make(map[string][]byte),
		mtime:   make(map[string]time.Time),
		Timeout: 24 * time.Hour,
	}
}

func (m *MemoryCache) SetTimeout(timeout time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Timeout = timeout
}

func (m *MemoryCache) Save(filename string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	stored := make([]byte, len(data))
	copy(stored, data)

	m.cache[filename] = stored
	m.mtime[filename] = time.Now()

	return nil
}

func (m *MemoryCache) Load(filename string) ([]byte, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	data, ok := m.cache[filename]
	if !ok {
		return nil, false, nil
	}

	result := make([]byte, len(data))
	copy(result, data)

	return result, true, nil
}

func (m *MemoryCache) State(filename string) FileState {
	m.mu.Lock()
	defer m.mu.Unlock()

	mtime, ok := m.mtime[filename]
	if !ok {
		return Absent
	}

	if mtime.Add(m.Timeout).Before(time.Now()) {
		return Expired
	}

	return Good
}
