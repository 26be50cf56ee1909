// rdapify/rdap
// Copyright 2026 The rdapify authors.
// MIT License, see the LICENSE file.

// Package resultcache caches raw query results, independent from
// bootstrap/cache's raw IANA registry document cache. Entries carry their
// own expiry so a short-TTL negative (not-found) result doesn't outlive a
// longer-TTL positive one.
package resultcache

import (
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2/expirable"
)

// Entry is a cached lookup result, stored as opaque bytes so the cache
// package has no dependency on the normalized response types.
type Entry struct {
	Value     []byte
	StoredAt  time.Time
	TTL       time.Duration
}

// Cache stores Entry values keyed by query fingerprint (kind + canonical
// form, e.g. "domain:example.com").
type Cache interface {
	Get(key string) (Entry, bool)
	Put(key string, entry Entry)
	Purge()
}

// lruCache is the default Cache, an LRU whose underlying expirable.LRU
// evicts every entry no later than the cache-wide maxTTL, plus the TTL
// recorded on each Entry: Get removes and misses an entry older than its
// own TTL.
type lruCache struct {
	mu    sync.Mutex
	inner *lru.LRU[string, Entry]
}

// New builds a Cache holding up to size entries, each evicted no later
// than maxTTL after insertion.
func New(size int, maxTTL time.Duration) Cache {
	return &lruCache{inner: lru.NewLRU[string, Entry](size, nil, maxTTL)}
}

func (c *lruCache) Get(key string) (Entry, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.inner.Get(key)
	if !ok {
		return Entry{}, false
	}
	if entry.TTL > 0 && time.Since(entry.StoredAt) > entry.TTL {
		c.inner.Remove(key)
		return Entry{}, false
	}
	return entry, true
}

func (c *lruCache) Put(key string, entry Entry) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.inner.Add(key, entry)
}

func (c *lruCache) Purge() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.inner.Purge()
}
