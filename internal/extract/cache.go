package extract

import "sync"

// Cache stores extraction results keyed by hash(filePath, fileContents).
// A stored nil document is the "no fragments" sentinel, so unchanged
// fragment-free files skip re-traversal too. Entries are never invalidated;
// the key changes whenever content does.
type Cache interface {
	Get(key string) (*Document, bool)
	Put(key string, doc *Document)
}

// MemoryCache is a process-wide in-memory Cache. Concurrent first requests
// for the same key may both compute and both write; the value is identical
// either way, so the last write is benign.
type MemoryCache struct {
	mu      sync.RWMutex
	entries map[string]*Document
}

// NewMemoryCache creates an empty MemoryCache.
func NewMemoryCache() *MemoryCache {
	return &MemoryCache{entries: make(map[string]*Document)}
}

func (c *MemoryCache) Get(key string) (*Document, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	doc, ok := c.entries[key]
	return doc, ok
}

func (c *MemoryCache) Put(key string, doc *Document) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = doc
}

// Len returns the number of cached entries.
func (c *MemoryCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
