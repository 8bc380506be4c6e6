// Package scancache memoizes completed scan results keyed by absolute path.
package scancache

import (
	"path/filepath"
	"strings"
	"sync"
)

// Cache is a mutex-guarded path-keyed store. All mutation is serialized, so
// scans for different roots running concurrently can share one cache.
type Cache[V any] struct {
	mu      sync.RWMutex
	entries map[string]V
}

func New[V any]() *Cache[V] {
	return &Cache[V]{entries: make(map[string]V)}
}

// Get returns the cached value for key, if any. Read-only, no side effects.
func (c *Cache[V]) Get(key string) (V, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	v, ok := c.entries[key]
	return v, ok
}

func (c *Cache[V]) Put(key string, v V) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = v
}

// Remove evicts exactly key, leaving descendants intact.
func (c *Cache[V]) Remove(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, key)
}

// RemovePrefix evicts key and every cached key nested beneath it. The check
// is separator-aware: removing /a/b evicts /a/b/c but never /a/bc.
func (c *Cache[V]) RemovePrefix(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for k := range c.entries {
		if isWithin(key, k) {
			delete(c.entries, k)
		}
	}
}

func (c *Cache[V]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]V)
}

func (c *Cache[V]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

func isWithin(root, path string) bool {
	if root == path {
		return true
	}
	return strings.HasPrefix(path, root+string(filepath.Separator))
}
