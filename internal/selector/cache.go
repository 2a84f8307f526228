package selector

import (
	"fmt"
	"sort"
	"sync"

	"github.com/julienpequegnot/imagepick/internal/content"
)

// Mirror is an optional persistent copy of the cache owned by the caller.
// Its reads are only consulted on an in-process miss.
type Mirror interface {
	Get(key string) (content.SelectionResult, bool, error)
	Put(key string, result content.SelectionResult) error
	Clear() error
}

// Stats describes the in-process cache contents.
type Stats struct {
	Size int
	Keys []string
}

// Cache maps content keys to selection results. It is safe for concurrent use.
type Cache struct {
	mu      sync.RWMutex
	entries map[string]content.SelectionResult
	mirror  Mirror
}

// NewCache creates an empty cache; mirror may be nil.
func NewCache(mirror Mirror) *Cache {
	return &Cache{
		entries: make(map[string]content.SelectionResult),
		mirror:  mirror,
	}
}

// Get returns the cached result for key. On an in-process miss the mirror is
// consulted and a hit there is promoted into memory; mirror errors count as a
// miss.
func (c *Cache) Get(key string) (content.SelectionResult, bool) {
	c.mu.RLock()
	result, ok := c.entries[key]
	c.mu.RUnlock()
	if ok || c.mirror == nil {
		return result, ok
	}

	result, ok, err := c.mirror.Get(key)
	if err != nil || !ok {
		return content.SelectionResult{}, false
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if existing, ok := c.entries[key]; ok {
		return existing, true
	}
	c.entries[key] = result
	return result, true
}

// Put stores result under key and mirrors it. The in-process entry is kept
// even when the mirror write fails.
func (c *Cache) Put(key string, result content.SelectionResult) error {
	c.mu.Lock()
	c.entries[key] = result
	c.mu.Unlock()

	if c.mirror == nil {
		return nil
	}
	if err := c.mirror.Put(key, result); err != nil {
		return fmt.Errorf("mirror cache entry: %w", err)
	}
	return nil
}

// Clear drops every entry, including mirrored ones.
func (c *Cache) Clear() error {
	c.mu.Lock()
	c.entries = make(map[string]content.SelectionResult)
	c.mu.Unlock()

	if c.mirror == nil {
		return nil
	}
	if err := c.mirror.Clear(); err != nil {
		return fmt.Errorf("clear cache mirror: %w", err)
	}
	return nil
}

func (c *Cache) Stats() Stats {
	c.mu.RLock()
	defer c.mu.RUnlock()

	keys := make([]string, 0, len(c.entries))
	for k := range c.entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	return Stats{Size: len(keys), Keys: keys}
}
