package container

import (
	"slices"
	"sync"

	"github.com/danpasecinic/hilt/internal/key"
)

// Cache stores instances built for one container, in creation order.
type Cache struct {
	mu        sync.RWMutex
	instances map[key.Key]any
	order     []key.Key
}

type CacheEntry struct {
	Key      key.Key
	Instance any
}

func NewCache() *Cache {
	return &Cache{instances: make(map[key.Key]any)}
}

func (c *Cache) Get(k key.Key) (any, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	instance, ok := c.instances[k]
	return instance, ok
}

func (c *Cache) Set(k key.Key, instance any) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.instances[k]; !exists {
		c.order = append(c.order, k)
	}
	c.instances[k] = instance
}

func (c *Cache) Delete(k key.Key) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.instances[k]; !exists {
		return
	}
	delete(c.instances, k)
	c.order = slices.DeleteFunc(c.order, func(o key.Key) bool { return o == k })
}

func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.instances = make(map[key.Key]any)
	c.order = nil
}

func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return len(c.instances)
}

func (c *Cache) Entries() []CacheEntry {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entries := make([]CacheEntry, 0, len(c.order))
	for _, k := range c.order {
		entries = append(entries, CacheEntry{Key: k, Instance: c.instances[k]})
	}
	return entries
}
