package cache

import (
	"container/list"
	"sync"
)

// FIFOCache is a bounded cache that evicts the oldest-inserted entry when
// full. Re-setting an existing key updates the value in place without
// refreshing its insertion position, so eviction order depends only on when
// a key first entered the cache. Safe for concurrent use.
type FIFOCache[T any] struct {
	mu      sync.Mutex
	maxSize int
	items   map[string]*list.Element
	order   *list.List // front = oldest inserted
}

type cacheItem[T any] struct {
	key  string
	data T
}

// NewFIFOCache creates a new FIFO cache holding at most maxSize entries.
func NewFIFOCache[T any](maxSize int) *FIFOCache[T] {
	if maxSize < 1 {
		maxSize = 1
	}
	return &FIFOCache[T]{
		maxSize: maxSize,
		items:   make(map[string]*list.Element),
		order:   list.New(),
	}
}

// Get retrieves a value from the cache.
func (c *FIFOCache[T]) Get(key string) (T, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var zero T
	elem, exists := c.items[key]
	if !exists {
		return zero, false
	}
	return elem.Value.(*cacheItem[T]).data, true
}

// Set stores a value in the cache, evicting the oldest-inserted entry first
// when the cache is full.
func (c *FIFOCache[T]) Set(key string, data T) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if elem, exists := c.items[key]; exists {
		elem.Value.(*cacheItem[T]).data = data
		return
	}

	if c.order.Len() >= c.maxSize {
		oldest := c.order.Front()
		if oldest != nil {
			c.removeElement(oldest)
		}
	}

	elem := c.order.PushBack(&cacheItem[T]{key: key, data: data})
	c.items[key] = elem
}

// Delete removes a key from the cache.
func (c *FIFOCache[T]) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if elem, exists := c.items[key]; exists {
		c.removeElement(elem)
	}
}

// Clear removes every entry.
func (c *FIFOCache[T]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.items = make(map[string]*list.Element)
	c.order.Init()
}

// Size returns the current number of items in the cache.
func (c *FIFOCache[T]) Size() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}

func (c *FIFOCache[T]) removeElement(elem *list.Element) {
	item := elem.Value.(*cacheItem[T])
	delete(c.items, item.key)
	c.order.Remove(elem)
}
