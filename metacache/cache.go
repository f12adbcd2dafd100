// Package metacache provides a small, bounded, path-keyed cache for
// extraction results. Entries are invalidated when the file's modify time
// or size changes, and the oldest insertion is evicted once the capacity is
// reached. The cache is an explicit component instance, never a shared
// global, and is handed to the extractors that want it.
package metacache

import (
	"container/list"
	"log/slog"
	"sync"
	"time"
)

const DefaultCapacity = 100

type entry struct {
	path    string
	modTime time.Time
	size    int64
	value   interface{}
}

// Cache is a thread-safe path→value cache with insertion-order eviction.
type Cache struct {
	capacity int
	logger   *slog.Logger
	mu       sync.Mutex
	order    *list.List               // oldest at front
	entries  map[string]*list.Element // path → element holding *entry
}

// New creates a cache bounded to capacity entries; a non-positive capacity
// selects the default.
func New(capacity int, logger *slog.Logger) *Cache {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Cache{
		capacity: capacity,
		logger:   logger,
		order:    list.New(),
		entries:  make(map[string]*list.Element),
	}
}

// Lookup returns the cached value for path when present and still valid for
// the given modify time and size. A stale entry is dropped on sight.
func (c *Cache) Lookup(path string, modTime time.Time, size int64) (interface{}, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	elem, found := c.entries[path]
	if !found {
		return nil, false
	}
	e := elem.Value.(*entry)
	if !e.modTime.Equal(modTime) || e.size != size {
		c.order.Remove(elem)
		delete(c.entries, path)
		c.logger.Debug("cache entry invalidated", "path", path)
		return nil, false
	}
	return e.value, true
}

// Store inserts or replaces the value for path. When the cache is full the
// oldest-inserted entry is evicted first.
func (c *Cache) Store(path string, modTime time.Time, size int64, value interface{}) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if elem, found := c.entries[path]; found {
		c.order.Remove(elem)
		delete(c.entries, path)
	}

	for len(c.entries) >= c.capacity {
		oldest := c.order.Front()
		if oldest == nil {
			break
		}
		evicted := oldest.Value.(*entry)
		c.order.Remove(oldest)
		delete(c.entries, evicted.path)
		c.logger.Debug("cache entry evicted", "path", evicted.path)
	}

	c.entries[path] = c.order.PushBack(&entry{
		path:    path,
		modTime: modTime,
		size:    size,
		value:   value,
	})
}

// Len returns the number of live entries.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
