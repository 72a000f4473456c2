// Package cache provides in-memory caches used by the adapters.
package cache

import (
	"sync"

	"github.com/bnema/walcache/internal/application/port"
)

// Stats counts lookups served by an LRU.
type Stats struct {
	Hits      int64
	Misses    int64
	Evictions int64
}

// LRU is a thread-safe least recently used cache with a fixed capacity.
type LRU[K comparable, V any] struct {
	capacity int

	mu    sync.Mutex
	items map[K]*node[K, V]
	// head is the most recently used node, tail the least.
	head, tail *node[K, V]
	stats      Stats
}

type node[K comparable, V any] struct {
	key        K
	value      V
	prev, next *node[K, V]
}

var _ port.Cache[string, string] = (*LRU[string, string])(nil)

// NewLRU creates an LRU holding at most capacity items (minimum 1).
func NewLRU[K comparable, V any](capacity int) *LRU[K, V] {
	return &LRU[K, V]{
		capacity: max(capacity, 1),
		items:    make(map[K]*node[K, V], max(capacity, 1)),
	}
}

// Get returns the value for key and marks it most recently used.
func (c *LRU[K, V]) Get(key K) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	n, ok := c.items[key]
	if !ok {
		c.stats.Misses++
		var zero V
		return zero, false
	}
	c.stats.Hits++
	c.moveToFront(n)
	return n.value, true
}

// Set stores value under key, evicting the least recently used item when full.
func (c *LRU[K, V]) Set(key K, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if n, ok := c.items[key]; ok {
		n.value = value
		c.moveToFront(n)
		return
	}

	if len(c.items) >= c.capacity && c.tail != nil {
		victim := c.tail
		c.unlink(victim)
		delete(c.items, victim.key)
		c.stats.Evictions++
	}

	n := &node[K, V]{key: key, value: value}
	c.pushFront(n)
	c.items[key] = n
}

// Remove deletes key. Missing keys are ignored.
func (c *LRU[K, V]) Remove(key K) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if n, ok := c.items[key]; ok {
		c.unlink(n)
		delete(c.items, key)
	}
}

// Len returns the number of cached items.
func (c *LRU[K, V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}

// Stats returns the lookup counters.
func (c *LRU[K, V]) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stats
}

func (c *LRU[K, V]) moveToFront(n *node[K, V]) {
	if c.head == n {
		return
	}
	c.unlink(n)
	c.pushFront(n)
}

func (c *LRU[K, V]) pushFront(n *node[K, V]) {
	n.prev = nil
	n.next = c.head
	if c.head != nil {
		c.head.prev = n
	}
	c.head = n
	if c.tail == nil {
		c.tail = n
	}
}

func (c *LRU[K, V]) unlink(n *node[K, V]) {
	if n.prev != nil {
		n.prev.next = n.next
	} else {
		c.head = n.next
	}
	if n.next != nil {
		n.next.prev = n.prev
	} else {
		c.tail = n.prev
	}
	n.prev, n.next = nil, nil
}
