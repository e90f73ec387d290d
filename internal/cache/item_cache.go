// Package cache holds the in-memory stores that sit between marketplace
// feed interception and the resolution pipelines.
package cache

import "sync"

// ItemCache is a per-marketplace store of raw API item records. One instance
// belongs to exactly one marketplace adapter; records are never shared
// across marketplaces.
//
// Two access patterns are supported. Keyed: Put/PutMany with a stable key
// (asset id, item id, image URL) and a non-destructive Get. Queue: Enqueue
// plus PopFirst, for bulk feed endpoints where the consumer cannot address
// items by key and instead pairs list order with render order. PopFirst
// removes what it returns.
//
// Absence is transient, not permanent: the cache is populated
// asynchronously relative to its readers, which poll with bounded retries.
type ItemCache[T any] struct {
	mu    sync.Mutex
	items map[string]T
	queue []T
}

func NewItemCache[T any]() *ItemCache[T] {
	return &ItemCache[T]{items: make(map[string]T)}
}

// Put inserts or overwrites one record. Overwrites are expected; pages are
// fetched repeatedly.
func (c *ItemCache[T]) Put(key string, item T) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items[key] = item
}

// PutMany bulk-inserts records keyed by keyOf.
func (c *ItemCache[T]) PutMany(items []T, keyOf func(T) string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, item := range items {
		c.items[keyOf(item)] = item
	}
}

// Get is a point lookup; it does not remove.
func (c *ItemCache[T]) Get(key string) (T, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	item, ok := c.items[key]
	return item, ok
}

// Enqueue appends records to the ordered list consumed by PopFirst.
func (c *ItemCache[T]) Enqueue(items ...T) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.queue = append(c.queue, items...)
}

// PopFirst removes and returns the head of the queue. An empty queue yields
// ok=false, not an error; callers retry.
func (c *ItemCache[T]) PopFirst() (T, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.queue) == 0 {
		var zero T
		return zero, false
	}
	head := c.queue[0]
	c.queue = c.queue[1:]
	return head, true
}

// Len reports keyed entries plus queued entries.
func (c *ItemCache[T]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items) + len(c.queue)
}
