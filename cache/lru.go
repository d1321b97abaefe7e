// Package cache provides a small TTL-aware LRU used to memoize query
// embeddings across iterations.
package cache

import (
	"container/list"
	"sync"
	"time"
)

// Cache is a bounded key/value store with expiry.
type Cache interface {
	Get(key string) (any, bool)
	Set(key string, value any)
	Len() int
	Purge()
}

type item struct {
	key     string
	value   any
	expires time.Time
}

type lru struct {
	mu       sync.Mutex
	capacity int
	ttl      time.Duration
	order    *list.List               // front = most recently used
	index    map[string]*list.Element // key -> element holding *item
}

// NewLRU creates an LRU cache. A non-positive ttl disables expiry.
func NewLRU(capacity int, ttl time.Duration) Cache {
	if capacity <= 0 {
		capacity = 256
	}
	return &lru{
		capacity: capacity,
		ttl:      ttl,
		order:    list.New(),
		index:    make(map[string]*list.Element, capacity),
	}
}

func (c *lru) Get(key string) (any, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	elem, ok := c.index[key]
	if !ok {
		return nil, false
	}
	it := elem.Value.(*item)
	if !it.expires.IsZero() && time.Now().After(it.expires) {
		c.remove(elem)
		return nil, false
	}
	c.order.MoveToFront(elem)
	return it.value, true
}

func (c *lru) Set(key string, value any) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if elem, ok := c.index[key]; ok {
		it := elem.Value.(*item)
		it.value = value
		it.expires = c.expiry()
		c.order.MoveToFront(elem)
		return
	}
	if c.order.Len() >= c.capacity {
		if oldest := c.order.Back(); oldest != nil {
			c.remove(oldest)
		}
	}
	c.index[key] = c.order.PushFront(&item{key: key, value: value, expires: c.expiry()})
}

func (c *lru) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.order.Len()
}

func (c *lru) Purge() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.order.Init()
	c.index = make(map[string]*list.Element, c.capacity)
}

func (c *lru) expiry() time.Time {
	if c.ttl <= 0 {
		return time.Time{}
	}
	return time.Now().Add(c.ttl)
}

func (c *lru) remove(elem *list.Element) {
	it := elem.Value.(*item)
	c.order.Remove(elem)
	delete(c.index, it.key)
}
