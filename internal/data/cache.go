package data

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

type cacheEntry[V any] struct {
	value     V
	expiresAt time.Time
}

// RunCache keeps finished runs in memory for a limited time so their
// ledgers and exports can be fetched after the request that produced them.
type RunCache[V any] struct {
	mu    sync.RWMutex
	store map[string]*cacheEntry[V]
	ttl   time.Duration
	now   func() time.Time

	stop chan struct{}
	once sync.Once
}

// NewRunCache starts a cache whose entries live for ttl. A background
// sweep removes expired entries every sweep interval; pass 0 to disable it.
func NewRunCache[V any](ttl, sweep time.Duration) *RunCache[V] {
	c := &RunCache[V]{
		store: make(map[string]*cacheEntry[V]),
		ttl:   ttl,
		now:   time.Now,
		stop:  make(chan struct{}),
	}
	if sweep > 0 {
		go c.cleanup(sweep)
	}
	return c
}

// Put stores v under a fresh id and returns the id.
func (c *RunCache[V]) Put(v V) string {
	id := uuid.NewString()
	c.mu.Lock()
	defer c.mu.Unlock()
	c.store[id] = &cacheEntry[V]{value: v, expiresAt: c.now().Add(c.ttl)}
	return id
}

// Get returns the value stored under id if present and not expired.
func (c *RunCache[V]) Get(id string) (V, bool) {
	var zero V
	if c == nil {
		return zero, false
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, ok := c.store[id]
	if !ok || c.now().After(entry.expiresAt) {
		return zero, false
	}
	return entry.value, true
}

func (c *RunCache[V]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.store)
}

// Close stops the background sweep.
func (c *RunCache[V]) Close() {
	c.once.Do(func() { close(c.stop) })
}

func (c *RunCache[V]) cleanup(every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-c.stop:
			return
		case <-ticker.C:
			c.sweep()
		}
	}
}

func (c *RunCache[V]) sweep() {
	c.mu.Lock()
	defer c.mu.Unlock()
	now := c.now()
	for id, entry := range c.store {
		if now.After(entry.expiresAt) {
			delete(c.store, id)
		}
	}
}
