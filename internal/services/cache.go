package services

import (
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// Generic in-memory cache with sliding expiration
type Cache[K comparable, V any] struct {
	mu    sync.RWMutex
	items map[K]*cacheItem[V]
	ttl   time.Duration
	now   func() time.Time

	stop     chan struct{}
	stopOnce sync.Once
}

type cacheItem[V any] struct {
	value      V
	expiration time.Time
}

// NewCache starts a cleanup goroutine every cleanupInterval; pass 0 to
// leave expiry to explicit Purge calls.
func NewCache[K comparable, V any](ttl, cleanupInterval time.Duration) *Cache[K, V] {
	c := &Cache[K, V]{
		items: make(map[K]*cacheItem[V]),
		ttl:   ttl,
		now:   time.Now,
		stop:  make(chan struct{}),
	}

	if cleanupInterval > 0 {
		go c.cleanup(cleanupInterval)
	}

	return c
}

// Get returns a live item and extends its expiration.
func (c *Cache[K, V]) Get(key K) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	item, exists := c.items[key]
	if !exists || c.now().After(item.expiration) {
		var zero V
		return zero, false
	}

	item.expiration = c.now().Add(c.ttl)
	return item.value, true
}

// GetOrCreate returns the live item for key, or stores create() under it.
func (c *Cache[K, V]) GetOrCreate(key K, create func() V) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	if item, exists := c.items[key]; exists && !now.After(item.expiration) {
		item.expiration = now.Add(c.ttl)
		return item.value, false
	}

	value := create()
	c.items[key] = &cacheItem[V]{
		value:      value,
		expiration: now.Add(c.ttl),
	}
	return value, true
}

func (c *Cache[K, V]) Set(key K, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.items[key] = &cacheItem[V]{
		value:      value,
		expiration: c.now().Add(c.ttl),
	}
}

// Purge drops expired items and reports how many were removed.
func (c *Cache[K, V]) Purge() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	removed := 0
	for key, item := range c.items {
		if now.After(item.expiration) {
			delete(c.items, key)
			removed++
		}
	}
	return removed
}

func (c *Cache[K, V]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}

// Close stops the cleanup goroutine. It is safe to call more than once.
func (c *Cache[K, V]) Close() {
	c.stopOnce.Do(func() { close(c.stop) })
}

func (c *Cache[K, V]) cleanup(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.Purge()
		case <-c.stop:
			return
		}
	}
}

// SessionRegistry hands each session its own ScenarioStore. Stores of
// sessions idle longer than the TTL are dropped.
type SessionRegistry struct {
	stores *Cache[string, *ScenarioStore]
	logger *logrus.Logger
}

func NewSessionRegistry(ttl time.Duration, logger *logrus.Logger) *SessionRegistry {
	interval := ttl / 4
	if interval > 5*time.Minute {
		interval = 5 * time.Minute
	}
	return &SessionRegistry{
		stores: NewCache[string, *ScenarioStore](ttl, interval),
		logger: logger,
	}
}

// Store returns the session's store, creating an empty one on first use.
func (r *SessionRegistry) Store(sessionID string) *ScenarioStore {
	store, created := r.stores.GetOrCreate(sessionID, NewScenarioStore)
	if created {
		r.logger.WithField("session_id", sessionID).Debug("session store created")
	}
	return store
}

// Lookup returns the session's store without creating one.
func (r *SessionRegistry) Lookup(sessionID string) (*ScenarioStore, bool) {
	return r.stores.Get(sessionID)
}

func (r *SessionRegistry) Purge() int {
	removed := r.stores.Purge()
	if removed > 0 {
		r.logger.WithField("removed", removed).Info("expired sessions purged")
	}
	return removed
}

func (r *SessionRegistry) Active() int {
	return r.stores.Len()
}

func (r *SessionRegistry) Close() {
	r.stores.Close()
}
