// Package cache keeps successfully rendered pages in memory for a fixed TTL.
package cache

import (
	"sync"
	"time"

	"go.uber.org/zap"
)

// Defaults used when Config leaves a field zero.
const (
	DefaultTTL     = 48 * time.Hour
	DefaultCleanup = time.Hour
)

// Config controls expiry.
type Config struct {
	TTL     time.Duration
	Cleanup time.Duration
}

// Entry is a cached page.
type Entry struct {
	Body     []byte
	StoredAt time.Time
}

// Age reports how long ago the entry was stored.
func (e Entry) Age(now time.Time) time.Duration {
	return now.Sub(e.StoredAt)
}

// Cache maps request paths to rendered pages.
type Cache struct {
	ttl     time.Duration
	cleanup time.Duration
	logger  *zap.Logger
	now     func() time.Time

	mu      sync.RWMutex
	entries map[string]Entry

	stop     chan struct{}
	stopOnce sync.Once
	done     chan struct{}
}

// New creates a cache and starts its janitor. Call Close to stop it.
func New(cfg Config, logger *zap.Logger) *Cache {
	return newCache(cfg, logger, time.Now)
}

func newCache(cfg Config, logger *zap.Logger, now func() time.Time) *Cache {
	if cfg.TTL <= 0 {
		cfg.TTL = DefaultTTL
	}
	if cfg.Cleanup <= 0 {
		cfg.Cleanup = DefaultCleanup
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	c := &Cache{
		ttl:     cfg.TTL,
		cleanup: cfg.Cleanup,
		logger:  logger,
		now:     now,
		entries: make(map[string]Entry),
		stop:    make(chan struct{}),
		done:    make(chan struct{}),
	}
	go c.janitor()
	return c
}

// TTL returns the configured entry lifetime.
func (c *Cache) TTL() time.Duration {
	return c.ttl
}

// Get returns the entry for key if present and not expired.
func (c *Cache) Get(key string) (Entry, bool) {
	c.mu.RLock()
	entry, ok := c.entries[key]
	c.mu.RUnlock()

	if !ok || entry.Age(c.now()) >= c.ttl {
		return Entry{}, false
	}
	return entry, true
}

// Set stores body under key.
func (c *Cache) Set(key string, body []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = Entry{Body: body, StoredAt: c.now()}
}

// Len returns the number of stored entries, expired ones included.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Purge removes expired entries and returns how many were dropped.
func (c *Cache) Purge() int {
	now := c.now()

	c.mu.Lock()
	defer c.mu.Unlock()

	removed := 0
	for key, entry := range c.entries {
		if entry.Age(now) >= c.ttl {
			delete(c.entries, key)
			removed++
		}
	}
	return removed
}

// Close stops the janitor.
func (c *Cache) Close() {
	c.stopOnce.Do(func() {
		close(c.stop)
		<-c.done
	})
}

func (c *Cache) janitor() {
	defer close(c.done)

	ticker := time.NewTicker(c.cleanup)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if removed := c.Purge(); removed > 0 {
				c.logger.Info("Cleaned expired cache entries",
					zap.Int("removed", removed),
					zap.Int("remaining", c.Len()),
				)
			}
		case <-c.stop:
			return
		}
	}
}
