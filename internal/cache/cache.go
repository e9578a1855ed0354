package cache

import (
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/kyxap1/geoip-legacy/internal/types"
)

// DefaultCleanupInterval is how often expired entries are swept
const DefaultCleanupInterval = 5 * time.Minute

// CacheEntry is one cached lookup result
type CacheEntry struct {
	Data      *types.LocationInfo
	ExpiresAt time.Time
}

// IPCache keeps recent lookup results keyed by the address string
type IPCache struct {
	mu         sync.RWMutex
	entries    map[string]*CacheEntry
	ttl        time.Duration
	maxEntries int
	logger     *logrus.Logger

	hits      atomic.Int64
	misses    atomic.Int64
	evictions atomic.Int64

	stopOnce sync.Once
	stopCh   chan struct{}
}

// NewIPCache creates a cache and starts its background sweep
func NewIPCache(ttl time.Duration, maxEntries int, logger *logrus.Logger) *IPCache {
	c := NewIPCacheNoCleanup(ttl, maxEntries, logger)
	go c.sweep(DefaultCleanupInterval)
	return c
}

// NewIPCacheNoCleanup creates a cache without the sweep goroutine (for testing)
func NewIPCacheNoCleanup(ttl time.Duration, maxEntries int, logger *logrus.Logger) *IPCache {
	if maxEntries < 1 {
		maxEntries = 1
	}
	return &IPCache{
		entries:    make(map[string]*CacheEntry),
		ttl:        ttl,
		maxEntries: maxEntries,
		logger:     logger,
		stopCh:     make(chan struct{}),
	}
}

// Get returns the cached result for ip. Expired entries count as misses and
// are left for the sweep.
func (c *IPCache) Get(ip string) (*types.LocationInfo, bool) {
	c.mu.RLock()
	entry, ok := c.entries[ip]
	c.mu.RUnlock()

	if !ok || time.Now().After(entry.ExpiresAt) {
		c.misses.Add(1)
		return nil, false
	}
	c.hits.Add(1)
	return entry.Data, true
}

// Set stores a lookup result. Overwriting an existing key never evicts.
func (c *IPCache) Set(ip string, data *types.LocationInfo) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.entries[ip]; !exists && len(c.entries) >= c.maxEntries {
		c.evictOldestLocked()
	}
	c.entries[ip] = &CacheEntry{Data: data, ExpiresAt: time.Now().Add(c.ttl)}
}

// evictOldestLocked drops the tenth of the entries closest to expiry.
func (c *IPCache) evictOldestLocked() {
	n := c.maxEntries / 10
	if n < 1 {
		n = 1
	}

	keys := make([]string, 0, len(c.entries))
	for key := range c.entries {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool {
		return c.entries[keys[i]].ExpiresAt.Before(c.entries[keys[j]].ExpiresAt)
	})

	if n > len(keys) {
		n = len(keys)
	}
	for _, key := range keys[:n] {
		delete(c.entries, key)
	}
	c.evictions.Add(int64(n))
}

func (c *IPCache) sweep(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.removeExpired()
		case <-c.stopCh:
			return
		}
	}
}

// removeExpired deletes every expired entry and returns how many went
func (c *IPCache) removeExpired() int {
	now := time.Now()

	c.mu.Lock()
	removed := 0
	for key, entry := range c.entries {
		if now.After(entry.ExpiresAt) {
			delete(c.entries, key)
			removed++
		}
	}
	c.mu.Unlock()

	if removed > 0 {
		c.logger.Debugf("Removed %d expired cache entries", removed)
	}
	return removed
}

// GetStats returns counters for the /stats endpoint
func (c *IPCache) GetStats() map[string]interface{} {
	hits := c.hits.Load()
	misses := c.misses.Load()

	var hitRate float64
	if total := hits + misses; total > 0 {
		hitRate = float64(hits) / float64(total) * 100
	}

	return map[string]interface{}{
		"entries":     c.Size(),
		"hits":        hits,
		"misses":      misses,
		"evictions":   c.evictions.Load(),
		"hit_rate":    hitRate,
		"ttl_seconds": c.ttl.Seconds(),
		"max_entries": c.maxEntries,
	}
}

// Clear removes all entries and resets the counters. The database manager
// calls it after every reload.
func (c *IPCache) Clear() {
	c.mu.Lock()
	c.entries = make(map[string]*CacheEntry)
	c.mu.Unlock()

	c.hits.Store(0)
	c.misses.Store(0)
	c.evictions.Store(0)

	c.logger.Info("Cache cleared")
}

// Size returns the number of stored entries, expired ones included
func (c *IPCache) Size() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Close stops the sweep goroutine. It is safe to call more than once.
func (c *IPCache) Close() {
	c.stopOnce.Do(func() { close(c.stopCh) })
}
