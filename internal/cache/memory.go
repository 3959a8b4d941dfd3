package cache

import (
	"time"

	gocache "github.com/patrickmn/go-cache"
	"github.com/ppiankov/vague/internal/detect"
)

// MemoryCache implements in-memory caching with expiry
type MemoryCache struct {
	cache *gocache.Cache
}

// NewMemoryCache creates a new memory cache
func NewMemoryCache(defaultTTL time.Duration, cleanupInterval time.Duration) *MemoryCache {
	return &MemoryCache{
		cache: gocache.New(defaultTTL, cleanupInterval),
	}
}

// Get retrieves a value from the cache
func (c *MemoryCache) Get(key string) (detect.Analysis, bool) {
	if val, found := c.cache.Get(key); found {
		if a, ok := val.(detect.Analysis); ok {
			return a, true
		}
	}
	return detect.Analysis{}, false
}

// Set stores a value in the cache with the given TTL. A zero TTL uses the
// cache default.
func (c *MemoryCache) Set(key string, value detect.Analysis, ttl time.Duration) error {
	if ttl == 0 {
		ttl = gocache.DefaultExpiration
	}
	c.cache.Set(key, value, ttl)
	return nil
}

// Len returns the number of cached items, including expired ones not yet
// cleaned up
func (c *MemoryCache) Len() int {
	return c.cache.ItemCount()
}
