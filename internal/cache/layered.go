package cache

import "time"

// LayeredCache fronts the disk cache with a memory layer: a deep run
// fetching dozens of pages hits memory for repeats within the run and disk
// across runs
type LayeredCache struct {
	hot  Cache
	cold Cache
}

// NewLayeredCache creates the two-layer cache
func NewLayeredCache(memoryTTL time.Duration, diskDir string, diskTTL time.Duration) *LayeredCache {
	return &LayeredCache{
		hot:  NewMemoryCache(memoryTTL),
		cold: NewDiskCache(diskDir, diskTTL),
	}
}

// Get checks the memory layer first and promotes disk hits into it
func (c *LayeredCache) Get(key string) ([]byte, bool) {
	if val, found := c.hot.Get(key); found {
		return val, true
	}
	if val, found := c.cold.Get(key); found {
		_ = c.hot.Set(key, val, 0)
		return val, true
	}
	return nil, false
}

// Set writes through to both layers
func (c *LayeredCache) Set(key string, value []byte, ttl time.Duration) error {
	if err := c.hot.Set(key, value, ttl); err != nil {
		return err
	}
	return c.cold.Set(key, value, ttl)
}

// Delete removes the key from both layers
func (c *LayeredCache) Delete(key string) error {
	_ = c.hot.Delete(key)
	return c.cold.Delete(key)
}

// Clear empties both layers
func (c *LayeredCache) Clear() error {
	_ = c.hot.Clear()
	return c.cold.Clear()
}
