package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// Cache defines the interface for caching search responses and fetched
// pages between research runs
type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte, ttl time.Duration) error
	Delete(key string) error
	Clear() error
}

// Key generates a cache key from a namespace and a request identifier
// (search query or page URL)
func Key(namespace, id string) string {
	hash := sha256.Sum256([]byte(id))
	return "fathom:v1:" + namespace + ":" + hex.EncodeToString(hash[:])
}
