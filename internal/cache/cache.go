package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/ppiankov/vague/internal/detect"
)

// Cache defines the interface for caching classification results
type Cache interface {
	Get(key string) (detect.Analysis, bool)
	Set(key string, value detect.Analysis, ttl time.Duration) error
	Len() int
}

// CacheKey generates a cache key from the text being classified
func CacheKey(text string) string {
	hash := sha256.Sum256([]byte(text))
	return "vague:v1:" + hex.EncodeToString(hash[:])
}
