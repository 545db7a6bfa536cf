package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"time"

	"github.com/ppiankov/claimroute/internal/model"
)

// keyPrefix versions the on-disk layout of cached source documents
const keyPrefix = "claimroute:doc:v1:"

// Store caches raw source documents. Claim records are never cached.
type Store interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte, ttl time.Duration) error
	Delete(key string) error
	Clear() error
}

// DocumentKey derives the cache key for a source reference
func DocumentKey(ref string) string {
	hash := sha256.Sum256([]byte(strings.TrimSpace(ref)))
	return keyPrefix + hex.EncodeToString(hash[:])
}

// New builds the layered store described by cfg, or nil when caching is disabled
func New(cfg model.CacheConfig) Store {
	if !cfg.Enabled {
		return nil
	}
	if cfg.Dir == "" {
		return NewMemoryCache(cfg.MemoryTTL, cleanupInterval(cfg.MemoryTTL))
	}
	return NewLayeredCache(cfg.MemoryTTL, cfg.Dir, cfg.DiskTTL)
}

func cleanupInterval(ttl time.Duration) time.Duration {
	if ttl <= 0 {
		return 10 * time.Minute
	}
	return ttl
}

func clone(b []byte) []byte {
	if b == nil {
		return nil
	}
	out := make([]byte, len(b))
	copy(out, b)
	return out
}
