package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// Cache stores encoded tagger output for the lifetime of the process
type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte, ttl time.Duration) error
	Delete(key string) error
	Clear() error
}

// Key derives the cache key of one engine's output for a text
func Key(engine, text string) string {
	hash := sha256.Sum256([]byte(text))
	return "tagharmony:v1:" + engine + ":" + hex.EncodeToString(hash[:])
}
