package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"time"

	"github.com/ppiankov/specmatrix/internal/model"
)

// NoExpiration keeps an entry until it is deleted
const NoExpiration time.Duration = -1

// Cache defines the interface for caching
type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte, ttl time.Duration) error // ttl 0 = cache default
	Delete(key string) error
	Clear() error
}

// DeviceKey builds the cache key for one device record
func DeviceKey(category model.Category, slug string) string {
	return "specmatrix:v1:device:" + string(category) + ":" + strings.ToLower(slug)
}

// fileName maps an arbitrary key to a filesystem-safe name
func fileName(key string) string {
	hash := sha256.Sum256([]byte(key))
	return hex.EncodeToString(hash[:])
}
