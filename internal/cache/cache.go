package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"time"
)

// DefaultTTL applies when a Set is issued with ttl <= 0.
const DefaultTTL = 3600 * time.Second

// Store is the uniform contract over cache backends. Get reports a
// miss (absent or expired) separately from the value, so a stored
// empty payload is not mistaken for a miss. Delete removes a key
// immediately regardless of TTL.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
}

// Key derives a stable cache key from its parts. Hashing keeps raw
// entity ids out of the cache backend's keyspace.
func Key(parts ...string) string {
	h := sha256.Sum256([]byte(strings.Join(parts, ":")))
	return "fs:" + hex.EncodeToString(h[:])[:32]
}

// VectorKeys returns the explicit set of cache keys a computed vector
// can be served under: the concrete version id and the feature-name
// alias. The orchestrator invalidates exactly these after recompute.
func VectorKeys(entityID, versionID, featureName string) []string {
	return []string{
		Key("vector", entityID, versionID),
		Key("vector", entityID, featureName),
	}
}
