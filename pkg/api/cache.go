package api

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"log/slog"
	"time"

	"github.com/gowebpki/jcs"
	"github.com/redis/go-redis/v9"
)

// defaultCacheTTL bounds how long a cached explanation stays valid.
const defaultCacheTTL = 5 * time.Minute

// ExplainCache memoizes explanation responses in Redis. Explanations are
// idempotent given the same inputs, so the request body's canonical hash
// is a sound cache key. Cache failures degrade to misses; the cache is an
// optimization, never a dependency.
type ExplainCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

// NewExplainCache connects to Redis at addr. ttl <= 0 selects the default.
func NewExplainCache(addr string, ttl time.Duration) *ExplainCache {
	if ttl <= 0 {
		ttl = defaultCacheTTL
	}
	return &ExplainCache{
		client: redis.NewClient(&redis.Options{Addr: addr}),
		ttl:    ttl,
		logger: slog.Default().With("component", "explain-cache"),
	}
}

// Key derives the cache key from the canonical form of the request body,
// so key ordering differences between clients hash identically.
func (c *ExplainCache) Key(body []byte) string {
	canonical, err := jcs.Transform(body)
	if err != nil {
		canonical = body
	}
	sum := sha256.Sum256(canonical)
	return "explain:" + hex.EncodeToString(sum[:])
}

// Get returns the cached response body, or nil on miss or error.
func (c *ExplainCache) Get(ctx context.Context, key string) []byte {
	val, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.logger.DebugContext(ctx, "cache get failed", "error", err)
		}
		return nil
	}
	return val
}

// Set stores a response body; failures are logged and ignored.
func (c *ExplainCache) Set(ctx context.Context, key string, body []byte) {
	if err := c.client.Set(ctx, key, body, c.ttl).Err(); err != nil {
		c.logger.DebugContext(ctx, "cache set failed", "error", err)
	}
}

// Close releases the Redis connection.
func (c *ExplainCache) Close() error {
	return c.client.Close()
}
