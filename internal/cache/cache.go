package cache

import (
	"context"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

// Entries expire after a fixed 6 hours; there is no explicit deletion
// path other than expiry.
const ResponseTTL = 6 * time.Hour

const keyPrefix = "skillbridge:chat:"

// ResponseCache is a best-effort Redis cache for chat answers. It is
// never authoritative: any Redis error degrades to a miss on reads and
// a no-op on writes. A nil client pins the cache permanently disabled,
// so a failed client construction at startup is not retried per call.
type ResponseCache struct {
	rdb    *redis.Client
	logger *slog.Logger
}

func NewResponseCache(rdb *redis.Client, logger *slog.Logger) *ResponseCache {
	return &ResponseCache{rdb: rdb, logger: logger}
}

// Enabled reports whether a Redis client is attached.
func (c *ResponseCache) Enabled() bool {
	return c.rdb != nil
}

// Get returns the cached value for a normalized key, or ok=false on a
// miss, an expired entry, or any Redis failure.
func (c *ResponseCache) Get(ctx context.Context, key string) (string, bool) {
	if c.rdb == nil || key == "" {
		return "", false
	}
	val, err := c.rdb.Get(ctx, keyPrefix+key).Result()
	if err != nil {
		if err != redis.Nil {
			c.logger.Debug("cache get failed", "error", err)
		}
		return "", false
	}
	return val, true
}

// Set stores value under the normalized key with the fixed TTL,
// overwriting any prior value. Write failures are swallowed.
func (c *ResponseCache) Set(ctx context.Context, key, value string) {
	if c.rdb == nil || key == "" {
		return
	}
	if err := c.rdb.Set(ctx, keyPrefix+key, value, ResponseTTL).Err(); err != nil {
		c.logger.Debug("cache set failed", "error", err)
	}
}
