package cache

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/fapdigital/editais-backend/internal/observability"
	"github.com/fapdigital/editais-backend/internal/pkg/ctxutil"
	"github.com/fapdigital/editais-backend/internal/pkg/logger"
)

// PageCache stores rendered page payloads as JSON under versioned keys.
// Reads and writes are both fail-open: a cache outage looks like a miss and
// the store query runs as usual.
type PageCache interface {
	Get(ctx context.Context, key string, dest interface{}) bool
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration)
}

type redisPageCache struct {
	rdb *goredis.Client
	log *logger.Logger
}

func NewRedisPageCache(rdb *goredis.Client, baseLog *logger.Logger) PageCache {
	return &redisPageCache{
		rdb: rdb,
		log: baseLog.With("component", "PageCache"),
	}
}

func (c *redisPageCache) Get(ctx context.Context, key string, dest interface{}) bool {
	ctx = ctxutil.Default(ctx)

	raw, err := c.rdb.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, goredis.Nil) {
			c.log.Warn("Cache read failed, treating as miss", "key", key, "error", err)
			recordCacheOutcome(key, "error")
			return false
		}
		recordCacheOutcome(key, "miss")
		return false
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		c.log.Warn("Cache entry undecodable, treating as miss", "key", key, "error", err)
		recordCacheOutcome(key, "error")
		return false
	}
	recordCacheOutcome(key, "hit")
	return true
}

func (c *redisPageCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) {
	ctx = ctxutil.Default(ctx)

	raw, err := json.Marshal(value)
	if err != nil {
		c.log.Warn("Cache payload not serializable, skipping", "key", key, "error", err)
		return
	}
	if err := c.rdb.Set(ctx, key, raw, ttl).Err(); err != nil {
		c.log.Warn("Cache write failed, skipping", "key", key, "error", err)
	}
}

func recordCacheOutcome(key, outcome string) {
	if m := observability.Current(); m != nil {
		m.IncCacheRequest(namespaceOf(key), outcome)
	}
}

// namespaceOf recovers the namespace from a composed key; the ":v" version
// marker is the first thing Key appends after it.
func namespaceOf(key string) string {
	if i := strings.Index(key, ":v"); i > 0 {
		return key[:i]
	}
	return "unknown"
}
