package cache

import (
	"context"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/fapdigital/editais-backend/internal/pkg/envutil"
	"github.com/fapdigital/editais-backend/internal/pkg/logger"
)

// NewRedisClient dials the shared cache store from REDIS_* env config. An
// unreachable server is not fatal: the client reconnects lazily and every
// cache layer on top of it fails open.
func NewRedisClient(logg *logger.Logger) *goredis.Client {
	addr := envutil.GetEnv("REDIS_ADDR", "localhost:6379", logg)
	password := envutil.GetEnv("REDIS_PASSWORD", "", logg)
	db := envutil.GetEnvAsInt("REDIS_DB", 0, logg)

	rdb := goredis.NewClient(&goredis.Options{
		Addr:        addr,
		Password:    password,
		DB:          db,
		DialTimeout: 5 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		logg.Warn("redis unreachable, cache will fail open until it returns", "addr", addr, "error", err)
	}
	return rdb
}
