package app

import (
	goredis "github.com/redis/go-redis/v9"

	"github.com/fapdigital/editais-backend/internal/cache"
	"github.com/fapdigital/editais-backend/internal/pkg/logger"
)

type Clients struct {
	Redis *goredis.Client
}

func wireClients(log *logger.Logger) Clients {
	log.Info("Wiring clients...")
	return Clients{
		Redis: cache.NewRedisClient(log),
	}
}

func (c *Clients) Close() {
	if c == nil {
		return
	}
	if c.Redis != nil {
		_ = c.Redis.Close()
	}
}
