// Package cache keeps public pages consistent with the store through
// namespace version counters. A write bumps the namespace version, which
// silently orphans every previously-keyed entry; nothing is enumerated or
// deleted. Counter races are tolerated: a concurrent double bump costs one
// extra cache miss, never a stale-forever page.
package cache

import (
	"context"
	"errors"
	"strconv"

	goredis "github.com/redis/go-redis/v9"

	"github.com/fapdigital/editais-backend/internal/observability"
	"github.com/fapdigital/editais-backend/internal/pkg/ctxutil"
	"github.com/fapdigital/editais-backend/internal/pkg/logger"
)

// Cache namespaces serving edital reads. Bumping one invalidates every key
// composed under it.
const (
	NamespaceListing = "editais:listing"
	NamespaceDetail  = "editais:detail"
	NamespaceSearch  = "editais:search"
)

// AllNamespaces lists every namespace a record write can invalidate.
var AllNamespaces = []string{NamespaceListing, NamespaceDetail, NamespaceSearch}

// BaselineVersion is what a namespace reads as before its first bump.
const BaselineVersion int64 = 1

// VersionStore reads and advances namespace version counters. Both methods
// are fail-open: a store outage degrades to baseline versions and missed
// bumps, never to an error on the write path.
type VersionStore interface {
	CurrentVersion(ctx context.Context, namespace string) int64
	Bump(ctx context.Context, namespace string) int64
}

type redisVersionStore struct {
	rdb *goredis.Client
	log *logger.Logger
}

func NewRedisVersionStore(rdb *goredis.Client, baseLog *logger.Logger) VersionStore {
	return &redisVersionStore{
		rdb: rdb,
		log: baseLog.With("component", "VersionStore"),
	}
}

func versionKey(namespace string) string { return "cache-version:" + namespace }

// CurrentVersion returns the namespace counter, lazily initializing it to
// the baseline on first read. Store failures return the baseline so reads
// keep working against a degraded cache.
func (s *redisVersionStore) CurrentVersion(ctx context.Context, namespace string) int64 {
	ctx = ctxutil.Default(ctx)
	key := versionKey(namespace)

	val, err := s.rdb.Get(ctx, key).Result()
	switch {
	case err == nil:
		v, parseErr := strconv.ParseInt(val, 10, 64)
		if parseErr != nil {
			s.log.Warn("Unparseable version counter, serving baseline", "namespace", namespace, "value", val)
			return BaselineVersion
		}
		return v
	case errors.Is(err, goredis.Nil):
		// First read wins the SETNX; losers see the winner's value.
		if err := s.rdb.SetNX(ctx, key, BaselineVersion, 0).Err(); err != nil {
			s.log.Warn("Version counter init failed, serving baseline", "namespace", namespace, "error", err)
		}
		return BaselineVersion
	default:
		s.log.Warn("Version counter read failed, serving baseline", "namespace", namespace, "error", err)
		return BaselineVersion
	}
}

// Bump atomically advances the counter and returns the new version. On store
// failure it returns 0 and moves on: a missed invalidation means one stale
// page until the next bump, which is the accepted trade.
func (s *redisVersionStore) Bump(ctx context.Context, namespace string) int64 {
	ctx = ctxutil.Default(ctx)

	v, err := s.rdb.Incr(ctx, versionKey(namespace)).Result()
	if err != nil {
		s.log.Warn("Version bump failed, cache may serve stale entries", "namespace", namespace, "error", err)
		return 0
	}
	if m := observability.Current(); m != nil {
		m.IncCacheBump(namespace)
	}
	s.log.Debug("Bumped cache namespace", "namespace", namespace, "version", v)
	return v
}
