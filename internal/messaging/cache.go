package messaging

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"wahub/internal/constants"
	"wahub/pkg/metrics"
)

// SeenCache is a best-effort duplicate filter in front of the record store.
// MarkSeen reports whether the messageId was recorded for the first time. The
// unique index on messageId remains the source of truth; a cache miss or a
// cache outage never blocks ingestion.
type SeenCache interface {
	MarkSeen(ctx context.Context, messageID string) (first bool, err error)
}

type RedisSeenCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisSeenCache(client *redis.Client, ttlSeconds int) *RedisSeenCache {
	if ttlSeconds <= 0 {
		ttlSeconds = constants.DefaultSeenTTLSeconds
	}
	return &RedisSeenCache{
		client: client,
		ttl:    time.Duration(ttlSeconds) * time.Second,
	}
}

func (c *RedisSeenCache) MarkSeen(ctx context.Context, messageID string) (bool, error) {
	key := constants.CacheKeyPrefixSeen + messageID

	first, err := c.client.SetNX(ctx, key, "1", c.ttl).Result()
	if err != nil {
		metrics.IncSeenCacheLookup("error")
		return true, err
	}

	if first {
		metrics.IncSeenCacheLookup("miss")
	} else {
		metrics.IncSeenCacheLookup("hit")
	}

	return first, nil
}
