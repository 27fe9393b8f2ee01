package integration

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wahub/internal/messaging"
)

func TestRedisSeenCache_MarkSeen(t *testing.T) {
	infra := SetupTestInfraWithOptions(t, false, true)
	cache := messaging.NewRedisSeenCache(infra.RedisClient, 60)
	ctx := context.Background()

	first, err := cache.MarkSeen(ctx, "wamid.seen1")
	require.NoError(t, err)
	assert.True(t, first)

	first, err = cache.MarkSeen(ctx, "wamid.seen1")
	require.NoError(t, err)
	assert.False(t, first)

	first, err = cache.MarkSeen(ctx, "wamid.seen2")
	require.NoError(t, err)
	assert.True(t, first)
}

func TestRedisSeenCache_TTLExpiry(t *testing.T) {
	infra := SetupTestInfraWithOptions(t, false, true)
	cache := messaging.NewRedisSeenCache(infra.RedisClient, 1)
	ctx := context.Background()

	first, err := cache.MarkSeen(ctx, "wamid.ttl")
	require.NoError(t, err)
	require.True(t, first)

	time.Sleep(2 * time.Second)

	first, err = cache.MarkSeen(ctx, "wamid.ttl")
	require.NoError(t, err)
	assert.True(t, first, "expired entries look unseen again")
}
