package redis

import (
	"context"
	"os"
	"testing"
	"time"

	cache "dingbot/internal/cache/iface"
	"dingbot/internal/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupCache connects to DINGBOT_TEST_REDIS_ADDR and skips when it is unset or unreachable.
func setupCache(t *testing.T) cache.Cache {
	addr := os.Getenv("DINGBOT_TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("DINGBOT_TEST_REDIS_ADDR not set")
	}
	c, err := NewRedisCache(addr, "", 0, logger.NewNopLogger())
	if err != nil {
		t.Skipf("redis unavailable: %v", err)
	}
	return c
}

func TestIncrWindow(t *testing.T) {
	c := setupCache(t)
	defer c.Close()

	ctx := context.Background()
	key := "test:dingbot:incr"
	defer c.Delete(ctx, key)

	for want := int64(1); want <= 3; want++ {
		n, err := c.Incr(ctx, key, 2*time.Second)
		require.NoError(t, err)
		assert.Equal(t, want, n)
	}

	val, err := c.Get(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, "3", val)

	time.Sleep(3 * time.Second)

	_, err = c.Get(ctx, key)
	assert.ErrorIs(t, err, cache.ErrKeyNotFound)
}

func TestDelete(t *testing.T) {
	c := setupCache(t)
	defer c.Close()

	ctx := context.Background()
	key := "test:dingbot:delete"

	_, err := c.Incr(ctx, key, time.Minute)
	require.NoError(t, err)

	require.NoError(t, c.Delete(ctx, key))

	_, err = c.Get(ctx, key)
	assert.ErrorIs(t, err, cache.ErrKeyNotFound)
}
