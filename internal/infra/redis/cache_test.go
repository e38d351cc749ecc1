package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func setupTestCache(t *testing.T) (*Cache, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return NewCache(client, zap.NewNop(), "catalog-search"), mr
}

func TestCache_SetAndGet(t *testing.T) {
	cache, _ := setupTestCache(t)
	ctx := context.Background()

	err := cache.Set(ctx, "recent:session-1", []byte(`[{"q":"cats"}]`), time.Minute)
	require.NoError(t, err)

	data, err := cache.Get(ctx, "recent:session-1")
	require.NoError(t, err)
	assert.Equal(t, []byte(`[{"q":"cats"}]`), data)
}

func TestCache_Get_Missing(t *testing.T) {
	cache, _ := setupTestCache(t)

	data, err := cache.Get(context.Background(), "nope")
	require.NoError(t, err, "missing key is not an error")
	assert.Nil(t, data)
}

func TestCache_Get_Expired(t *testing.T) {
	cache, mr := setupTestCache(t)
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, "k", []byte("v"), time.Second))
	mr.FastForward(2 * time.Second)

	data, err := cache.Get(ctx, "k")
	require.NoError(t, err)
	assert.Nil(t, data)
}

func TestCache_Delete(t *testing.T) {
	cache, _ := setupTestCache(t)
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, "k", []byte("v"), time.Minute))
	require.NoError(t, cache.Delete(ctx, "k"))

	data, err := cache.Get(ctx, "k")
	require.NoError(t, err)
	assert.Nil(t, data)
}

func TestCache_Clear_OnlyTouchesOwnPrefix(t *testing.T) {
	cache, mr := setupTestCache(t)
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, "a", []byte("1"), time.Minute))
	require.NoError(t, cache.Set(ctx, "b", []byte("2"), time.Minute))
	require.NoError(t, mr.Set("other-app:key", "untouched"))

	require.NoError(t, cache.Clear(ctx))

	data, err := cache.Get(ctx, "a")
	require.NoError(t, err)
	assert.Nil(t, data)

	val, err := mr.Get("other-app:key")
	require.NoError(t, err)
	assert.Equal(t, "untouched", val)
}
