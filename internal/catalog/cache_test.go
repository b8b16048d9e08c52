package catalog

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/store-terminal/internal/pricing"
)

func newTestCache(t *testing.T) *Cache {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewCache(client, time.Minute)
}

func TestCacheRoundTrip(t *testing.T) {
	cache := newTestCache(t)
	ctx := context.Background()

	products := []pricing.Product{{Code: "A", Price: 200}}
	require.NoError(t, cache.SetJSON(ctx, productsCacheKey, products))

	var got []pricing.Product
	ok, err := cache.GetJSON(ctx, productsCacheKey, &got)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, products, got)
}

func TestCacheMiss(t *testing.T) {
	cache := newTestCache(t)
	var got []pricing.Product
	ok, err := cache.GetJSON(context.Background(), productsCacheKey, &got)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestCacheInvalidate(t *testing.T) {
	cache := newTestCache(t)
	ctx := context.Background()
	require.NoError(t, cache.SetJSON(ctx, promotionsCacheKey, []string{"PA"}))
	require.NoError(t, cache.Invalidate(ctx, promotionsCacheKey))

	var got []string
	ok, err := cache.GetJSON(ctx, promotionsCacheKey, &got)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestCacheNilClientIsNoop(t *testing.T) {
	var cache *Cache
	ok, err := cache.GetJSON(context.Background(), productsCacheKey, nil)
	require.NoError(t, err)
	require.False(t, ok)
	require.NoError(t, cache.SetJSON(context.Background(), productsCacheKey, "x"))
	require.NoError(t, cache.Invalidate(context.Background(), productsCacheKey))
}
