package utils

import (
	"context"
	"strconv"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRedisCache(t *testing.T, ttl time.Duration) (*Cache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return NewCache(rdb, ttl), mr
}

func TestCache_DisabledIsNoop(t *testing.T) {
	ctx := context.Background()
	for _, c := range []*Cache{nil, NewCache(nil, time.Minute)} {
		var dest []string
		found, err := c.Get(ctx, "k", &dest)
		assert.NoError(t, err)
		assert.False(t, found)
		assert.NoError(t, c.Set(ctx, "k", []string{"v"}))
		assert.NoError(t, c.Delete(ctx, "k"))
		assert.NoError(t, c.DeletePrefix(ctx, "k"))
	}
}

func TestCache_SetGet(t *testing.T) {
	ctx := context.Background()
	c, mr := newRedisCache(t, 2*time.Minute)

	type entry struct {
		ID     string `json:"id"`
		Amount string `json:"amount"`
	}
	want := []entry{{ID: "a", Amount: "10.00"}, {ID: "b", Amount: "0.01"}}
	require.NoError(t, c.Set(ctx, "cards:user:1", want))

	assert.True(t, mr.Exists("cards:user:1"))
	assert.Equal(t, 2*time.Minute, mr.TTL("cards:user:1"))

	var got []entry
	found, err := c.Get(ctx, "cards:user:1", &got)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, want, got)

	var missing []entry
	found, err = c.Get(ctx, "cards:user:2", &missing)
	require.NoError(t, err)
	assert.False(t, found)
	assert.Nil(t, missing)

	// entries disappear once the TTL elapses
	mr.FastForward(3 * time.Minute)
	found, err = c.Get(ctx, "cards:user:1", &got)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestCache_GetCorruptValue(t *testing.T) {
	c, mr := newRedisCache(t, time.Minute)
	require.NoError(t, mr.Set("k", "not json"))

	var dest []string
	found, err := c.Get(context.Background(), "k", &dest)
	assert.True(t, found)
	assert.Error(t, err)
}

func TestCache_Delete(t *testing.T) {
	ctx := context.Background()
	c, mr := newRedisCache(t, time.Minute)

	require.NoError(t, c.Set(ctx, "cards:user:1", []string{"x"}))
	require.NoError(t, c.Delete(ctx, "cards:user:1"))
	assert.False(t, mr.Exists("cards:user:1"))

	// deleting an absent key is fine
	assert.NoError(t, c.Delete(ctx, "cards:user:1"))
}

func TestCache_DeletePrefix(t *testing.T) {
	ctx := context.Background()
	c, mr := newRedisCache(t, time.Minute)

	keys := []string{
		"txhistory:user:1:from::to:",
		"txhistory:user:1:from:2024-01-01T00:00:00Z:to:",
		"txhistory:user:10:from::to:",
		"txhistory:user:2:from::to:",
		"cards:user:1",
	}
	for _, k := range keys {
		require.NoError(t, c.Set(ctx, k, "v"))
	}
	// more keys than one SCAN page
	for i := 0; i < 250; i++ {
		require.NoError(t, mr.Set("bulk:"+strconv.Itoa(i), "v"))
	}

	require.NoError(t, c.DeletePrefix(ctx, "txhistory:user:1:"))
	assert.False(t, mr.Exists("txhistory:user:1:from::to:"))
	assert.False(t, mr.Exists("txhistory:user:1:from:2024-01-01T00:00:00Z:to:"))
	assert.True(t, mr.Exists("txhistory:user:10:from::to:"))
	assert.True(t, mr.Exists("txhistory:user:2:from::to:"))
	assert.True(t, mr.Exists("cards:user:1"))

	require.NoError(t, c.DeletePrefix(ctx, "bulk:"))
	assert.Len(t, mr.Keys(), 3)

	// nothing left to match
	assert.NoError(t, c.DeletePrefix(ctx, "bulk:"))
}
