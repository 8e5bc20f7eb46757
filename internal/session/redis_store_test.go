package session

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openshelf/storefront/internal/domain"
)

func newRedisStore(t *testing.T, ttl time.Duration) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisStore(client, ttl), mr
}

func TestRedisStoreLifecycle(t *testing.T) {
	ctx := context.Background()
	store, mr := newRedisStore(t, time.Minute)
	later := time.UnixMilli(1_700_000_060_000)
	store.now = func() time.Time { return later }

	s := sampleSession()
	require.NoError(t, store.Create(ctx, s))
	assert.Equal(t, time.Minute, mr.TTL(redisKey(s.ID)))

	got, err := store.Get(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, s, got)

	mr.FastForward(30 * time.Second)
	require.NoError(t, store.Touch(ctx, s.ID))
	assert.Equal(t, time.Minute, mr.TTL(redisKey(s.ID)))

	touched, err := store.Get(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, later, touched.LastActivity)
	assert.Equal(t, s.Token, touched.Token)

	require.NoError(t, store.Delete(ctx, s.ID))
	_, err = store.Get(ctx, s.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, store.Touch(ctx, s.ID), ErrNotFound)
	assert.False(t, mr.Exists(redisKey(s.ID)))
}

func TestRedisStoreExpires(t *testing.T) {
	ctx := context.Background()
	store, mr := newRedisStore(t, time.Minute)
	require.NoError(t, store.Create(ctx, sampleSession()))

	mr.FastForward(2 * time.Minute)

	_, err := store.Get(ctx, "sess-1")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRedisStoreTouchAfterDeleteLeavesNoKey(t *testing.T) {
	ctx := context.Background()
	store, mr := newRedisStore(t, time.Minute)
	require.NoError(t, store.Create(ctx, sampleSession()))

	store.now = func() time.Time {
		require.NoError(t, store.Delete(ctx, "sess-1"))
		return time.Now()
	}

	assert.ErrorIs(t, store.Touch(ctx, "sess-1"), ErrNotFound)
	assert.False(t, mr.Exists(redisKey("sess-1")))
}

func TestRedisStoreTouchUnknown(t *testing.T) {
	store, mr := newRedisStore(t, time.Minute)

	assert.ErrorIs(t, store.Touch(context.Background(), "missing"), ErrNotFound)
	assert.False(t, mr.Exists(redisKey("missing")))
	assert.Empty(t, mr.Keys())
}

func TestRedisStoreKeepsFieldNames(t *testing.T) {
	ctx := context.Background()
	store, mr := newRedisStore(t, time.Minute)
	require.NoError(t, store.Create(ctx, sampleSession()))

	assert.Equal(t, "librarian", mr.HGet(redisKey("sess-1"), domain.FieldUserRole))
	assert.Equal(t, "lib@example.com", mr.HGet(redisKey("sess-1"), domain.FieldLibrarianEmail))
}
