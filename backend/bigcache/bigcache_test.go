package bigcache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestBigCache(t *testing.T, now func() time.Time) *BigCache {
	t.Helper()
	b, err := New(Config{LifeWindow: time.Hour, Now: now})
	require.NoError(t, err)
	t.Cleanup(func() { _ = b.Close(context.Background()) })
	return b
}

func TestBigCacheRoundTrip(t *testing.T) {
	ctx := context.Background()
	b := newTestBigCache(t, nil)

	ok, err := b.Set(ctx, "k", []byte("v"), time.Minute)
	require.NoError(t, err)
	require.True(t, ok)

	got, ok, err := b.Get(ctx, "k")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, []byte("v"), got)
}

func TestBigCachePerEntryExpiry(t *testing.T) {
	ctx := context.Background()
	now := time.Unix(1_700_000_000, 0)
	b := newTestBigCache(t, func() time.Time { return now })

	_, _ = b.Set(ctx, "short", []byte("v"), time.Second)
	_, _ = b.Set(ctx, "long", []byte("v"), time.Minute)
	_, _ = b.Set(ctx, "dead", []byte("v"), 0)

	_, ok, _ := b.Get(ctx, "dead")
	assert.False(t, ok, "ttl 0 is dead on arrival")

	now = now.Add(2 * time.Second)
	_, ok, _ = b.Get(ctx, "short")
	assert.False(t, ok)
	_, ok, _ = b.Get(ctx, "long")
	assert.True(t, ok)
}

func TestBigCacheDeleteClearStats(t *testing.T) {
	ctx := context.Background()
	b := newTestBigCache(t, nil)

	_, _ = b.Set(ctx, "a", []byte("1"), time.Minute)
	_, _ = b.Set(ctx, "b", []byte("1"), time.Minute)
	assert.Equal(t, 2, b.Stats(ctx).Size)

	was, err := b.Delete(ctx, "a")
	require.NoError(t, err)
	assert.True(t, was)
	was, err = b.Delete(ctx, "a")
	require.NoError(t, err)
	assert.False(t, was)

	require.NoError(t, b.Clear(ctx))
	exists, err := b.Exists(ctx, "b")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestBigCacheDropsForeignBytes(t *testing.T) {
	ctx := context.Background()
	b := newTestBigCache(t, nil)

	require.NoError(t, b.c.Set("raw", []byte("not framed")))
	_, ok, err := b.Get(ctx, "raw")
	require.NoError(t, err)
	assert.False(t, ok)
	_, err = b.c.Get("raw")
	assert.Error(t, err, "corrupt frame should be deleted")
}
