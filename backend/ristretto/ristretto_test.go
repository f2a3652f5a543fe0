package ristretto

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRistretto(t *testing.T) *Ristretto {
	t.Helper()
	r, err := New(Config{NumCounters: 1e4, MaxCost: 1 << 20, BufferItems: 64})
	require.NoError(t, err)
	t.Cleanup(func() { _ = r.Close(context.Background()) })
	return r
}

func TestRistrettoInvalidConfig(t *testing.T) {
	_, err := New(Config{})
	assert.Error(t, err)
}

func TestRistrettoRoundTripAndDelete(t *testing.T) {
	ctx := context.Background()
	r := newTestRistretto(t)

	ok, err := r.Set(ctx, "k", []byte("value"), time.Minute)
	require.NoError(t, err)
	require.True(t, ok)

	got, ok, err := r.Get(ctx, "k")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, []byte("value"), got)

	was, err := r.Delete(ctx, "k")
	require.NoError(t, err)
	assert.True(t, was)

	exists, err := r.Exists(ctx, "k")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestRistrettoZeroTTLIsDead(t *testing.T) {
	ctx := context.Background()
	r := newTestRistretto(t)

	_, _ = r.Set(ctx, "k", []byte("v"), time.Minute)
	_, _ = r.Set(ctx, "k", []byte("v"), 0)

	_, ok, _ := r.Get(ctx, "k")
	assert.False(t, ok)
}

func TestRistrettoClear(t *testing.T) {
	ctx := context.Background()
	r := newTestRistretto(t)

	_, _ = r.Set(ctx, "a", []byte("v"), time.Minute)
	require.NoError(t, r.Clear(ctx))

	_, ok, _ := r.Get(ctx, "a")
	assert.False(t, ok)
}
