package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryCache(t *testing.T) {
	ctx := context.Background()
	var c Cache = NewMemoryCache(time.Minute, time.Minute)

	_, found, err := c.Get(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, c.Set(ctx, "owner-name:u1", "Ana", 0))
	v, found, err := c.Get(ctx, "owner-name:u1")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "Ana", v)

	require.NoError(t, c.Delete(ctx, "owner-name:u1"))
	_, found, _ = c.Get(ctx, "owner-name:u1")
	assert.False(t, found)
}

func TestMemoryCacheExpiry(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache(time.Minute, time.Minute)

	require.NoError(t, c.Set(ctx, "k", "v", 10*time.Millisecond))
	time.Sleep(30 * time.Millisecond)
	_, found, err := c.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, found)
}
