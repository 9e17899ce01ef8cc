package cache

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
)

func TestRedisCacheKeyPrefix(t *testing.T) {
	c := NewRedisCache(redis.NewClient(&redis.Options{Addr: "localhost:0"}), "ngcrud:owner")
	assert.Equal(t, "ngcrud:owner:u1", c.key("u1"))
}

func TestRedisCacheUnreachable(t *testing.T) {
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 50 * time.Millisecond,
		MaxRetries:  -1,
	})
	defer client.Close()
	c := NewRedisCache(client, "test")
	ctx := context.Background()

	_, found, err := c.Get(ctx, "k")
	assert.Error(t, err)
	assert.False(t, found)
	assert.Error(t, c.Set(ctx, "k", "v", time.Minute))
	assert.Error(t, c.Delete(ctx, "k"))
}
