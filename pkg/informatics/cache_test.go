package informatics

import (
	"context"
	"testing"
	"time"

	"github.com/biosmart-lab/informatics/pkg/nlp"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func unreachableRedis(t *testing.T) *redis.Client {
	t.Helper()
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 50 * time.Millisecond,
		MaxRetries:  -1,
	})
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func TestRedisCacheSurfacesConnectionErrors(t *testing.T) {
	cache := NewRedisCache(unreachableRedis(t), "nlp:extract:", time.Minute)
	ctx := context.Background()

	_, ok, err := cache.Get(ctx, NoteKey("asthma"))
	require.Error(t, err)
	assert.False(t, ok)

	assert.Error(t, cache.Set(ctx, NoteKey("asthma"), []nlp.Entity{{Code: "J45.9"}}))
}

func TestServiceDegradesWhenRedisIsDown(t *testing.T) {
	svc := newTestService(t, Options{Cache: NewRedisCache(unreachableRedis(t), "nlp:extract:", time.Minute)})

	result, err := svc.ExtractEntities(context.Background(), "asthma since childhood")
	require.NoError(t, err)
	assert.False(t, result.Cached)
	require.Len(t, result.Entities, 1)
	assert.Equal(t, "J45.9", result.Entities[0].Code)
}
