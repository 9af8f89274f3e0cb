package database

import (
	"context"
	"testing"
	"time"

	"github.com/biosmart-lab/informatics/pkg/common/config"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedisOptions(t *testing.T) {
	opts := RedisOptions(&config.Config{
		RedisHost:     "cache",
		RedisPort:     "6380",
		RedisPassword: "pw",
		RedisDB:       3,
	})
	assert.Equal(t, "cache:6380", opts.Addr)
	assert.Equal(t, "pw", opts.Password)
	assert.Equal(t, 3, opts.DB)
	assert.Equal(t, redisConnectTimeout, opts.DialTimeout)
}

func TestPingRedisReportsUnreachableServer(t *testing.T) {
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 50 * time.Millisecond,
		MaxRetries:  -1,
	})
	defer client.Close()

	err := PingRedis(context.Background(), client)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "redis ping")
}
