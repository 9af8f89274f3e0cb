package database

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/biosmart-lab/informatics/pkg/common/config"
	"github.com/biosmart-lab/informatics/pkg/common/logger"
	"github.com/redis/go-redis/v9"
)

const redisConnectTimeout = 5 * time.Second

var (
	redisClient  *redis.Client
	redisConnErr error
	redisOnce    sync.Once
)

// RedisOptions maps the cache settings onto client options.
func RedisOptions(cfg *config.Config) *redis.Options {
	return &redis.Options{
		Addr:        fmt.Sprintf("%s:%s", cfg.RedisHost, cfg.RedisPort),
		Password:    cfg.RedisPassword,
		DB:          cfg.RedisDB,
		DialTimeout: redisConnectTimeout,
	}
}

func PingRedis(ctx context.Context, client *redis.Client) error {
	if err := client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping: %w", err)
	}
	return nil
}

// GetRedis returns the shared client and the result of the first ping.
// The client is usable even when the ping failed: go-redis reconnects on
// demand and cache reads degrade to misses until then.
func GetRedis(cfg *config.Config) (*redis.Client, error) {
	redisOnce.Do(func() {
		redisClient = redis.NewClient(RedisOptions(cfg))

		ctx, cancel := context.WithTimeout(context.Background(), redisConnectTimeout)
		defer cancel()

		redisConnErr = PingRedis(ctx, redisClient)
		if redisConnErr == nil {
			logger.Log.WithField("addr", redisClient.Options().Addr).Info("Connected to Redis")
		}
	})

	return redisClient, redisConnErr
}

func CloseRedis() error {
	if redisClient != nil {
		return redisClient.Close()
	}
	return nil
}
