package informatics

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/biosmart-lab/informatics/pkg/nlp"
	"github.com/redis/go-redis/v9"
)

// RedisCache stores extraction results as JSON under prefix+key.
type RedisCache struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

func NewRedisCache(client *redis.Client, prefix string, ttl time.Duration) *RedisCache {
	return &RedisCache{client: client, prefix: prefix, ttl: ttl}
}

func (c *RedisCache) Get(ctx context.Context, key string) ([]nlp.Entity, bool, error) {
	raw, err := c.client.Get(ctx, c.prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get: %w", err)
	}
	var entities []nlp.Entity
	if err := json.Unmarshal(raw, &entities); err != nil {
		return nil, false, fmt.Errorf("decode cached entities: %w", err)
	}
	return entities, true, nil
}

func (c *RedisCache) Set(ctx context.Context, key string, entities []nlp.Entity) error {
	if entities == nil {
		entities = []nlp.Entity{}
	}
	raw, err := json.Marshal(entities)
	if err != nil {
		return fmt.Errorf("encode entities: %w", err)
	}
	if err := c.client.Set(ctx, c.prefix+key, raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}
