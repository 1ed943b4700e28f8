package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"relatedItems/domain"

	"github.com/redis/go-redis/v9"
)

const relatedKeyPrefix = "related:"

type RelatedItemsCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRelatedItemsCache(client *redis.Client, ttl time.Duration) *RelatedItemsCache {
	return &RelatedItemsCache{
		client: client,
		ttl:    ttl,
	}
}

// Get returns the cached ranked list for a base SKU, or (nil, nil) on a miss.
func (c *RelatedItemsCache) Get(ctx context.Context, baseSKU string) ([]domain.Association, error) {
	val, err := c.client.Get(ctx, relatedKeyPrefix+baseSKU).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get related items from Redis: %w", err)
	}

	var related []domain.Association
	if err := json.Unmarshal([]byte(val), &related); err != nil {
		return nil, fmt.Errorf("failed to unmarshal cached related items: %w", err)
	}

	return related, nil
}

func (c *RelatedItemsCache) Set(ctx context.Context, baseSKU string, related []domain.Association) error {
	jsonData, err := json.Marshal(related)
	if err != nil {
		return fmt.Errorf("failed to marshal related items: %w", err)
	}

	if err := c.client.Set(ctx, relatedKeyPrefix+baseSKU, jsonData, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to store related items in Redis: %w", err)
	}

	return nil
}

// Flush removes every cached list. Called after each rebuild so stale
// rankings never outlive the data they came from.
func (c *RelatedItemsCache) Flush(ctx context.Context) error {
	iter := c.client.Scan(ctx, 0, relatedKeyPrefix+"*", 0).Iterator()

	for iter.Next(ctx) {
		if err := c.client.Del(ctx, iter.Val()).Err(); err != nil {
			return fmt.Errorf("failed to delete cache key %s: %w", iter.Val(), err)
		}
	}

	if err := iter.Err(); err != nil {
		return fmt.Errorf("failed to scan cache keys: %w", err)
	}

	return nil
}
