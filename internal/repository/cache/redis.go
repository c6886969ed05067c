package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/owntheclimb/jewishobituarymigration-sub004/internal/domain"
)

const statsSummaryKey = "stats:summary"

// RedisCache implements caching for condolence lists and the stats summary
type RedisCache struct {
	client             *redis.Client
	condolencesListTTL time.Duration
	statsTTL           time.Duration
}

// NewRedisCache creates a new Redis cache instance
func NewRedisCache(client *redis.Client, condolencesListTTL, statsTTL time.Duration) *RedisCache {
	return &RedisCache{
		client:             client,
		condolencesListTTL: condolencesListTTL,
		statsTTL:           statsTTL,
	}
}

// Condolence list cache keys and methods

func (c *RedisCache) condolencesListKey(memorialID uuid.UUID, limit, offset int) string {
	return fmt.Sprintf("memorial:%s:condolences:limit:%d:offset:%d", memorialID.String(), limit, offset)
}

func (c *RedisCache) memorialCacheKeysSet(memorialID uuid.UUID) string {
	return fmt.Sprintf("memorial:%s:cache_keys", memorialID.String())
}

// GetCondolencesList retrieves a cached page of condolences for a memorial
func (c *RedisCache) GetCondolencesList(ctx context.Context, memorialID uuid.UUID, limit, offset int) ([]*domain.Condolence, error) {
	key := c.condolencesListKey(memorialID, limit, offset)
	val, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}

	var condolences []*domain.Condolence
	if err := json.Unmarshal(val, &condolences); err != nil {
		return nil, fmt.Errorf("unmarshal condolences: %w", err)
	}

	return condolences, nil
}

// SetCondolencesList stores a page of condolences and tracks the key in a SET
func (c *RedisCache) SetCondolencesList(ctx context.Context, memorialID uuid.UUID, limit, offset int, condolences []*domain.Condolence) error {
	key := c.condolencesListKey(memorialID, limit, offset)
	trackingKey := c.memorialCacheKeysSet(memorialID)

	data, err := json.Marshal(condolences)
	if err != nil {
		return err
	}

	pipe := c.client.Pipeline()
	pipe.Set(ctx, key, data, c.condolencesListTTL)
	pipe.SAdd(ctx, trackingKey, key)
	pipe.Expire(ctx, trackingKey, c.condolencesListTTL)
	_, err = pipe.Exec(ctx)
	return err
}

// InvalidateMemorialCache removes every cached condolence page of a memorial
func (c *RedisCache) InvalidateMemorialCache(ctx context.Context, memorialID uuid.UUID) error {
	trackingKey := c.memorialCacheKeysSet(memorialID)

	keys, err := c.client.SMembers(ctx, trackingKey).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		return err
	}

	if len(keys) > 0 {
		keys = append(keys, trackingKey)
		return c.client.Unlink(ctx, keys...).Err()
	}

	return nil
}

// Stats summary

// GetStats retrieves the cached stats summary
func (c *RedisCache) GetStats(ctx context.Context) (domain.AggregateStats, error) {
	var stats domain.AggregateStats

	val, err := c.client.Get(ctx, statsSummaryKey).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return stats, domain.ErrNotFound
		}
		return stats, err
	}

	if err := json.Unmarshal(val, &stats); err != nil {
		return stats, fmt.Errorf("unmarshal stats: %w", err)
	}

	return stats, nil
}

// SetStats stores the stats summary for the configured TTL
func (c *RedisCache) SetStats(ctx context.Context, stats domain.AggregateStats) error {
	data, err := json.Marshal(stats)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, statsSummaryKey, data, c.statsTTL).Err()
}
