package cache

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/redis/go-redis/v9"

	"github.com/owntheclimb/jewishobituarymigration-sub004/internal/domain"
)

// RedisBlobStore implements domain.BlobStore on plain Redis strings
type RedisBlobStore struct {
	client *redis.Client
}

// NewRedisBlobStore creates a blob store backed by Redis
func NewRedisBlobStore(client *redis.Client) *RedisBlobStore {
	return &RedisBlobStore{client: client}
}

// Get returns the value stored under key
func (s *RedisBlobStore) Get(ctx context.Context, key string) (string, error) {
	val, err := s.client.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", domain.ErrNotFound
		}
		return "", fmt.Errorf("redis get %s: %w", key, err)
	}
	return val, nil
}

// Set overwrites the value under key. Snapshots never expire; idle carts are kept until cleared.
func (s *RedisBlobStore) Set(ctx context.Context, key, value string) error {
	if err := s.client.Set(ctx, key, value, 0).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}

// MemoryBlobStore is an in-process domain.BlobStore for local runs without Redis
type MemoryBlobStore struct {
	mu     sync.RWMutex
	values map[string]string
}

// NewMemoryBlobStore creates an empty in-process blob store
func NewMemoryBlobStore() *MemoryBlobStore {
	return &MemoryBlobStore{values: make(map[string]string)}
}

// Get returns the value stored under key
func (s *MemoryBlobStore) Get(_ context.Context, key string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	val, ok := s.values[key]
	if !ok {
		return "", domain.ErrNotFound
	}
	return val, nil
}

// Set overwrites the value under key
func (s *MemoryBlobStore) Set(_ context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.values[key] = value
	return nil
}
