package redis

// Package redis provides the Redis-backed EntryStore used when several console
// instances share browser sessions.

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/target/crms-console/internal/ports"
)

var _ ports.EntryStore = (*EntryStore)(nil)

// DefaultPrefix namespaces console keys.
const DefaultPrefix = "crms:session:"

// EntryStore keeps each entry under "<prefix><scope>:<key>" with its own TTL.
// Expiry is left to Redis.
type EntryStore struct {
	client redis.UniversalClient
	prefix string
}

// NewEntryStore creates a Redis-backed entry store with DefaultPrefix.
func NewEntryStore(client redis.UniversalClient) *EntryStore {
	return NewEntryStoreWithPrefix(client, DefaultPrefix)
}

// NewEntryStoreWithPrefix creates a Redis-backed entry store with a custom key prefix.
func NewEntryStoreWithPrefix(client redis.UniversalClient, prefix string) *EntryStore {
	if prefix == "" {
		prefix = DefaultPrefix
	}
	return &EntryStore{client: client, prefix: prefix}
}

func (s *EntryStore) key(scope, name string) string {
	return s.prefix + scope + ":" + name
}

func (s *EntryStore) Get(ctx context.Context, scope string, keys ...string) (map[string]string, error) {
	out := make(map[string]string, len(keys))
	if scope == "" || len(keys) == 0 {
		return out, nil
	}

	redisKeys := make([]string, len(keys))
	for i, k := range keys {
		redisKeys[i] = s.key(scope, k)
	}
	vals, err := s.client.MGet(ctx, redisKeys...).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("redis mget: %w", err)
	}
	for i, v := range vals {
		if str, ok := v.(string); ok {
			out[keys[i]] = str
		}
	}
	return out, nil
}

// Put writes all entries in one MULTI/EXEC so readers never observe a partial write.
func (s *EntryStore) Put(ctx context.Context, scope string, entries map[string]string, ttl time.Duration) error {
	if scope == "" {
		return errors.New("scope cannot be empty")
	}
	if ttl < 0 {
		return errors.New("entries are already expired")
	}
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		for k, v := range entries {
			pipe.Set(ctx, s.key(scope, k), v, ttl)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("redis put: %w", err)
	}
	return nil
}

func (s *EntryStore) Delete(ctx context.Context, scope string, keys ...string) error {
	if scope == "" || len(keys) == 0 {
		return nil
	}
	redisKeys := make([]string, len(keys))
	for i, k := range keys {
		redisKeys[i] = s.key(scope, k)
	}
	if err := s.client.Del(ctx, redisKeys...).Err(); err != nil {
		return fmt.Errorf("redis del: %w", err)
	}
	return nil
}
