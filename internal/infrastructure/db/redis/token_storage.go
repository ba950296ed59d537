package redis

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "examprep:client:"

// TokenStorage is a durable key/value scope shared through Redis.
// Key format: examprep:client:<namespace>:<key>. Values never expire.
type TokenStorage struct {
	client    *redis.Client
	namespace string
}

// NewTokenStorage scopes keys by namespace, typically the OS user, so that
// several clients can share one Redis.
func NewTokenStorage(client *redis.Client, namespace string) *TokenStorage {
	return &TokenStorage{client: client, namespace: namespace}
}

func (s *TokenStorage) Get(ctx context.Context, key string) (string, bool, error) {
	v, err := s.client.Get(ctx, s.key(key)).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("redis get: %w", err)
	}
	return v, true, nil
}

func (s *TokenStorage) Set(ctx context.Context, key, value string) error {
	if err := s.client.Set(ctx, s.key(key), value, 0).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

func (s *TokenStorage) Delete(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, s.key(key)).Err(); err != nil {
		return fmt.Errorf("redis del: %w", err)
	}
	return nil
}

func (s *TokenStorage) key(key string) string {
	return fmt.Sprintf("%s%s:%s", keyPrefix, s.namespace, key)
}
