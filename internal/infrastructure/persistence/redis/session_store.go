// Package redis provides a Redis-backed session store, for clients that share
// a session across processes or hosts
package redis

import (
	"context"
	"errors"
	"fmt"

	"github.com/alchemorsel/recipeweb/internal/ports/outbound"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// KeyPrefix namespaces every session key in Redis
const KeyPrefix = "recipeweb:session:"

// SessionStore implements outbound.SessionStore on top of Redis strings
type SessionStore struct {
	client redis.UniversalClient
	logger *zap.Logger
}

var _ outbound.SessionStore = (*SessionStore)(nil)

// NewSessionStore creates a session store using the given client
func NewSessionStore(client redis.UniversalClient, logger *zap.Logger) *SessionStore {
	return &SessionStore{
		client: client,
		logger: logger.Named("redis-session-store"),
	}
}

// Client exposes the underlying client for health checks
func (s *SessionStore) Client() redis.UniversalClient {
	return s.client
}

// NewClient opens a Redis client and verifies connectivity
func NewClient(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", addr, err)
	}

	return client, nil
}

// Get retrieves a value
func (s *SessionStore) Get(ctx context.Context, key string) (string, bool, error) {
	value, err := s.client.Get(ctx, KeyPrefix+key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		s.logger.Error("Session get failed", zap.String("key", key), zap.Error(err))
		return "", false, fmt.Errorf("failed to get %s: %w", key, err)
	}
	return value, true, nil
}

// Set stores a value without expiry; expiry is decided by the credential itself
func (s *SessionStore) Set(ctx context.Context, key, value string) error {
	if err := s.client.Set(ctx, KeyPrefix+key, value, 0).Err(); err != nil {
		s.logger.Error("Session set failed", zap.String("key", key), zap.Error(err))
		return fmt.Errorf("failed to set %s: %w", key, err)
	}
	return nil
}

// Clear removes the given keys with a single DEL
func (s *SessionStore) Clear(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}

	prefixed := make([]string, len(keys))
	for i, key := range keys {
		prefixed[i] = KeyPrefix + key
	}

	if err := s.client.Del(ctx, prefixed...).Err(); err != nil {
		s.logger.Error("Session clear failed", zap.Strings("keys", keys), zap.Error(err))
		return fmt.Errorf("failed to clear session: %w", err)
	}
	return nil
}
