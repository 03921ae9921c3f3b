// Package redis provides an OptionStore backed by Redis.
package redis

import (
	"context"
	"errors"
	"fmt"

	"github.com/maloquacious/freshstart/internal/store"
	"github.com/redis/go-redis/v9"
)

// OptionStore keeps options as plain string keys namespaced as
// {namespace}:option:{key}. It is safe for concurrent use.
type OptionStore struct {
	rdb       *redis.Client
	namespace string
}

var _ store.OptionStore = (*OptionStore)(nil)

// New creates an option store for namespace. Returns an error if namespace is empty.
func New(opts *redis.Options, namespace string) (*OptionStore, error) {
	if namespace == "" {
		return nil, fmt.Errorf("namespace cannot be empty")
	}
	return &OptionStore{
		rdb:       redis.NewClient(opts),
		namespace: namespace,
	}, nil
}

// Close closes the Redis connection.
func (s *OptionStore) Close() error {
	return s.rdb.Close()
}

// Ping verifies Redis connectivity.
func (s *OptionStore) Ping(ctx context.Context) error {
	return s.rdb.Ping(ctx).Err()
}

// Key returns the namespaced Redis key for an option.
func (s *OptionStore) Key(key string) string {
	return fmt.Sprintf("%s:option:%s", s.namespace, key)
}

func (s *OptionStore) GetOption(ctx context.Context, key string) (string, bool, error) {
	value, err := s.rdb.Get(ctx, s.Key(key)).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to read option %q from Redis: %w", key, err)
	}
	return value, true, nil
}

func (s *OptionStore) SetOption(ctx context.Context, key, value string) error {
	if err := s.rdb.Set(ctx, s.Key(key), value, 0).Err(); err != nil {
		return fmt.Errorf("failed to write option %q to Redis: %w", key, err)
	}
	return nil
}

// AddOption uses SETNX so concurrent writers agree on the first value.
func (s *OptionStore) AddOption(ctx context.Context, key, value string) (bool, error) {
	ok, err := s.rdb.SetNX(ctx, s.Key(key), value, 0).Result()
	if err != nil {
		return false, fmt.Errorf("failed to add option %q to Redis: %w", key, err)
	}
	return ok, nil
}
