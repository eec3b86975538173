package session

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// redisStore backs the registry with a shared Redis instance so multiple
// service replicas see the same sessions.
type redisStore struct {
	client *redis.Client
}

// NewRedisStore wraps a connected go-redis client.
func NewRedisStore(client *redis.Client) Store {
	return &redisStore{client: client}
}

func (s *redisStore) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	return s.client.Set(ctx, key, value, ttl).Err()
}

func (s *redisStore) Get(ctx context.Context, key string) (string, bool, error) {
	val, err := s.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return val, true, nil
}

func (s *redisStore) Del(ctx context.Context, key string) error {
	return s.client.Del(ctx, key).Err()
}

func (s *redisStore) Expire(ctx context.Context, key string, ttl time.Duration) error {
	return s.client.Expire(ctx, key, ttl).Err()
}

func (s *redisStore) SAdd(ctx context.Context, set, member string) error {
	return s.client.SAdd(ctx, set, member).Err()
}

func (s *redisStore) SRem(ctx context.Context, set, member string) error {
	return s.client.SRem(ctx, set, member).Err()
}

func (s *redisStore) SMembers(ctx context.Context, set string) ([]string, error) {
	return s.client.SMembers(ctx, set).Result()
}

func (s *redisStore) SCard(ctx context.Context, set string) (int64, error) {
	return s.client.SCard(ctx, set).Result()
}
