package session

import (
	"context"
	"time"
)

// Store abstracts the shared key-value backend the registry runs on.
// Individual operations are atomic; multi-call sequences are not.
type Store interface {
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	Get(ctx context.Context, key string) (string, bool, error)
	Del(ctx context.Context, key string) error
	Expire(ctx context.Context, key string, ttl time.Duration) error

	SAdd(ctx context.Context, set, member string) error
	SRem(ctx context.Context, set, member string) error
	SMembers(ctx context.Context, set string) ([]string, error)
	SCard(ctx context.Context, set string) (int64, error)
}
