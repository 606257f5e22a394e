package presence

import (
	"context"

	"github.com/redis/go-redis/v9"
)

// Tracker counts users currently considered live. It is an injected
// collaborator so analytics does not depend on a particular cache; NoopTracker
// is a valid substitute when presence tracking is disabled.
type Tracker interface {
	Add(ctx context.Context, userID string) error
	Remove(ctx context.Context, userID string) error
	Count(ctx context.Context) (int64, error)
}

const liveUsersKey = "live_users"

type redisTracker struct {
	client *redis.Client
}

func NewRedisTracker(client *redis.Client) Tracker {
	return &redisTracker{client: client}
}

func (t *redisTracker) Add(ctx context.Context, userID string) error {
	return t.client.SAdd(ctx, liveUsersKey, userID).Err()
}

func (t *redisTracker) Remove(ctx context.Context, userID string) error {
	return t.client.SRem(ctx, liveUsersKey, userID).Err()
}

func (t *redisTracker) Count(ctx context.Context) (int64, error) {
	return t.client.SCard(ctx, liveUsersKey).Result()
}

type NoopTracker struct{}

func (NoopTracker) Add(ctx context.Context, userID string) error    { return nil }
func (NoopTracker) Remove(ctx context.Context, userID string) error { return nil }
func (NoopTracker) Count(ctx context.Context) (int64, error)        { return 0, nil }
