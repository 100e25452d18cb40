package sessions

import (
	"context"
	"fmt"

	"github.com/KirkDiggler/rpg-tabletop/internal/errors"
	"github.com/KirkDiggler/rpg-tabletop/internal/pkg/clock"
	redisclient "github.com/KirkDiggler/rpg-tabletop/internal/redis"
)

// Key pattern: session:{user_id}:{category}
const sessionKeyPrefix = "session:"

// RedisConfig holds the dependencies for the Redis store
type RedisConfig struct {
	Client redisclient.Client
	Clock  clock.Clock
}

// Validate ensures all required dependencies are provided
func (c *RedisConfig) Validate() error {
	if c.Client == nil {
		return errors.InvalidArgument("redis client is required")
	}
	if c.Clock == nil {
		return errors.InvalidArgument("clock is required")
	}
	return nil
}

type redisStore struct {
	client redisclient.Client
	clock  clock.Clock
}

// NewRedis creates a session store that survives process restarts
func NewRedis(cfg *RedisConfig) (Store, error) {
	if cfg == nil {
		return nil, errors.InvalidArgument("config is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	return &redisStore{
		client: cfg.Client,
		clock:  cfg.Clock,
	}, nil
}

var _ Store = (*redisStore)(nil)

// Get loads and decodes the pending session
func (r *redisStore) Get(ctx context.Context, input GetInput) (*GetOutput, error) {
	if err := validateKey(input.UserID, input.Category); err != nil {
		return nil, err
	}

	raw, err := r.client.Get(ctx, buildKey(input.UserID, input.Category)).Bytes()
	if err != nil {
		if redisclient.IsNil(err) {
			return nil, notFound(input.UserID, input.Category)
		}
		return nil, errors.Wrapf(err, "failed to get session from Redis")
	}

	session, err := Decode(input.UserID, raw)
	if err != nil {
		return nil, err
	}
	if session.Category() != input.Category {
		return nil, errors.Internalf("session step %s does not belong to %s", session.State.Step(), input.Category).
			WithMeta("user_id", input.UserID)
	}

	return &GetOutput{Session: session}, nil
}

// Put writes the session without a TTL
func (r *redisStore) Put(ctx context.Context, input PutInput) (*PutOutput, error) {
	if input.State == nil {
		return nil, errors.InvalidArgument("state is required")
	}
	if err := validateKey(input.UserID, input.State.Category()); err != nil {
		return nil, err
	}

	session := &Session{UserID: input.UserID, State: input.State, UpdatedAt: r.clock.Now()}
	raw, err := Encode(session)
	if err != nil {
		return nil, err
	}

	if err := r.client.Set(ctx, buildKey(input.UserID, session.Category()), raw, 0).Err(); err != nil {
		return nil, errors.Wrapf(err, "failed to store session in Redis")
	}

	return &PutOutput{Session: session}, nil
}

// Delete removes the session key
func (r *redisStore) Delete(ctx context.Context, input DeleteInput) (*DeleteOutput, error) {
	if err := validateKey(input.UserID, input.Category); err != nil {
		return nil, err
	}

	n, err := r.client.Del(ctx, buildKey(input.UserID, input.Category)).Result()
	if err != nil {
		return nil, errors.Wrapf(err, "failed to delete session from Redis")
	}

	return &DeleteOutput{Deleted: n > 0}, nil
}

func buildKey(userID int64, category Category) string {
	return fmt.Sprintf("%s%d:%s", sessionKeyPrefix, userID, category)
}
