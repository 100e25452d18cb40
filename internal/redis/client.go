// Package redis wraps the go-redis client so session storage can be backed
// by a real server or miniredis in tests.
package redis

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/KirkDiggler/rpg-tabletop/internal/errors"
)

// Options configures Redis client behavior
type Options struct {
	DB              int
	PoolSize        int
	MinIdleConns    int
	ConnMaxIdleTime time.Duration
	MaxRetries      int
	DialTimeout     time.Duration
}

// NewClient creates a Redis client for a single instance. The connection is
// lazy; use Ping to verify the endpoint.
func NewClient(endpoint string, opts *Options) (Client, error) {
	if endpoint == "" {
		return nil, errors.InvalidArgument("redis: endpoint is required")
	}

	if opts == nil {
		opts = &Options{}
	}

	return redis.NewClient(&redis.Options{
		Addr:            endpoint,
		DB:              opts.DB,
		MinIdleConns:    opts.MinIdleConns,
		PoolSize:        opts.PoolSize,
		ConnMaxIdleTime: opts.ConnMaxIdleTime,
		MaxRetries:      opts.MaxRetries,
		DialTimeout:     opts.DialTimeout,
	}), nil
}

// Connect creates a client and pings it once
func Connect(ctx context.Context, endpoint string, opts *Options) (Client, error) {
	client, err := NewClient(endpoint, opts)
	if err != nil {
		return nil, err
	}

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, errors.Wrapf(err, "redis: failed to reach %s", endpoint)
	}

	return client, nil
}

// IsNil reports whether err is the go-redis missing key sentinel
func IsNil(err error) bool {
	return errors.Is(err, redis.Nil)
}
