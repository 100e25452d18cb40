package sessions

import (
	"context"
	"log/slog"
	"strconv"
	"strings"

	"github.com/KirkDiggler/rpg-tabletop/internal/errors"
	redisclient "github.com/KirkDiggler/rpg-tabletop/internal/redis"
)

// SweepInput configures a scan of the Redis session keys
type SweepInput struct {
	Client redisclient.Client
	// Delete removes the unreadable keys instead of only reporting them
	Delete bool
}

// SweepOutput reports the scan
type SweepOutput struct {
	Checked int
	// Corrupt lists keys that no longer decode, e.g. steps written by an older build
	Corrupt []string
	Deleted int
}

// Sweep scans every session key and reports the ones Get would fail on.
// A user with such a key would hit an internal error on every message.
func Sweep(ctx context.Context, input *SweepInput) (*SweepOutput, error) {
	if input == nil || input.Client == nil {
		return nil, errors.InvalidArgument("redis client is required")
	}

	out := &SweepOutput{}
	iter := input.Client.Scan(ctx, 0, sessionKeyPrefix+"*", 0).Iterator()
	for iter.Next(ctx) {
		key := iter.Val()
		out.Checked++

		raw, err := input.Client.Get(ctx, key).Bytes()
		if redisclient.IsNil(err) {
			continue
		}
		if err != nil {
			return nil, errors.Wrapf(err, "failed to read %s", key)
		}

		if reason := checkKey(key, raw); reason != "" {
			slog.WarnContext(ctx, "corrupt session", "key", key, "reason", reason)
			out.Corrupt = append(out.Corrupt, key)
		}
	}
	if err := iter.Err(); err != nil {
		return nil, errors.Wrap(err, "failed to scan sessions")
	}

	if !input.Delete || len(out.Corrupt) == 0 {
		return out, nil
	}

	n, err := input.Client.Del(ctx, out.Corrupt...).Result()
	if err != nil {
		return nil, errors.Wrap(err, "failed to delete corrupt sessions")
	}
	out.Deleted = int(n)
	slog.InfoContext(ctx, "deleted corrupt sessions", "count", n)

	return out, nil
}

// checkKey returns why a key is unusable, or "" when it is fine
func checkKey(key string, raw []byte) string {
	parts := strings.Split(strings.TrimPrefix(key, sessionKeyPrefix), ":")
	if len(parts) != 2 {
		return "malformed key"
	}
	userID, err := strconv.ParseInt(parts[0], 10, 64)
	if err != nil || userID <= 0 {
		return "bad user id"
	}
	category := Category(parts[1])
	if !category.IsValid() {
		return "unknown category"
	}

	session, err := Decode(userID, raw)
	if err != nil {
		return err.Error()
	}
	if session.Category() != category {
		return "step does not belong to category"
	}
	return ""
}
