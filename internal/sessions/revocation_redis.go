package sessions

import (
	"context"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisRevocations stores the per-uid revocation cutoff used by the session
// token verifier. Keys expire after retention: by then every token issued
// before the cutoff has expired on its own.
type RedisRevocations struct {
	client    *redis.Client
	prefix    string
	retention time.Duration
}

func NewRedisRevocations(client *redis.Client, prefix string, retention time.Duration) *RedisRevocations {
	if prefix == "" {
		prefix = "revoked:"
	}
	if retention <= 0 {
		retention = 24 * time.Hour
	}
	return &RedisRevocations{client: client, prefix: prefix, retention: retention}
}

// Revoke invalidates every token issued to uid before t.
func (r *RedisRevocations) Revoke(ctx context.Context, uid string, t time.Time) error {
	return r.client.Set(ctx, r.prefix+uid, strconv.FormatInt(t.Unix(), 10), r.retention).Err()
}

// ValidAfter returns the revocation cutoff for uid, zero when none is recorded.
func (r *RedisRevocations) ValidAfter(ctx context.Context, uid string) (time.Time, error) {
	v, err := r.client.Get(ctx, r.prefix+uid).Result()
	if err != nil {
		if err == redis.Nil {
			return time.Time{}, nil
		}
		return time.Time{}, err
	}
	sec, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return time.Time{}, err
	}
	return time.Unix(sec, 0), nil
}
