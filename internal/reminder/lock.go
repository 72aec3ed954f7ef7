package reminder

import (
	"context"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
)

// Locker guards a job run across processes. release is always non-nil when
// ok is true.
type Locker interface {
	Acquire(ctx context.Context, key string, ttl time.Duration) (release func(), ok bool, err error)
}

// NopLocker always grants the lock. Use it for single-process deployments.
type NopLocker struct{}

func (NopLocker) Acquire(context.Context, string, time.Duration) (func(), bool, error) {
	return func() {}, true, nil
}

// releaseScript deletes the key only when it still holds our token, so a
// run that outlived its TTL cannot drop a lock now held by someone else.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
  return redis.call("DEL", KEYS[1])
end
return 0
`)

type RedisLocker struct {
	rdb    *redis.Client
	prefix string
}

func NewRedisLocker(rdb *redis.Client, prefix string) *RedisLocker {
	if prefix == "" {
		prefix = "detailing:lock:"
	}
	return &RedisLocker{rdb: rdb, prefix: prefix}
}

func (l *RedisLocker) Acquire(ctx context.Context, key string, ttl time.Duration) (func(), bool, error) {
	full := l.prefix + key
	token := uuid.NewString()

	ok, err := l.rdb.SetNX(ctx, full, token, ttl).Result()
	if err != nil || !ok {
		return nil, false, err
	}

	release := func() {
		_ = releaseScript.Run(context.Background(), l.rdb, []string{full}, token).Err()
	}
	return release, true, nil
}
