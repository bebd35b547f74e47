package helpers

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// NewRedisClient initializes a redis client and checks it answers.
// Rate limiting fails open, so callers may keep a client that failed the ping.
func NewRedisClient(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	return rdb, rdb.Ping(ctx).Err()
}

// INCR and set the window expiry on the first hit, atomically.
var incrWindowScript = redis.NewScript(`
local current = redis.call("INCR", KEYS[1])
if current == 1 then
  redis.call("PEXPIRE", KEYS[1], ARGV[1])
end
return current
`)

// IncrWindow bumps a fixed-window counter and returns its new value.
func IncrWindow(ctx context.Context, rdb *redis.Client, key string, window time.Duration) (int64, error) {
	return incrWindowScript.Run(ctx, rdb, []string{key}, window.Milliseconds()).Int64()
}

// RedisAttempts counts attempts per key, e.g. password reset codes per email.
type RedisAttempts struct {
	rdb    *redis.Client
	prefix string
}

func NewRedisAttempts(rdb *redis.Client) *RedisAttempts {
	return &RedisAttempts{rdb: rdb, prefix: "attempts:"}
}

func (a *RedisAttempts) Hit(ctx context.Context, key string, window time.Duration) (int64, error) {
	return IncrWindow(ctx, a.rdb, a.prefix+key, window)
}

func (a *RedisAttempts) Reset(ctx context.Context, key string) error {
	return a.rdb.Del(ctx, a.prefix+key).Err()
}
