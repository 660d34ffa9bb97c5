package adapter

import (
	"context"
	"fmt"
	"time"

	"quiz-seed/internal/domain"
	"quiz-seed/internal/seed"
	"quiz-seed/internal/util"

	"github.com/redis/go-redis/v9"
)

var _ seed.RunLock = (*RedisRunLock)(nil)

// releaseScript deletes the lock only if it still holds our token.
const releaseScript = `if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0`

// refreshScript resets the expiry only if the lock still holds our token.
const refreshScript = `if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("PEXPIRE", KEYS[1], ARGV[2])
end
return 0`

// RedisRunLock is a single-holder lock on a Redis key. The key expires after
// ttl so a crashed run cannot block later runs forever; the runner refreshes
// it before every batch.
type RedisRunLock struct {
	client redis.Cmdable
	key    string
	ttl    time.Duration
	token  string
}

// NewRedisRunLock creates a lock on key. It expects a connected client.
func NewRedisRunLock(client redis.Cmdable, key string, ttl time.Duration) *RedisRunLock {
	return &RedisRunLock{client: client, key: key, ttl: ttl, token: util.NewULID()}
}

// Token is the value stored under the key while the lock is held.
func (l *RedisRunLock) Token() string { return l.token }

// Acquire takes the lock or returns a LOCK_HELD error if another run holds it.
func (l *RedisRunLock) Acquire(ctx context.Context) error {
	ok, err := l.client.SetNX(ctx, l.key, l.token, l.ttl).Result()
	if err != nil {
		return fmt.Errorf("failed to acquire seed lock %q: %w", l.key, err)
	}
	if !ok {
		return domain.NewLockHeldError(l.key)
	}
	return nil
}

// Refresh pushes the expiry back to ttl from now. It returns a LOCK_HELD
// error if the key expired or another run took it over.
func (l *RedisRunLock) Refresh(ctx context.Context) error {
	n, err := l.client.Eval(ctx, refreshScript, []string{l.key}, l.token, l.ttl.Milliseconds()).Int()
	if err != nil {
		return fmt.Errorf("failed to refresh seed lock %q: %w", l.key, err)
	}
	if n == 0 {
		return domain.NewLockHeldError(l.key)
	}
	return nil
}

// Release frees the lock if it is still ours.
func (l *RedisRunLock) Release(ctx context.Context) error {
	n, err := l.client.Eval(ctx, releaseScript, []string{l.key}, l.token).Int()
	if err != nil {
		return fmt.Errorf("failed to release seed lock %q: %w", l.key, err)
	}
	if n == 0 {
		return fmt.Errorf("seed lock %q expired or was taken over before release", l.key)
	}
	return nil
}
