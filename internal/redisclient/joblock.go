package redisclient

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
)

var ErrLockNotAcquired = errors.New("job lock not acquired")

// JobRunner garante rodada única de um job batch mesmo com o
// scheduler e o disparo manual concorrendo
type JobRunner interface {
	WithJobLock(ctx context.Context, name string, fn func(ctx context.Context) error) error
}

type redisJobRunner struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisJobRunner(client *redis.Client, ttl time.Duration) JobRunner {
	return &redisJobRunner{
		client: client,
		ttl:    ttl,
	}
}

func (l *redisJobRunner) WithJobLock(ctx context.Context, name string, fn func(ctx context.Context) error) error {
	key := fmt.Sprintf("lock:job:%s", name)
	token := uuid.NewString()

	ok, err := l.client.SetNX(ctx, key, token, l.ttl).Result()
	if err != nil {
		return fmt.Errorf("acquire job lock: %w", err)
	}
	if !ok {
		return ErrLockNotAcquired
	}

	defer func() {
		_ = l.release(ctx, key, token)
	}()

	ctxWithTimeout, cancel := context.WithTimeout(ctx, l.ttl)
	defer cancel()

	return fn(ctxWithTimeout)
}

// só apaga se o token ainda é nosso
var unlockScript = redis.NewScript(`
local val = redis.call("GET", KEYS[1])
if val == ARGV[1] then
  return redis.call("DEL", KEYS[1])
else
  return 0
end
`)

func (l *redisJobRunner) release(ctx context.Context, key, token string) error {
	_, err := unlockScript.Run(ctx, l.client, []string{key}, token).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		return fmt.Errorf("release job lock: %w", err)
	}
	return nil
}
