package lock

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/xid"
)

var errNotAcquired = errors.New("lock not acquired")

// Deletes the key only while it still holds our token
var releaseScript = redis.NewScript(`
	if redis.call("GET", KEYS[1]) == ARGV[1] then
		return redis.call("DEL", KEYS[1])
	else
		return 0
	end
`)

// RedisLocker shares tournament locks between several app instances. The TTL bounds how long a
// crashed holder can block others.
type RedisLocker struct {
	client        *redis.Client
	prefix        string
	ttl           time.Duration
	wait          time.Duration
	retryInterval time.Duration
}

func NewRedisLocker(client *redis.Client, ttl, wait time.Duration) *RedisLocker {
	return &RedisLocker{
		client:        client,
		prefix:        "gymit:lock:",
		ttl:           ttl,
		wait:          wait,
		retryInterval: 25 * time.Millisecond,
	}
}

func (l *RedisLocker) acquire(ctx context.Context, key, token string) error {
	ok, err := l.client.SetNX(ctx, l.prefix+key, token, l.ttl).Result()
	if err != nil {
		return err
	}
	if !ok {
		return errNotAcquired
	}
	return nil
}

func (l *RedisLocker) Lock(ctx context.Context, key string) (Unlock, error) {
	token := xid.New().String()
	deadline := time.Now().Add(l.wait)

	for {
		err := l.acquire(ctx, key, token)
		if err == nil {
			break
		}
		if !errors.Is(err, errNotAcquired) {
			return nil, err
		}
		if time.Now().After(deadline) {
			return nil, ErrTimeout
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(l.retryInterval):
		}
	}

	var once sync.Once
	return func() {
		once.Do(func() { l.release(key, token) })
	}, nil
}

func (l *RedisLocker) release(key, token string) {
	// The caller's context may already be cancelled, the key still has to go
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	n, err := releaseScript.Run(ctx, l.client, []string{l.prefix + key}, token).Int()
	if err != nil {
		slog.Error("failed to release tournament lock", "key", key, "error", err)
		return
	}
	if n == 0 {
		slog.Warn("tournament lock expired before release", "key", key)
	}
}
