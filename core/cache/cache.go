package cache

import (
	"context"
	stderrors "errors"
	"fmt"
	"sync"
	"time"

	"calendar-digest/core/config"
	"calendar-digest/core/logger"

	"github.com/redis/go-redis/v9"
)

// ErrLockHeld is returned when another holder owns the key.
var ErrLockHeld = stderrors.New("cache: lock held")

// Locker hands out short-lived exclusive locks keyed by string. Release must be
// called with the token returned by Acquire.
type Locker interface {
	Acquire(ctx context.Context, key string, ttl time.Duration) (token string, err error)
	Release(ctx context.Context, key, token string) error
}

// NewLocker returns a Redis-backed locker when Redis is configured and an
// in-process one otherwise.
func NewLocker(cfg config.RedisConfig) (Locker, func() error, error) {
	if cfg.Addr == "" {
		logger.Info("Cache:NewLocker", "backend", "memory")
		return NewMemoryLocker(), func() error { return nil }, nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	logger.Info("Cache:NewLocker", "backend", "redis", "addr", cfg.Addr, "db", cfg.DB)
	return NewRedisLocker(client), client.Close, nil
}

type RedisLocker struct {
	client redis.UniversalClient
}

func NewRedisLocker(client redis.UniversalClient) *RedisLocker {
	return &RedisLocker{client: client}
}

// releaseScript deletes the key only if it still holds our token.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

func (l *RedisLocker) Acquire(ctx context.Context, key string, ttl time.Duration) (string, error) {
	token := newToken()
	ok, err := l.client.SetNX(ctx, key, token, ttl).Result()
	if err != nil {
		logger.Error("Cache:RedisLocker:Acquire:Error", "key", key, "error", err)
		return "", err
	}
	if !ok {
		return "", ErrLockHeld
	}
	return token, nil
}

func (l *RedisLocker) Release(ctx context.Context, key, token string) error {
	if err := releaseScript.Run(ctx, l.client, []string{key}, token).Err(); err != nil && err != redis.Nil {
		logger.Error("Cache:RedisLocker:Release:Error", "key", key, "error", err)
		return err
	}
	return nil
}

type memoryEntry struct {
	token     string
	expiresAt time.Time
}

type MemoryLocker struct {
	mu    sync.Mutex
	locks map[string]memoryEntry
	now   func() time.Time
}

func NewMemoryLocker() *MemoryLocker {
	return &MemoryLocker{
		locks: make(map[string]memoryEntry),
		now:   time.Now,
	}
}

func (l *MemoryLocker) Acquire(_ context.Context, key string, ttl time.Duration) (string, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	if e, ok := l.locks[key]; ok && now.Before(e.expiresAt) {
		return "", ErrLockHeld
	}

	token := newToken()
	l.locks[key] = memoryEntry{token: token, expiresAt: now.Add(ttl)}
	return token, nil
}

func (l *MemoryLocker) Release(_ context.Context, key, token string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if e, ok := l.locks[key]; ok && e.token == token {
		delete(l.locks, key)
	}
	return nil
}
