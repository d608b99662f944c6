package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sony/gobreaker/v2"
	"github.com/synapse/server/internal/port/outbound"
	"go.uber.org/zap"
)

const lockKeyPrefix = "lock:"

// ErrLockTimeout indicates the key stayed held for longer than the wait budget.
var ErrLockTimeout = errors.New("timed out waiting for lock")

// unlockScript deletes the key only if it still holds our token.
var unlockScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// KeyLockConfig holds distributed lock settings.
type KeyLockConfig struct {
	// TTL bounds how long a crashed holder can block a key.
	TTL time.Duration
	// Wait bounds how long Lock polls for a held key.
	Wait time.Duration
	// RetryInterval is the polling interval while the key is held.
	RetryInterval time.Duration
}

// DefaultKeyLockConfig returns the default lock settings.
func DefaultKeyLockConfig() KeyLockConfig {
	return KeyLockConfig{
		TTL:           10 * time.Second,
		Wait:          5 * time.Second,
		RetryInterval: 25 * time.Millisecond,
	}
}

// keyLocker implements outbound.KeyLockerPort with SET NX PX.
// When Redis is unreachable or the breaker is open it degrades to the fallback locker.
type keyLocker struct {
	client   redis.UniversalClient
	breaker  *gobreaker.CircuitBreaker[any]
	fallback outbound.KeyLockerPort
	metrics  outbound.WebhookMetricsPort
	cfg      KeyLockConfig
	logger   *zap.Logger
}

// NewKeyLocker creates a Redis-backed key locker.
func NewKeyLocker(
	client redis.UniversalClient,
	fallback outbound.KeyLockerPort,
	metrics outbound.WebhookMetricsPort,
	cfg KeyLockConfig,
	logger *zap.Logger,
) outbound.KeyLockerPort {
	if logger == nil {
		logger = zap.NewNop()
	}
	def := DefaultKeyLockConfig()
	if cfg.TTL <= 0 {
		cfg.TTL = def.TTL
	}
	if cfg.Wait <= 0 {
		cfg.Wait = def.Wait
	}
	if cfg.RetryInterval <= 0 {
		cfg.RetryInterval = def.RetryInterval
	}

	settings := gobreaker.Settings{
		Name:        "redis-key-lock",
		MaxRequests: 1,
		Interval:    60 * time.Second,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
		},
	}

	return &keyLocker{
		client:   client,
		breaker:  gobreaker.NewCircuitBreaker[any](settings),
		fallback: fallback,
		metrics:  metrics,
		cfg:      cfg,
		logger:   logger.Named("key_lock"),
	}
}

func (l *keyLocker) Lock(ctx context.Context, key string) (func(), error) {
	fullKey := lockKeyPrefix + key
	token := uuid.NewString()

	err := l.acquire(ctx, fullKey, token)
	switch {
	case err == nil:
		return l.unlockFunc(fullKey, token), nil
	case ctx.Err() != nil:
		return nil, ctx.Err()
	case errors.Is(err, ErrLockTimeout):
		return nil, fmt.Errorf("lock %s: %w", key, err)
	}

	reason := "redis_error"
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		reason = "breaker_open"
	}
	l.logger.Warn("redis lock unavailable, using local lock",
		zap.String("key", key),
		zap.String("reason", reason),
		zap.Error(err),
	)
	if l.metrics != nil {
		l.metrics.RecordLockFallback(reason)
	}
	return l.fallback.Lock(ctx, key)
}

func (l *keyLocker) acquire(ctx context.Context, key, token string) error {
	waitCtx, cancel := context.WithTimeout(ctx, l.cfg.Wait)
	defer cancel()

	ticker := time.NewTicker(l.cfg.RetryInterval)
	defer ticker.Stop()

	for {
		ok, err := l.tryLock(waitCtx, key, token)
		if err != nil && waitCtx.Err() == nil {
			return err
		}
		if ok {
			return nil
		}

		select {
		case <-waitCtx.Done():
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return ErrLockTimeout
		case <-ticker.C:
		}
	}
}

func (l *keyLocker) tryLock(ctx context.Context, key, token string) (bool, error) {
	res, err := l.breaker.Execute(func() (any, error) {
		return l.client.SetNX(ctx, key, token, l.cfg.TTL).Result()
	})
	if err != nil {
		return false, err
	}
	ok, _ := res.(bool)
	return ok, nil
}

func (l *keyLocker) unlockFunc(key, token string) func() {
	released := false
	return func() {
		if released {
			return
		}
		released = true

		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		if err := unlockScript.Run(ctx, l.client, []string{key}, token).Err(); err != nil {
			l.logger.Warn("failed to release redis lock", zap.String("key", key), zap.Error(err))
		}
	}
}

// Compile-time check
var _ outbound.KeyLockerPort = (*keyLocker)(nil)
