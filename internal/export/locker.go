package export

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/bsm/redislock"
	"github.com/redis/go-redis/v9"

	"go-dairy-ledger/pkg/logger"
)

var ErrLockBusy = errors.New("export is being written by another request")

// Locker serializes writers of a shared artifact.
type Locker interface {
	Acquire(ctx context.Context, key string) (release func(), err error)
}

type localLocker struct {
	mu sync.Mutex
}

// NewLocalLocker serializes writers inside this process only.
func NewLocalLocker() Locker {
	return &localLocker{}
}

func (l *localLocker) Acquire(ctx context.Context, key string) (func(), error) {
	l.mu.Lock()
	return l.mu.Unlock, nil
}

type redisLocker struct {
	client *redislock.Client
	ttl    time.Duration
	log    *logger.Logger
}

// NewRedisLocker connects to addr and serializes writers across instances.
// The returned client must be closed by the caller.
func NewRedisLocker(ctx context.Context, addr string, log *logger.Logger) (Locker, *redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		DB:       0,
		PoolSize: 10,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, nil, err
	}
	return &redisLocker{
		client: redislock.New(rdb),
		ttl:    30 * time.Second,
		log:    log.WithComponent("export-lock"),
	}, rdb, nil
}

func (l *redisLocker) Acquire(ctx context.Context, key string) (func(), error) {
	lock, err := l.client.Obtain(ctx, "lock:"+key, l.ttl, &redislock.Options{
		RetryStrategy: redislock.LimitRetry(redislock.LinearBackoff(100*time.Millisecond), 100),
	})
	if errors.Is(err, redislock.ErrNotObtained) {
		return nil, ErrLockBusy
	} else if err != nil {
		return nil, err
	}
	return func() {
		if err := lock.Release(context.Background()); err != nil && !errors.Is(err, redislock.ErrLockNotHeld) {
			l.log.Warnw("release export lock", "key", key, "error", err)
		}
	}, nil
}
