package cache

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"
)

const SyncLockKey = "competency:sync:lock"

// RunLock is a Redis lease guarding reconciliation runs across instances.
type RunLock struct {
	redis  *Redis
	key    string
	ttl    time.Duration
	logger *log.Logger
}

func NewRunLock(r *Redis, ttl time.Duration, logger *log.Logger) *RunLock {
	if logger == nil {
		logger = log.Default()
	}
	return &RunLock{redis: r, key: SyncLockKey, ttl: ttl, logger: logger}
}

func (l *RunLock) Acquire(ctx context.Context) (func(context.Context), bool, error) {
	token := uuid.NewString()
	ok, err := l.redis.SetIfNotExists(ctx, l.key, token, l.ttl)
	if err != nil {
		return nil, false, err
	}
	if !ok {
		return nil, false, nil
	}

	l.logger.Printf("[Cache] sync lock acquired key=%s ttl=%s", l.key, l.ttl)
	release := func(ctx context.Context) {
		released, err := l.redis.DeleteIfValue(ctx, l.key, token)
		switch {
		case err != nil:
			l.logger.Printf("[Cache] sync lock release failed key=%s err=%v", l.key, err)
		case !released:
			l.logger.Printf("[Cache] sync lock expired before release key=%s", l.key)
		}
	}
	return release, true, nil
}
