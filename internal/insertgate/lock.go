package insertgate

import (
	"context"
	"sync"
	"time"

	"github.com/ynmsafety/ynmops/internal/ratelimit"
)

// Locker serializes the duplicate check and insert for one key.
type Locker interface {
	Lock(ctx context.Context, key string) (unlock func(), err error)
}

// KeyedMutex is an in-process Locker. It only protects a single replica.
type KeyedMutex struct {
	mu    sync.Mutex
	slots map[string]chan struct{}
}

func NewKeyedMutex() *KeyedMutex {
	return &KeyedMutex{slots: make(map[string]chan struct{})}
}

func (k *KeyedMutex) Lock(ctx context.Context, key string) (func(), error) {
	k.mu.Lock()
	slot, ok := k.slots[key]
	if !ok {
		slot = make(chan struct{}, 1)
		k.slots[key] = slot
	}
	k.mu.Unlock()

	select {
	case slot <- struct{}{}:
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	var once sync.Once
	return func() {
		once.Do(func() { <-slot })
	}, nil
}

// RedisLocker shares the insert lock across replicas.
type RedisLocker struct {
	locker *ratelimit.Locker
	ttl    time.Duration
	wait   time.Duration
	retry  time.Duration
}

func NewRedisLocker(locker *ratelimit.Locker, ttl, wait, retry time.Duration) *RedisLocker {
	return &RedisLocker{locker: locker, ttl: ttl, wait: wait, retry: retry}
}

func (r *RedisLocker) Lock(ctx context.Context, key string) (func(), error) {
	token, err := r.locker.Lock(ctx, key, r.ttl, r.wait, r.retry)
	if err != nil {
		return nil, err
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			releaseCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), time.Second)
			defer cancel()
			_ = r.locker.Release(releaseCtx, key, token)
		})
	}, nil
}
