package ratelimit

import (
	"context"
	"sync"
	"time"

	"github.com/ynmsafety/ynmops/internal/clock"
	"golang.org/x/time/rate"
)

// Limiter decides whether a request identified by key may proceed.
type Limiter interface {
	Allow(ctx context.Context, key string) (bool, error)
}

// WindowLimiter admits up to limit requests per key in a burst and refills
// them evenly over window. State lives in process memory; EvictExpired drops
// keys idle for a full window, whose buckets are full again.
type WindowLimiter struct {
	mu       sync.Mutex
	clock    clock.Clock
	limit    int
	window   time.Duration
	visitors map[string]*visitor
}

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

func NewWindowLimiter(limit int, window time.Duration, c clock.Clock) *WindowLimiter {
	if c == nil {
		c = clock.System()
	}
	return &WindowLimiter{
		clock:    c,
		limit:    limit,
		window:   window,
		visitors: make(map[string]*visitor),
	}
}

func (l *WindowLimiter) Allow(_ context.Context, key string) (bool, error) {
	now := l.clock.Now()

	l.mu.Lock()
	defer l.mu.Unlock()

	v, ok := l.visitors[key]
	if !ok {
		v = &visitor{limiter: rate.NewLimiter(l.refill(), max(l.limit, 0))}
		l.visitors[key] = v
	}
	v.lastSeen = now
	return v.limiter.AllowN(now, 1), nil
}

func (l *WindowLimiter) refill() rate.Limit {
	if l.limit <= 0 || l.window <= 0 {
		return 0
	}
	return rate.Every(l.window / time.Duration(l.limit))
}

// EvictExpired forgets keys not seen within the window.
func (l *WindowLimiter) EvictExpired() int {
	cutoff := l.clock.Now().Add(-l.window)

	l.mu.Lock()
	defer l.mu.Unlock()

	removed := 0
	for key, v := range l.visitors {
		if !v.lastSeen.After(cutoff) {
			delete(l.visitors, key)
			removed++
		}
	}
	return removed
}

func (l *WindowLimiter) Keys() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.visitors)
}

type allowAll struct{}

// AllowAll never limits.
func AllowAll() Limiter { return allowAll{} }

func (allowAll) Allow(context.Context, string) (bool, error) { return true, nil }
