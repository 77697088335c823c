package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ynmsafety/ynmops/internal/clock"
)

func TestWindowLimiter(t *testing.T) {
	ctx := context.Background()
	clk := clock.NewFakeClock(time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC))
	l := NewWindowLimiter(2, time.Minute, clk)

	for i := 0; i < 2; i++ {
		ok, err := l.Allow(ctx, "10.0.0.1")
		require.NoError(t, err)
		assert.True(t, ok)
	}
	ok, _ := l.Allow(ctx, "10.0.0.1")
	assert.False(t, ok, "third hit inside the window must be refused")

	ok, _ = l.Allow(ctx, "10.0.0.2")
	assert.True(t, ok, "keys are independent")

	clk.Advance(20 * time.Second)
	ok, _ = l.Allow(ctx, "10.0.0.1")
	assert.False(t, ok, "one request refills every 30s")

	clk.Advance(10 * time.Second)
	ok, _ = l.Allow(ctx, "10.0.0.1")
	assert.True(t, ok)
	ok, _ = l.Allow(ctx, "10.0.0.1")
	assert.False(t, ok)

	clk.Advance(time.Minute)
	for i := 0; i < 2; i++ {
		ok, _ = l.Allow(ctx, "10.0.0.1")
		assert.True(t, ok, "a full window restores the burst")
	}
}

func TestWindowLimiterZeroLimitRefusesAll(t *testing.T) {
	clk := clock.NewFakeClock(time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC))
	l := NewWindowLimiter(0, time.Minute, clk)

	ok, err := l.Allow(context.Background(), "a")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestWindowLimiterEvictExpired(t *testing.T) {
	ctx := context.Background()
	clk := clock.NewFakeClock(time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC))
	l := NewWindowLimiter(5, time.Minute, clk)

	_, _ = l.Allow(ctx, "a")
	clk.Advance(45 * time.Second)
	_, _ = l.Allow(ctx, "b")
	clk.Advance(30 * time.Second)

	assert.Equal(t, 1, l.EvictExpired())
	assert.Equal(t, 1, l.Keys())
}

func TestAllowAll(t *testing.T) {
	ok, err := AllowAll().Allow(context.Background(), "")
	assert.NoError(t, err)
	assert.True(t, ok)
}
