package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/ynmsafety/ynmops/internal/clock"
)

func TestTTLCacheExpiry(t *testing.T) {
	clk := clock.NewFakeClock(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
	c := NewTTLCache[string, int](clk)

	c.Set("a", 1, time.Minute)
	c.Set("b", 2, 2*time.Minute)

	v, ok := c.Get("a")
	assert.True(t, ok)
	assert.Equal(t, 1, v)

	clk.Advance(time.Minute)
	_, ok = c.Get("a")
	assert.False(t, ok, "entry must expire exactly at its ttl")
	assert.Equal(t, 2, c.Len(), "expired entries stay until evicted")

	assert.Equal(t, 1, c.EvictExpired())
	assert.Equal(t, 1, c.Len())

	v, ok = c.Get("b")
	assert.True(t, ok)
	assert.Equal(t, 2, v)
}

func TestTTLCacheDeleteAndPurge(t *testing.T) {
	c := NewTTLCache[string, string](nil)
	c.Set("k", "v", time.Hour)
	c.Delete("k")
	_, ok := c.Get("k")
	assert.False(t, ok)

	c.Set("x", "y", time.Hour)
	c.Set("zero", "ttl", 0)
	assert.Equal(t, 1, c.Len())
	c.Purge()
	assert.Equal(t, 0, c.Len())
}
