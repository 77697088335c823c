package ratelimit

import (
	"github.com/ynmsafety/ynmops/internal/clock"
	"github.com/ynmsafety/ynmops/internal/config"
	"github.com/ynmsafety/ynmops/internal/scheduler"
	redis "github.com/redis/go-redis/v9"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("rate.limit",
	fx.Provide(NewRedisClient),
	fx.Provide(NewLocker),
	fx.Provide(NewWindowLimiterFromConfig),
	fx.Provide(NewLimiter),
	fx.Provide(newEvictJob),
)

func newEvictJob(window *WindowLimiter) scheduler.JobOut {
	return scheduler.EvictJob("rate_limit_windows", window.EvictExpired)
}

// NewRedisClient returns nil when Redis is not configured.
func NewRedisClient(cfg config.Config) *redis.Client {
	if !cfg.Redis.Enabled() {
		return nil
	}
	return redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
}

func NewWindowLimiterFromConfig(cfg config.Config, clk clock.Clock) *WindowLimiter {
	return NewWindowLimiter(cfg.RateLimit.Limit, cfg.RateLimit.Window, clk)
}

// NewLimiter picks the Redis token bucket when Redis is configured and the
// in-memory window limiter otherwise.
func NewLimiter(cfg config.Config, client *redis.Client, window *WindowLimiter, log *zap.Logger) Limiter {
	log = log.Named("ratelimit")
	switch {
	case !cfg.RateLimit.Enabled:
		log.Info("rate limiting disabled")
		return AllowAll()
	case client != nil:
		log.Info("using redis token bucket", zap.Float64("rate", cfg.RateLimit.Rate), zap.Int("burst", cfg.RateLimit.Burst))
		return NewTokenBucket(client, cfg.RateLimit.Rate, cfg.RateLimit.Burst)
	default:
		log.Info("using in-memory window limiter", zap.Int("limit", cfg.RateLimit.Limit), zap.Duration("window", cfg.RateLimit.Window))
		return window
	}
}
