package insertgate

import (
	"github.com/ynmsafety/ynmops/internal/config"
	"github.com/ynmsafety/ynmops/internal/ratelimit"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("insertgate",
	fx.Provide(NewLocker),
	fx.Provide(New),
)

// NewLocker uses Redis when it is configured so replicas share the lock.
func NewLocker(cfg config.Config, redisLocker *ratelimit.Locker, log *zap.Logger) Locker {
	if redisLocker != nil {
		log.Named("insertgate").Info("using redis insert lock")
		return NewRedisLocker(redisLocker, cfg.Insert.LockTTL, cfg.Insert.LockWait, cfg.Insert.RetryPeriod)
	}
	return NewKeyedMutex()
}
