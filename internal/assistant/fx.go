package assistant

import (
	"time"

	"github.com/ynmsafety/ynmops/internal/cache"
	"github.com/ynmsafety/ynmops/internal/clock"
	"github.com/ynmsafety/ynmops/internal/config"
	"github.com/ynmsafety/ynmops/internal/observability/metrics"
	"github.com/ynmsafety/ynmops/internal/providers/delegate"
	"github.com/ynmsafety/ynmops/internal/scheduler"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("assistant",
	fx.Provide(newCatalogCache),
	fx.Provide(func(c *cache.TTLCache[string, []Document]) cache.Cache[string, []Document] { return c }),
	fx.Provide(fx.Annotate(catalogTTL, fx.ResultTags(`name:"assistant.catalogTTL"`))),
	fx.Provide(newCompleter),
	fx.Provide(New),
	fx.Provide(newEvictJob),
)

func newCatalogCache(clk clock.Clock) *cache.TTLCache[string, []Document] {
	return cache.NewTTLCache[string, []Document](clk)
}

func catalogTTL(cfg config.Config) time.Duration {
	return cfg.Cache.CatalogTTL
}

func newCompleter(cfg config.Config, m *metrics.Metrics, log *zap.Logger) Completer {
	if cfg.AssistantURL == "" {
		log.Named("assistant").Info("no completion backend configured, answering extractively")
		return ExtractiveCompleter{}
	}
	return NewHTTPCompleter(cfg.AssistantURL, delegate.New("assistant", cfg.HTTPClientTimeout, m))
}

func newEvictJob(c *cache.TTLCache[string, []Document]) scheduler.JobOut {
	return scheduler.EvictJob("catalog_cache", c.EvictExpired)
}
