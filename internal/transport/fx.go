package transport

import (
	"github.com/ynmsafety/ynmops/internal/cache"
	"github.com/ynmsafety/ynmops/internal/clock"
	"github.com/ynmsafety/ynmops/internal/config"
	"github.com/ynmsafety/ynmops/internal/observability/metrics"
	"github.com/ynmsafety/ynmops/internal/providers/delegate"
	"github.com/ynmsafety/ynmops/internal/scheduler"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("transport",
	fx.Provide(newGeocodeCache),
	fx.Provide(newGeocoder),
	fx.Provide(newRouter),
	fx.Provide(NewEstimator),
	fx.Provide(newEvictJob),
)

// roadDetour converts straight-line distance to an approximate road distance.
const roadDetour = 1.3

func newGeocodeCache(clk clock.Clock) *cache.TTLCache[string, Point] {
	return cache.NewTTLCache[string, Point](clk)
}

func newGeocoder(cfg config.Config, c *cache.TTLCache[string, Point], m *metrics.Metrics) Geocoder {
	client := delegate.New("geocoder", cfg.HTTPClientTimeout, m)
	return NewCachedGeocoder(NewHTTPGeocoder(cfg.GeocoderURL, client), c, cfg.Cache.GeocodeTTL)
}

func newRouter(cfg config.Config, m *metrics.Metrics, log *zap.Logger) Router {
	if cfg.RouterURL == "" {
		log.Named("transport").Info("no router configured, using great-circle distance", zap.Float64("detour_factor", roadDetour))
		return GreatCircleRouter{DetourFactor: roadDetour}
	}
	return NewHTTPRouter(cfg.RouterURL, delegate.New("router", cfg.HTTPClientTimeout, m))
}

func newEvictJob(c *cache.TTLCache[string, Point]) scheduler.JobOut {
	return scheduler.EvictJob("geocode_cache", c.EvictExpired)
}
