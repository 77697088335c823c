package extract

import (
	"github.com/ynmsafety/ynmops/internal/config"
	"github.com/ynmsafety/ynmops/internal/observability/metrics"
	"github.com/ynmsafety/ynmops/internal/providers/delegate"
	"go.uber.org/fx"
)

var Module = fx.Module("extract.provider",
	fx.Provide(New),
)

func New(cfg config.Config, m *metrics.Metrics) Client {
	return NewHTTPClient(cfg.ExtractorURL, delegate.New("extractor", cfg.HTTPClientTimeout, m))
}
