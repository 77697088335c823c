package partner

import (
	"github.com/ynmsafety/ynmops/internal/partner/repository"
	"github.com/ynmsafety/ynmops/internal/partner/service"
	"go.uber.org/fx"
)

var Module = fx.Module("partner.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
