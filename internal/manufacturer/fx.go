package manufacturer

import (
	"github.com/ynmsafety/ynmops/internal/manufacturer/repository"
	"github.com/ynmsafety/ynmops/internal/manufacturer/service"
	"go.uber.org/fx"
)

var Module = fx.Module("manufacturer.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
