package order

import (
	"github.com/ynmsafety/ynmops/internal/order/repository"
	"github.com/ynmsafety/ynmops/internal/order/service"
	"go.uber.org/fx"
)

var Module = fx.Module("order.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
