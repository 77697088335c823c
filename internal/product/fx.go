package product

import (
	"github.com/ynmsafety/ynmops/internal/product/repository"
	"github.com/ynmsafety/ynmops/internal/product/service"
	"go.uber.org/fx"
)

var Module = fx.Module("product.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
