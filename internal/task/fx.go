package task

import (
	"github.com/ynmsafety/ynmops/internal/task/repository"
	"github.com/ynmsafety/ynmops/internal/task/service"
	"go.uber.org/fx"
)

var Module = fx.Module("task.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
