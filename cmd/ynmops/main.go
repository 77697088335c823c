package main

import (
	"github.com/ynmsafety/ynmops/internal/assistant"
	"github.com/ynmsafety/ynmops/internal/clock"
	"github.com/ynmsafety/ynmops/internal/config"
	"github.com/ynmsafety/ynmops/internal/insertgate"
	"github.com/ynmsafety/ynmops/internal/manufacturer"
	"github.com/ynmsafety/ynmops/internal/migration"
	"github.com/ynmsafety/ynmops/internal/observability"
	"github.com/ynmsafety/ynmops/internal/order"
	"github.com/ynmsafety/ynmops/internal/partner"
	"github.com/ynmsafety/ynmops/internal/product"
	"github.com/ynmsafety/ynmops/internal/providers"
	"github.com/ynmsafety/ynmops/internal/ratelimit"
	"github.com/ynmsafety/ynmops/internal/scheduler"
	"github.com/ynmsafety/ynmops/internal/server"
	"github.com/ynmsafety/ynmops/internal/task"
	"github.com/ynmsafety/ynmops/internal/transport"
	"github.com/ynmsafety/ynmops/pkg/db"
	"go.uber.org/fx"
)

func main() {
	app := fx.New(
		// Core infrastructure
		config.Module,
		observability.Module,
		clock.Module,
		db.Module,
		migration.Module,
		ratelimit.Module,
		insertgate.Module,
		providers.Module,

		// Domains
		product.Module,
		manufacturer.Module,
		order.Module,
		task.Module,
		partner.Module,
		transport.Module,
		assistant.Module,

		scheduler.Module,
		server.Module,
	)
	app.Run()
}
