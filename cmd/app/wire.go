//go:build wireinject
// +build wireinject

package main

import (
	"handwriting/config"
	"handwriting/internal/command"
	"handwriting/internal/cron"
	"handwriting/internal/database"
	"handwriting/internal/handler"
	"handwriting/internal/middleware"
	"handwriting/internal/router"
	"handwriting/internal/service"
	"handwriting/internal/telemetry"

	"github.com/google/wire"
	"go.uber.org/zap"
)

// wireApp init application.
func wireApp(*config.Configuration, *zap.Logger) (*App, func(), error) {
	panic(
		wire.Build(
			database.ProviderSet,
			service.ProviderSet,
			handler.ProviderSet,
			middleware.ProviderSet,
			router.ProviderSet,
			cron.ProviderSet,
			newHttpServer,
			newHttpClient,
			telemetry.ProviderSet,
			newApp,
		),
	)
}

// wireCommand init command.
func wireCommand(*config.Configuration, *zap.Logger) (*command.Command, func(), error) {
	panic(
		wire.Build(
			database.ProviderSet,
			service.ProviderSet,
			telemetry.ProviderSet,
			newHttpClient,
			command.ProviderSet,
		),
	)
}
