//go:build wireinject
// +build wireinject

// The build tag makes sure the stub is not built in the final build.

package main

import (
	"context"

	"github.com/bionicotaku/lingo-services-hello/internal/controllers"
	"github.com/bionicotaku/lingo-services-hello/internal/infrastructure/configloader"
	"github.com/bionicotaku/lingo-services-hello/internal/infrastructure/database"
	httpserver "github.com/bionicotaku/lingo-services-hello/internal/infrastructure/http_server"
	"github.com/bionicotaku/lingo-services-hello/internal/infrastructure/messaging"
	"github.com/bionicotaku/lingo-services-hello/internal/infrastructure/telemetry"
	"github.com/bionicotaku/lingo-services-hello/internal/repositories"
	"github.com/bionicotaku/lingo-services-hello/internal/services"
	"github.com/bionicotaku/lingo-services-hello/internal/tasks/outbox"

	"github.com/go-kratos/kratos/v2"
	"github.com/go-kratos/kratos/v2/log"
	"github.com/google/wire"
)

// wireApp init kratos application.
func wireApp(context.Context, configloader.RuntimeConfig, log.Logger) (*kratos.App, func(), error) {
	panic(wire.Build(
		configloader.ProviderSet,
		telemetry.ProviderSet,
		database.ProviderSet,
		messaging.ProviderSet,
		repositories.ProviderSet,
		services.ProviderSet,
		controllers.ProviderSet,
		httpserver.ProviderSet,
		outbox.ProviderSet,
		newApp,
	))
}
