package controllers

import (
	"github.com/bionicotaku/lingo-services-hello/internal/infrastructure/configloader"
	"github.com/bionicotaku/lingo-services-hello/internal/manifest"
	"github.com/bionicotaku/lingo-services-hello/internal/services"

	"github.com/google/wire"
)

// ProviderSet exposes controller/handler constructors for DI.
var ProviderSet = wire.NewSet(
	ProvideBaseHandler,
	NewGreetingHandler,
	manifest.Load,
	NewManifestHandler,
	wire.Bind(new(GreetingService), new(*services.GreetingUsecase)),
)

// ProvideBaseHandler 基于配置中的超时策略构造 BaseHandler。
func ProvideBaseHandler(timeouts configloader.HandlerTimeouts) *BaseHandler {
	return NewBaseHandler(timeouts)
}
