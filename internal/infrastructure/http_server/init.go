package httpserver

import (
	"github.com/bionicotaku/lingo-services-hello/internal/infrastructure/database"

	"github.com/google/wire"
)

// ProviderSet bundles the HTTP server provider for Wire.
var ProviderSet = wire.NewSet(
	NewHTTPServer,
	wire.Bind(new(ReadinessChecker), new(*database.ReadinessChecker)),
)
