package telemetry

import "github.com/google/wire"

// ProviderSet 暴露指标组件。
var ProviderSet = wire.NewSet(NewTelemetry)
