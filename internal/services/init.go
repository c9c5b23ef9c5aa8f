package services

import (
	"github.com/bionicotaku/lingo-services-hello/internal/repositories"
	"github.com/google/wire"
)

// ProviderSet 暴露用例构造器，并把具体 Repository 绑定到用例依赖的接口。
var ProviderSet = wire.NewSet(
	NewGreetingUsecase,
	wire.Bind(new(GreetingRepo), new(*repositories.GreetingRepository)),
	wire.Bind(new(GreetingOutboxWriter), new(*repositories.OutboxRepository)),
)
