package outbox

import (
	"github.com/bionicotaku/lingo-services-hello/internal/infrastructure/telemetry"
	"github.com/bionicotaku/lingo-services-hello/internal/repositories"

	"github.com/bionicotaku/lingo-utils/gcpubsub"
	outboxcfg "github.com/bionicotaku/lingo-utils/outbox/config"
	"github.com/go-kratos/kratos/v2/log"
	"github.com/google/wire"
)

// ProviderSet 暴露 Outbox 发布任务的构造器。
var ProviderSet = wire.NewSet(ProvideTask)

// ProvideTask 将共享仓储与 Pub/Sub 发布端包装为 Outbox 任务；未配置 topic 时返回 nil。
func ProvideTask(
	repo *repositories.OutboxRepository,
	publisher gcpubsub.Publisher,
	cfg outboxcfg.Config,
	tel *telemetry.Telemetry,
	logger log.Logger,
) *PublisherTask {
	if repo == nil || publisher == nil || logger == nil {
		return nil
	}
	task, err := NewPublisherTask(repo, publisher, cfg.Publisher, logger, tel.Meter("lingo-services-hello.outbox"))
	if err != nil {
		log.NewHelper(logger).Errorw("msg", "init outbox runner failed", "error", err)
		return nil
	}
	return task
}
