// Package messaging 基于 lingo-utils gcpubsub 构造 Outbox 发布器使用的 Pub/Sub 发布端。
package messaging

import (
	"context"

	"github.com/bionicotaku/lingo-services-hello/internal/infrastructure/configloader"

	"github.com/bionicotaku/lingo-utils/gcpubsub"
	"github.com/go-kratos/kratos/v2/log"
)

// ComponentConfig 将运行时配置映射为 gcpubsub.Config。
func ComponentConfig(cfg configloader.PubSubConfig, meterName string) gcpubsub.Config {
	ordering := cfg.OrderingKeyEnabled
	enableLogging := true
	enableMetrics := true
	return gcpubsub.Config{
		ProjectID:          cfg.ProjectID,
		TopicID:            cfg.TopicID,
		OrderingKeyEnabled: &ordering,
		EnableLogging:      &enableLogging,
		EnableMetrics:      &enableMetrics,
		MeterName:          meterName,
		EmulatorEndpoint:   cfg.EmulatorEndpoint,
	}
}

// NewPublisher 构造 gcpubsub 组件并返回发布端；未配置 topic 时返回 nil，Outbox 发布随之关闭。
func NewPublisher(ctx context.Context, cfg configloader.PubSubConfig, meta configloader.ServiceMetadata, logger log.Logger) (gcpubsub.Publisher, func(), error) {
	if !cfg.Enabled() {
		log.NewHelper(logger).Info("pubsub topic not configured, outbox publishing disabled")
		return nil, func() {}, nil
	}
	component, cleanup, err := gcpubsub.NewComponent(ctx, ComponentConfig(cfg, meta.Name+".gcpubsub"), gcpubsub.Dependencies{
		Logger: logger,
	})
	if err != nil {
		return nil, nil, err
	}
	return gcpubsub.ProvidePublisher(component), cleanup, nil
}
