package configloader

import (
	obswire "github.com/bionicotaku/lingo-utils/observability"
	outboxcfg "github.com/bionicotaku/lingo-utils/outbox/config"
	"github.com/bionicotaku/lingo-utils/txmanager"
	"github.com/google/wire"
)

// ProviderSet exposes configuration-derived dependencies for Wire graphs.
var ProviderSet = wire.NewSet(
	ProvideServerConfig,
	ProvideHandlerTimeouts,
	ProvideDatabaseConfig,
	ProvideTxConfig,
	ProvideMessagingConfig,
	ProvidePubSubConfig,
	ProvideOutboxConfig,
	ProvideMetricsConfig,
	ProvideObservabilityConfig,
	ProvideServiceMetadata,
)

// ProvideServerConfig returns the HTTP server section.
func ProvideServerConfig(rc RuntimeConfig) ServerConfig { return rc.Server }

// ProvideHandlerTimeouts returns handler timeout policy.
func ProvideHandlerTimeouts(rc RuntimeConfig) HandlerTimeouts { return rc.Server.Handlers }

// ProvideDatabaseConfig returns the PostgreSQL section.
func ProvideDatabaseConfig(rc RuntimeConfig) DatabaseConfig { return rc.Database }

// ProvideMessagingConfig returns the messaging section.
func ProvideMessagingConfig(rc RuntimeConfig) MessagingConfig { return rc.Messaging }

// ProvidePubSubConfig returns the Pub/Sub publisher section.
func ProvidePubSubConfig(rc RuntimeConfig) PubSubConfig { return rc.Messaging.PubSub }

// ProvideOutboxConfig 转换为 lingo-utils outbox 的配置结构（schema + 发布器参数）。
func ProvideOutboxConfig(rc RuntimeConfig) outboxcfg.Config {
	ob := rc.Messaging.Outbox
	return outboxcfg.Config{
		Schema: rc.Messaging.Schema,
		Publisher: outboxcfg.PublisherConfig{
			BatchSize:      ob.BatchSize,
			TickInterval:   ob.TickInterval,
			InitialBackoff: ob.InitialBackoff,
			MaxBackoff:     ob.MaxBackoff,
			MaxAttempts:    ob.MaxAttempts,
			PublishTimeout: ob.PublishTimeout,
			Workers:        ob.Workers,
			LockTTL:        ob.LockTTL,
		},
	}
}

// ProvideMetricsConfig returns the metrics section.
func ProvideMetricsConfig(rc RuntimeConfig) MetricsConfig { return rc.Observability.Metrics }

// ProvideServiceMetadata returns resolved service identity.
func ProvideServiceMetadata(rc RuntimeConfig) ServiceMetadata { return rc.Service }

// ProvideTxConfig 将事务配置转换为 txmanager.Config。
func ProvideTxConfig(rc RuntimeConfig) txmanager.Config {
	tx := rc.Database.Transaction
	return txmanager.Config{
		DefaultIsolation: tx.DefaultIsolation,
		DefaultTimeout:   tx.DefaultTimeout,
		LockTimeout:      tx.LockTimeout,
		MaxRetries:       tx.MaxRetries,
		MetricsEnabled:   tx.MetricsEnabled,
	}
}

// ProvideObservabilityConfig 转换为 lingo-utils observability 的配置结构。
func ProvideObservabilityConfig(rc RuntimeConfig) obswire.ObservabilityConfig {
	c := rc.Observability
	cfg := obswire.ObservabilityConfig{
		GlobalAttributes: mapCopy(c.GlobalAttributes),
	}
	if c.Tracing.Enabled {
		cfg.Tracing = &obswire.TracingConfig{
			Enabled:            c.Tracing.Enabled,
			Exporter:           c.Tracing.Exporter,
			Endpoint:           c.Tracing.Endpoint,
			Headers:            mapCopy(c.Tracing.Headers),
			Insecure:           c.Tracing.Insecure,
			SamplingRatio:      c.Tracing.SamplingRatio,
			BatchTimeout:       c.Tracing.BatchTimeout,
			ExportTimeout:      c.Tracing.ExportTimeout,
			MaxQueueSize:       c.Tracing.MaxQueueSize,
			MaxExportBatchSize: c.Tracing.MaxExportBatchSize,
			Required:           c.Tracing.Required,
			Attributes:         mapCopy(c.Tracing.Attributes),
		}
	}
	if c.Metrics.Enabled {
		cfg.Metrics = &obswire.MetricsConfig{
			Enabled:             c.Metrics.Enabled,
			Exporter:            c.Metrics.Exporter,
			Endpoint:            c.Metrics.Endpoint,
			Headers:             mapCopy(c.Metrics.Headers),
			Insecure:            c.Metrics.Insecure,
			Interval:            c.Metrics.Interval,
			DisableRuntimeStats: c.Metrics.DisableRuntimeStats,
			Required:            c.Metrics.Required,
			ResourceAttributes:  mapCopy(c.Metrics.ResourceAttributes),
		}
	}
	return cfg
}
