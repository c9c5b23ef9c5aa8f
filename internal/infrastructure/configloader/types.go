// Package configloader 负责加载配置文件与环境变量，并归一化为运行时使用的强类型配置。
package configloader

import "time"

// RuntimeConfig 聚合运行期所需的全部配置片段。
type RuntimeConfig struct {
	Server        ServerConfig
	Database      DatabaseConfig
	Messaging     MessagingConfig
	Observability ObservabilityConfig
	Service       ServiceMetadata
}

// ServerConfig 描述 HTTP 入口配置。
type ServerConfig struct {
	Network      string
	Address      string
	Timeout      time.Duration
	Handlers     HandlerTimeouts
	MetadataKeys []string
}

// HandlerTimeouts 描述不同类型 Handler 的超时策略。
type HandlerTimeouts struct {
	Default time.Duration
	Command time.Duration
	Query   time.Duration
}

// DatabaseConfig 描述 PostgreSQL 连接池配置。
type DatabaseConfig struct {
	DSN               string
	MaxOpenConns      int32
	MinOpenConns      int32
	MaxConnLifetime   time.Duration
	MaxConnIdleTime   time.Duration
	HealthCheckPeriod time.Duration
	Schema            string
	PreparedStmts     bool
	Transaction       TransactionConfig
}

// TransactionConfig 描述 txmanager 的默认事务策略。
type TransactionConfig struct {
	DefaultIsolation string
	DefaultTimeout   time.Duration
	LockTimeout      time.Duration
	MaxRetries       int
	MetricsEnabled   *bool
}

// MessagingConfig 聚合 Pub/Sub 与 Outbox 发布配置。
type MessagingConfig struct {
	PubSub PubSubConfig
	Outbox OutboxPublisherConfig
	// Schema 是 outbox_events 所在 schema，缺省与 data.postgres.schema 一致。
	Schema string
}

// PubSubConfig 描述 Google Pub/Sub 发布端配置。
type PubSubConfig struct {
	ProjectID          string
	TopicID            string
	OrderingKeyEnabled bool
	EmulatorEndpoint   string
}

// Enabled 判断是否配置了可用的发布目标。
func (c PubSubConfig) Enabled() bool {
	return c.ProjectID != "" && c.TopicID != ""
}

// OutboxPublisherConfig 描述 Outbox 发布任务的调度参数。
type OutboxPublisherConfig struct {
	BatchSize      int
	TickInterval   time.Duration
	InitialBackoff time.Duration
	MaxBackoff     time.Duration
	MaxAttempts    int
	PublishTimeout time.Duration
	Workers        int
	LockTTL        time.Duration
}

// ObservabilityConfig 描述追踪与指标导出配置。
type ObservabilityConfig struct {
	GlobalAttributes map[string]string
	Tracing          TracingConfig
	Metrics          MetricsConfig
}

// TracingConfig 描述追踪导出配置。
type TracingConfig struct {
	Enabled            bool
	Exporter           string
	Endpoint           string
	Headers            map[string]string
	Insecure           bool
	SamplingRatio      float64
	BatchTimeout       time.Duration
	ExportTimeout      time.Duration
	MaxQueueSize       int
	MaxExportBatchSize int
	Required           bool
	Attributes         map[string]string
}

// MetricsConfig 描述指标导出配置。
type MetricsConfig struct {
	Enabled             bool
	Exporter            string
	Endpoint            string
	Headers             map[string]string
	Insecure            bool
	Interval            time.Duration
	DisableRuntimeStats bool
	Required            bool
	ResourceAttributes  map[string]string
	// PrometheusEnabled 控制是否在 HTTP 入口暴露 /metrics。
	PrometheusEnabled bool
}

// ServiceMetadata 保存服务标识信息，供日志和可观测性组件使用。
type ServiceMetadata struct {
	Name        string
	Version     string
	Environment string
	InstanceID  string
}
