package configloader

import (
	"encoding/json"
	"fmt"
	"time"
)

// bootstrapFile 对应 configs/config.yaml 的结构，由 Kratos config 扫描填充。
type bootstrapFile struct {
	Server        serverFile        `json:"server"`
	Data          dataFile          `json:"data"`
	Messaging     messagingFile     `json:"messaging"`
	Observability observabilityFile `json:"observability"`
}

type serverFile struct {
	HTTP struct {
		Network string   `json:"network"`
		Addr    string   `json:"addr"`
		Timeout Duration `json:"timeout"`
	} `json:"http"`
	Handlers struct {
		DefaultTimeout Duration `json:"default_timeout"`
		CommandTimeout Duration `json:"command_timeout"`
		QueryTimeout   Duration `json:"query_timeout"`
	} `json:"handlers"`
	MetadataKeys []string `json:"metadata_keys"`
}

type dataFile struct {
	Postgres postgresFile `json:"postgres"`
}

type postgresFile struct {
	DSN                      string   `json:"dsn"`
	MaxOpenConns             int32    `json:"max_open_conns"`
	MinOpenConns             int32    `json:"min_open_conns"`
	MaxConnLifetime          Duration `json:"max_conn_lifetime"`
	MaxConnIdleTime          Duration `json:"max_conn_idle_time"`
	HealthCheckPeriod        Duration `json:"health_check_period"`
	Schema                   string   `json:"schema"`
	EnablePreparedStatements bool     `json:"enable_prepared_statements"`
	Transaction              struct {
		DefaultIsolation string   `json:"default_isolation"`
		DefaultTimeout   Duration `json:"default_timeout"`
		LockTimeout      Duration `json:"lock_timeout"`
		MaxRetries       int      `json:"max_retries"`
		MetricsEnabled   *bool    `json:"metrics_enabled"`
	} `json:"transaction"`
}

type messagingFile struct {
	PubSub struct {
		ProjectID          string `json:"project_id"`
		TopicID            string `json:"topic_id"`
		OrderingKeyEnabled bool   `json:"ordering_key_enabled"`
		EmulatorEndpoint   string `json:"emulator_endpoint"`
	} `json:"pubsub"`
	Outbox struct {
		BatchSize      int      `json:"batch_size"`
		TickInterval   Duration `json:"tick_interval"`
		InitialBackoff Duration `json:"initial_backoff"`
		MaxBackoff     Duration `json:"max_backoff"`
		MaxAttempts    int      `json:"max_attempts"`
		PublishTimeout Duration `json:"publish_timeout"`
		Workers        int      `json:"workers"`
		LockTTL        Duration `json:"lock_ttl"`
	} `json:"outbox"`
}

type observabilityFile struct {
	GlobalAttributes map[string]string `json:"global_attributes"`
	Tracing          *struct {
		Enabled            bool              `json:"enabled"`
		Exporter           string            `json:"exporter"`
		Endpoint           string            `json:"endpoint"`
		Headers            map[string]string `json:"headers"`
		Insecure           bool              `json:"insecure"`
		SamplingRatio      float64           `json:"sampling_ratio"`
		BatchTimeout       Duration          `json:"batch_timeout"`
		ExportTimeout      Duration          `json:"export_timeout"`
		MaxQueueSize       int               `json:"max_queue_size"`
		MaxExportBatchSize int               `json:"max_export_batch_size"`
		Required           bool              `json:"required"`
		Attributes         map[string]string `json:"attributes"`
	} `json:"tracing"`
	Metrics *struct {
		Enabled             bool              `json:"enabled"`
		Exporter            string            `json:"exporter"`
		Endpoint            string            `json:"endpoint"`
		Headers             map[string]string `json:"headers"`
		Insecure            bool              `json:"insecure"`
		Interval            Duration          `json:"interval"`
		DisableRuntimeStats bool              `json:"disable_runtime_stats"`
		Required            bool              `json:"required"`
		ResourceAttributes  map[string]string `json:"resource_attributes"`
		PrometheusEnabled   *bool             `json:"prometheus_enabled"`
	} `json:"metrics"`
}

// Duration 支持 "1.5s" / "300ms" 形式的字符串，数值按秒解析。
type Duration time.Duration

// UnmarshalJSON 实现 json.Unmarshaler。
func (d *Duration) UnmarshalJSON(b []byte) error {
	var raw any
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	switch v := raw.(type) {
	case nil:
		*d = 0
	case float64:
		*d = Duration(time.Duration(v * float64(time.Second)))
	case string:
		if v == "" {
			*d = 0
			return nil
		}
		parsed, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid duration %q: %w", v, err)
		}
		*d = Duration(parsed)
	default:
		return fmt.Errorf("invalid duration value %v", v)
	}
	return nil
}

// Std 转换为 time.Duration。
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}
