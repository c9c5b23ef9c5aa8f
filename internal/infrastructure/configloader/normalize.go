package configloader

func fromFile(b *bootstrapFile) RuntimeConfig {
	if b == nil {
		return RuntimeConfig{}
	}
	return RuntimeConfig{
		Server:        serverFromFile(b.Server),
		Database:      databaseFromFile(b.Data.Postgres),
		Messaging:     messagingFromFile(b.Messaging, b.Data.Postgres),
		Observability: observabilityFromFile(b.Observability),
	}
}

func serverFromFile(s serverFile) ServerConfig {
	return ServerConfig{
		Network: s.HTTP.Network,
		Address: s.HTTP.Addr,
		Timeout: s.HTTP.Timeout.Std(),
		Handlers: HandlerTimeouts{
			Default: s.Handlers.DefaultTimeout.Std(),
			Command: s.Handlers.CommandTimeout.Std(),
			Query:   s.Handlers.QueryTimeout.Std(),
		},
		MetadataKeys: append([]string(nil), s.MetadataKeys...),
	}
}

func databaseFromFile(pg postgresFile) DatabaseConfig {
	return DatabaseConfig{
		DSN:               pg.DSN,
		MaxOpenConns:      pg.MaxOpenConns,
		MinOpenConns:      pg.MinOpenConns,
		MaxConnLifetime:   pg.MaxConnLifetime.Std(),
		MaxConnIdleTime:   pg.MaxConnIdleTime.Std(),
		HealthCheckPeriod: pg.HealthCheckPeriod.Std(),
		Schema:            pg.Schema,
		PreparedStmts:     pg.EnablePreparedStatements,
		Transaction: TransactionConfig{
			DefaultIsolation: pg.Transaction.DefaultIsolation,
			DefaultTimeout:   pg.Transaction.DefaultTimeout.Std(),
			LockTimeout:      pg.Transaction.LockTimeout.Std(),
			MaxRetries:       pg.Transaction.MaxRetries,
			MetricsEnabled:   pg.Transaction.MetricsEnabled,
		},
	}
}

func messagingFromFile(msg messagingFile, pg postgresFile) MessagingConfig {
	return MessagingConfig{
		PubSub: PubSubConfig{
			ProjectID:          msg.PubSub.ProjectID,
			TopicID:            msg.PubSub.TopicID,
			OrderingKeyEnabled: msg.PubSub.OrderingKeyEnabled,
			EmulatorEndpoint:   msg.PubSub.EmulatorEndpoint,
		},
		Outbox: OutboxPublisherConfig{
			BatchSize:      msg.Outbox.BatchSize,
			TickInterval:   msg.Outbox.TickInterval.Std(),
			InitialBackoff: msg.Outbox.InitialBackoff.Std(),
			MaxBackoff:     msg.Outbox.MaxBackoff.Std(),
			MaxAttempts:    msg.Outbox.MaxAttempts,
			PublishTimeout: msg.Outbox.PublishTimeout.Std(),
			Workers:        msg.Outbox.Workers,
			LockTTL:        msg.Outbox.LockTTL.Std(),
		},
		Schema: pg.Schema,
	}
}

func observabilityFromFile(obs observabilityFile) ObservabilityConfig {
	cfg := ObservabilityConfig{
		GlobalAttributes: mapCopy(obs.GlobalAttributes),
	}
	if t := obs.Tracing; t != nil {
		cfg.Tracing = TracingConfig{
			Enabled:            t.Enabled,
			Exporter:           t.Exporter,
			Endpoint:           t.Endpoint,
			Headers:            mapCopy(t.Headers),
			Insecure:           t.Insecure,
			SamplingRatio:      t.SamplingRatio,
			BatchTimeout:       t.BatchTimeout.Std(),
			ExportTimeout:      t.ExportTimeout.Std(),
			MaxQueueSize:       t.MaxQueueSize,
			MaxExportBatchSize: t.MaxExportBatchSize,
			Required:           t.Required,
			Attributes:         mapCopy(t.Attributes),
		}
	}
	cfg.Metrics.PrometheusEnabled = true
	if m := obs.Metrics; m != nil {
		cfg.Metrics = MetricsConfig{
			Enabled:             m.Enabled,
			Exporter:            m.Exporter,
			Endpoint:            m.Endpoint,
			Headers:             mapCopy(m.Headers),
			Insecure:            m.Insecure,
			Interval:            m.Interval.Std(),
			DisableRuntimeStats: m.DisableRuntimeStats,
			Required:            m.Required,
			ResourceAttributes:  mapCopy(m.ResourceAttributes),
			PrometheusEnabled:   true,
		}
		if m.PrometheusEnabled != nil {
			cfg.Metrics.PrometheusEnabled = *m.PrometheusEnabled
		}
	}
	return cfg
}

func mapCopy(src map[string]string) map[string]string {
	if len(src) == 0 {
		return nil
	}
	dst := make(map[string]string, len(src))
	for k, v := range src {
		dst[k] = v
	}
	return dst
}

// fillDefaults 为缺省字段填充默认值。
func fillDefaults(cfg *RuntimeConfig) {
	if cfg.Server.Address == "" {
		cfg.Server.Address = defaultHTTPAddr
	}
	if cfg.Server.Handlers.Command <= 0 {
		cfg.Server.Handlers.Command = defaultCommandTimeout
	}
	if cfg.Server.Handlers.Query <= 0 {
		cfg.Server.Handlers.Query = defaultQueryTimeout
	}
	if cfg.Server.Handlers.Default <= 0 {
		cfg.Server.Handlers.Default = cfg.Server.Handlers.Command
	}
	if len(cfg.Server.MetadataKeys) == 0 {
		cfg.Server.MetadataKeys = append([]string(nil), defaultMetadataKeys...)
	}
	if cfg.Database.Schema == "" {
		cfg.Database.Schema = defaultSchema
	}
	if cfg.Messaging.Schema == "" {
		cfg.Messaging.Schema = cfg.Database.Schema
	}

	ob := &cfg.Messaging.Outbox
	if ob.BatchSize <= 0 {
		ob.BatchSize = defaultOutboxBatchSize
	}
	if ob.TickInterval <= 0 {
		ob.TickInterval = defaultOutboxTickInterval
	}
	if ob.InitialBackoff <= 0 {
		ob.InitialBackoff = defaultOutboxInitialBackoff
	}
	if ob.MaxBackoff <= 0 {
		ob.MaxBackoff = defaultOutboxMaxBackoff
	}
	if ob.MaxBackoff < ob.InitialBackoff {
		ob.MaxBackoff = ob.InitialBackoff
	}
	if ob.MaxAttempts <= 0 {
		ob.MaxAttempts = defaultOutboxMaxAttempts
	}
	if ob.PublishTimeout <= 0 {
		ob.PublishTimeout = defaultOutboxPublishTimeout
	}
	if ob.Workers <= 0 {
		ob.Workers = defaultOutboxWorkers
	}
	if ob.LockTTL <= 0 {
		ob.LockTTL = defaultOutboxLockTTL
	}
}
