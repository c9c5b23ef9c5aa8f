// Package logger 构造带 trace/span 关联字段的 Kratos 日志实例，底层输出为 Cloud Logging 兼容 JSON。
package logger

import (
	"context"

	"github.com/bionicotaku/lingo-services-hello/internal/infrastructure/configloader"
	gclog "github.com/bionicotaku/lingo-utils/gclog"

	"github.com/go-kratos/kratos/v2/log"
	"go.opentelemetry.io/otel/trace"
)

// NewLogger builds a Kratos-compatible logger with trace/span enrichment.
func NewLogger(meta configloader.ServiceMetadata) (log.Logger, error) {
	labels := map[string]string{}
	if meta.InstanceID != "" {
		labels["service.id"] = meta.InstanceID
	}
	baseLogger, err := gclog.NewLogger(
		gclog.WithService(meta.Name),
		gclog.WithVersion(meta.Version),
		gclog.WithEnvironment(meta.Environment),
		gclog.WithStaticLabels(labels),
		gclog.EnableSourceLocation(),
	)
	if err != nil {
		return nil, err
	}
	return WithTrace(baseLogger), nil
}

// WithTrace 为任意 logger 追加 trace_id / span_id 字段。
func WithTrace(base log.Logger) log.Logger {
	return log.With(
		base,
		"trace_id", log.Valuer(func(ctx context.Context) interface{} {
			sc := trace.SpanContextFromContext(ctx)
			if sc.HasTraceID() {
				return sc.TraceID().String()
			}
			return ""
		}),
		"span_id", log.Valuer(func(ctx context.Context) interface{} {
			sc := trace.SpanContextFromContext(ctx)
			if sc.HasSpanID() {
				return sc.SpanID().String()
			}
			return ""
		}),
	)
}
