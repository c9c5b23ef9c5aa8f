// Package telemetry 准备 HTTP 指标埋点：OpenTelemetry MeterProvider + Prometheus exporter。
package telemetry

import (
	"context"
	stdhttp "net/http"
	"time"

	"github.com/bionicotaku/lingo-services-hello/internal/infrastructure/configloader"
	"github.com/go-kratos/kratos/v2/log"
	kmetrics "github.com/go-kratos/kratos/v2/middleware/metrics"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	promexp "go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
)

const meterName = "lingo-services-hello"

// Telemetry bundles the shared metric instruments and registry.
type Telemetry struct {
	MeterProvider      *sdkmetric.MeterProvider
	RequestCounter     metric.Int64Counter
	SecondsHistogram   metric.Float64Histogram
	PrometheusRegistry *prometheus.Registry
	// PrometheusEnabled 决定是否在 HTTP 入口挂载 /metrics。
	PrometheusEnabled bool
}

// NewTelemetry prepares OpenTelemetry metrics instruments and a Prometheus exporter.
func NewTelemetry(cfg configloader.MetricsConfig, logger log.Logger) (*Telemetry, func(), error) {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}),
		prometheus.NewGoCollector(),
	)
	exporter, err := promexp.New(
		promexp.WithRegisterer(registry),
		promexp.WithoutUnits(),
	)
	if err != nil {
		return nil, nil, err
	}

	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(exporter),
		sdkmetric.WithView(kmetrics.DefaultSecondsHistogramView(kmetrics.DefaultServerSecondsHistogramName)),
	)
	otel.SetMeterProvider(mp)

	meter := mp.Meter(meterName)

	requestCounter, err := kmetrics.DefaultRequestsCounter(meter, kmetrics.DefaultServerRequestsCounterName)
	if err != nil {
		return nil, nil, err
	}
	secondsHistogram, err := kmetrics.DefaultSecondsHistogram(meter, kmetrics.DefaultServerSecondsHistogramName)
	if err != nil {
		return nil, nil, err
	}

	cleanup := func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := mp.Shutdown(ctx); err != nil {
			log.NewHelper(logger).Warnf("shutdown meter provider: %v", err)
		}
	}

	return &Telemetry{
		MeterProvider:      mp,
		RequestCounter:     requestCounter,
		SecondsHistogram:   secondsHistogram,
		PrometheusRegistry: registry,
		PrometheusEnabled:  cfg.PrometheusEnabled,
	}, cleanup, nil
}

// Meter 返回服务级 Meter，供后台任务注册自定义指标。
func (t *Telemetry) Meter(scope string) metric.Meter {
	if t == nil || t.MeterProvider == nil {
		return otel.GetMeterProvider().Meter(scope)
	}
	return t.MeterProvider.Meter(scope)
}

// Handler 返回 Prometheus 抓取端点。
func (t *Telemetry) Handler() stdhttp.Handler {
	return promhttp.HandlerFor(t.PrometheusRegistry, promhttp.HandlerOpts{})
}
