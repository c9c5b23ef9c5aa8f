package telemetry_test

import (
	"context"
	"io"
	stdhttp "net/http"
	"net/http/httptest"
	"testing"

	"github.com/bionicotaku/lingo-services-hello/internal/infrastructure/configloader"
	"github.com/bionicotaku/lingo-services-hello/internal/infrastructure/telemetry"
	"github.com/go-kratos/kratos/v2/log"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

func TestTelemetry_ExposesRequestCounter(t *testing.T) {
	tel, cleanup, err := telemetry.NewTelemetry(configloader.MetricsConfig{PrometheusEnabled: true}, log.NewStdLogger(io.Discard))
	require.NoError(t, err)
	t.Cleanup(cleanup)
	require.True(t, tel.PrometheusEnabled)

	tel.RequestCounter.Add(context.Background(), 1, metric.WithAttributes(
		attribute.String("kind", "http"),
		attribute.String("operation", "/hello.v1.Greetings/Create"),
		attribute.Int("code", 200),
	))

	rec := httptest.NewRecorder()
	tel.Handler().ServeHTTP(rec, httptest.NewRequest(stdhttp.MethodGet, "/metrics", nil))
	require.Equal(t, stdhttp.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "server_requests_code_total")
	require.Contains(t, rec.Body.String(), "go_goroutines")
}
