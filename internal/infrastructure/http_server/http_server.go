// Package httpserver wires the inbound HTTP server and its middleware stack.
package httpserver

import (
	"context"
	"encoding/json"
	stdhttp "net/http"

	"github.com/bionicotaku/lingo-services-hello/internal/controllers"
	"github.com/bionicotaku/lingo-services-hello/internal/infrastructure/configloader"
	"github.com/bionicotaku/lingo-services-hello/internal/infrastructure/telemetry"

	obsTrace "github.com/bionicotaku/lingo-utils/observability/tracing"
	"github.com/go-kratos/kratos/v2/log"
	"github.com/go-kratos/kratos/v2/middleware"
	"github.com/go-kratos/kratos/v2/middleware/logging"
	"github.com/go-kratos/kratos/v2/middleware/metadata"
	"github.com/go-kratos/kratos/v2/middleware/metrics"
	"github.com/go-kratos/kratos/v2/middleware/ratelimit"
	"github.com/go-kratos/kratos/v2/middleware/recovery"
	"github.com/go-kratos/kratos/v2/transport/http"
)

// ReadinessChecker 报告下游依赖（数据库）是否可用。
type ReadinessChecker interface {
	Ready(ctx context.Context) error
}

// NewHTTPServer new an HTTP server.
func NewHTTPServer(
	c configloader.ServerConfig,
	tel *telemetry.Telemetry,
	greeting *controllers.GreetingHandler,
	manifest *controllers.ManifestHandler,
	readiness ReadinessChecker,
	logger log.Logger,
) *http.Server {
	chain := []middleware.Middleware{
		obsTrace.Server(),
		recovery.Recovery(),
		metadata.Server(
			metadata.WithPropagatedPrefix(c.MetadataKeys...),
		),
		ratelimit.Server(),
	}
	if tel != nil {
		chain = append(chain, metrics.Server(
			metrics.WithRequests(tel.RequestCounter),
			metrics.WithSeconds(tel.SecondsHistogram),
		))
	}
	chain = append(chain, logging.Server(logger))

	opts := []http.ServerOption{
		http.Middleware(chain...),
	}
	if c.Network != "" {
		opts = append(opts, http.Network(c.Network))
	}
	if c.Address != "" {
		opts = append(opts, http.Address(c.Address))
	}
	if c.Timeout > 0 {
		opts = append(opts, http.Timeout(c.Timeout))
	}

	srv := http.NewServer(opts...)

	srv.Handle("/healthz", stdhttp.HandlerFunc(func(w stdhttp.ResponseWriter, _ *stdhttp.Request) {
		w.WriteHeader(stdhttp.StatusOK)
	}))
	srv.Handle("/readyz", readyHandler(readiness, log.NewHelper(logger)))
	if tel != nil && tel.PrometheusEnabled {
		srv.Handle("/metrics", tel.Handler())
	}

	controllers.RegisterGreetingHTTPServer(srv, greeting)
	controllers.RegisterManifestHTTPServer(srv, manifest)
	return srv
}

func readyHandler(readiness ReadinessChecker, helper *log.Helper) stdhttp.Handler {
	return stdhttp.HandlerFunc(func(w stdhttp.ResponseWriter, r *stdhttp.Request) {
		status := map[string]string{"status": "ok"}
		code := stdhttp.StatusOK
		if readiness != nil {
			if err := readiness.Ready(r.Context()); err != nil {
				helper.WithContext(r.Context()).Warnf("readiness check failed: %v", err)
				// 错误细节只进日志，不回显给未鉴权的调用方。
				status = map[string]string{"status": "unavailable"}
				code = stdhttp.StatusServiceUnavailable
			}
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(code)
		_ = json.NewEncoder(w).Encode(status)
	})
}
