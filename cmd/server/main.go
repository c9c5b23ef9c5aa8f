// Package main boots the Kratos HTTP entrypoint and the outbox publisher of the hello service.
package main

import (
	"context"
	"flag"
	"os"
	"time"

	"github.com/bionicotaku/lingo-services-hello/internal/infrastructure/configloader"
	loginfra "github.com/bionicotaku/lingo-services-hello/internal/infrastructure/logger"
	"github.com/bionicotaku/lingo-services-hello/internal/tasks/outbox"

	"github.com/bionicotaku/lingo-utils/observability"
	"github.com/go-kratos/kratos/v2"
	"github.com/go-kratos/kratos/v2/log"
	"github.com/go-kratos/kratos/v2/transport"
	"github.com/go-kratos/kratos/v2/transport/http"

	_ "go.uber.org/automaxprocs"
)

// go build -ldflags "-X main.Version=x.y.z"
var (
	// Name is the name of the compiled software.
	Name string
	// Version is the version of the compiled software.
	Version string
)

func newApp(logger log.Logger, hs *http.Server, task *outbox.PublisherTask, meta configloader.ServiceMetadata) *kratos.App {
	servers := []transport.Server{hs}
	if task != nil {
		servers = append(servers, task)
	}
	return kratos.New(
		kratos.ID(meta.InstanceID),
		kratos.Name(meta.Name),
		kratos.Version(meta.Version),
		kratos.Metadata(map[string]string{"environment": meta.Environment}),
		kratos.Logger(logger),
		kratos.Server(servers...),
	)
}

func main() {
	// Parse command-line flags (currently only -conf).
	fs := flag.NewFlagSet(os.Args[0], flag.ExitOnError)
	confPath, err := configloader.ParseConfPath(fs, os.Args[1:])
	if err != nil {
		panic(err)
	}

	// Load config file, .env and environment overrides into the runtime config.
	rc, err := configloader.Load(configloader.Params{ConfPath: confPath, Name: Name, Version: Version})
	if err != nil {
		panic(err)
	}

	loggr, err := loginfra.NewLogger(rc.Service)
	if err != nil {
		panic(err)
	}

	obsShutdown, err := observability.Init(context.Background(), configloader.ProvideObservabilityConfig(rc),
		observability.WithLogger(loggr),
		observability.WithServiceName(rc.Service.Name),
		observability.WithServiceVersion(rc.Service.Version),
		observability.WithEnvironment(rc.Service.Environment),
	)
	if err != nil {
		panic(err)
	}
	defer func() {
		if obsShutdown == nil {
			return
		}
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := obsShutdown(ctx); err != nil {
			log.NewHelper(loggr).Warnf("shutdown observability: %v", err)
		}
	}()

	app, cleanupApp, err := wireApp(context.Background(), rc, loggr)
	if err != nil {
		panic(err)
	}
	defer cleanupApp()

	// Start the application and block until a stop signal is received.
	if err := app.Run(); err != nil {
		panic(err)
	}
}
