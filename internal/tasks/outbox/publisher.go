// Package outbox 把 lingo-utils Outbox Runner 挂到 Kratos 应用生命周期上，
// 周期性地将 hello.outbox_events 中的待发布事件推送到 Pub/Sub。
package outbox

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/bionicotaku/lingo-services-hello/internal/repositories"

	"github.com/bionicotaku/lingo-utils/gcpubsub"
	outboxcfg "github.com/bionicotaku/lingo-utils/outbox/config"
	outboxpublisher "github.com/bionicotaku/lingo-utils/outbox/publisher"
	"github.com/go-kratos/kratos/v2/log"
	"go.opentelemetry.io/otel/metric"
)

// Config 直接复用共享发布器配置。
type Config = outboxcfg.PublisherConfig

// Runner 是共享发布循环的最小行为，*outboxpublisher.Runner 满足该接口。
type Runner interface {
	Run(ctx context.Context) error
}

// PublisherTask 将 Runner 适配为 transport.Server。
type PublisherTask struct {
	runner Runner
	log    *log.Helper

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

// NewPublisherTask 基于共享 store 与 Pub/Sub 发布端构造 Outbox 发布任务。
func NewPublisherTask(repo *repositories.OutboxRepository, pub gcpubsub.Publisher, cfg Config, logger log.Logger, meter metric.Meter) (*PublisherTask, error) {
	if repo == nil {
		return nil, errors.New("outbox: repository is required")
	}
	if pub == nil {
		return nil, errors.New("outbox: publisher is required")
	}
	runner, err := outboxpublisher.NewRunner(outboxpublisher.RunnerParams{
		Store:     repo.Shared(),
		Publisher: pub,
		Config:    cfg,
		Logger:    logger,
		Meter:     meter,
	})
	if err != nil {
		return nil, fmt.Errorf("outbox: init runner: %w", err)
	}
	return newPublisherTask(runner, logger), nil
}

func newPublisherTask(runner Runner, logger log.Logger) *PublisherTask {
	return &PublisherTask{
		runner: runner,
		log:    log.NewHelper(log.With(logger, "module", "task.outbox")),
	}
}

// Run 阻塞执行发布循环，ctx 取消视为正常退出。
func (t *PublisherTask) Run(ctx context.Context) error {
	if t == nil || t.runner == nil {
		return nil
	}
	t.log.WithContext(ctx).Info("outbox publisher started")
	err := t.runner.Run(ctx)
	if err != nil && !errors.Is(err, context.Canceled) {
		t.log.WithContext(ctx).Errorf("outbox publisher exited: %v", err)
		return err
	}
	t.log.Info("outbox publisher stopped")
	return nil
}

// Start 实现 transport.Server，阻塞运行直到 Stop 或 ctx 取消。
func (t *PublisherTask) Start(ctx context.Context) error {
	t.mu.Lock()
	if t.cancel != nil {
		t.mu.Unlock()
		return errors.New("outbox: publisher task already started")
	}
	runCtx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	t.cancel = cancel
	t.done = done
	t.mu.Unlock()

	defer close(done)
	return t.Run(runCtx)
}

// Stop 取消发布循环并等待其退出。
func (t *PublisherTask) Stop(ctx context.Context) error {
	t.mu.Lock()
	cancel, done := t.cancel, t.done
	t.mu.Unlock()
	if cancel == nil {
		return nil
	}
	cancel()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
