package outbox

import (
	"context"
	"errors"
	"io"
	"sync/atomic"
	"testing"
	"time"

	outboxcfg "github.com/bionicotaku/lingo-utils/outbox/config"
	"github.com/go-kratos/kratos/v2/log"
	"github.com/stretchr/testify/require"
)

type stubRunner struct {
	started atomic.Bool
	err     error
}

func (r *stubRunner) Run(ctx context.Context) error {
	r.started.Store(true)
	if r.err != nil {
		return r.err
	}
	<-ctx.Done()
	return ctx.Err()
}

func TestStartStop(t *testing.T) {
	runner := &stubRunner{}
	task := newPublisherTask(runner, log.NewStdLogger(io.Discard))

	errCh := make(chan error, 1)
	go func() { errCh <- task.Start(context.Background()) }()

	require.Eventually(t, runner.started.Load, time.Second, 5*time.Millisecond)
	require.Eventually(t, func() bool {
		task.mu.Lock()
		defer task.mu.Unlock()
		return task.cancel != nil
	}, time.Second, 5*time.Millisecond)

	// 重复启动被拒绝。
	require.Error(t, task.Start(context.Background()))

	stopCtx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, task.Stop(stopCtx))
	require.NoError(t, <-errCh, "context cancellation is a clean shutdown")
}

func TestStopBeforeStart(t *testing.T) {
	task := newPublisherTask(&stubRunner{}, log.NewStdLogger(io.Discard))
	require.NoError(t, task.Stop(context.Background()))
}

func TestRunPropagatesRunnerFailure(t *testing.T) {
	boom := errors.New("claim failed")
	task := newPublisherTask(&stubRunner{err: boom}, log.NewStdLogger(io.Discard))
	require.ErrorIs(t, task.Run(context.Background()), boom)
}

func TestRunNilTask(t *testing.T) {
	var task *PublisherTask
	require.NoError(t, task.Run(context.Background()))
}

func TestNewPublisherTaskRequiresDependencies(t *testing.T) {
	_, err := NewPublisherTask(nil, nil, Config{}, log.NewStdLogger(io.Discard), nil)
	require.ErrorContains(t, err, "repository is required")
}

func TestProvideTaskDisabledWithoutPublisher(t *testing.T) {
	require.Nil(t, ProvideTask(nil, nil, outboxcfg.Config{}, nil, log.NewStdLogger(io.Discard)))
}
