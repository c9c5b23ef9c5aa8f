package repositories_test

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	outboxevents "github.com/bionicotaku/lingo-services-hello/internal/models/outbox_events"
	"github.com/bionicotaku/lingo-services-hello/internal/models/po"
	"github.com/bionicotaku/lingo-services-hello/internal/repositories"
	"github.com/bionicotaku/lingo-services-hello/internal/testsupport"
	outboxcfg "github.com/bionicotaku/lingo-utils/outbox/config"
	"github.com/bionicotaku/lingo-utils/txmanager"
	"github.com/go-kratos/kratos/v2/log"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestGreetingRepository_CRUD(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	pool := testsupport.NewMigratedPool(ctx, t)
	repo := repositories.NewGreetingRepository(pool, log.NewStdLogger(io.Discard))

	created, err := repo.Create(ctx, nil, repositories.CreateGreetingInput{
		Name:    "Ada",
		Message: po.DefaultGreetingMessage,
	})
	require.NoError(t, err)
	require.NotEqual(t, uuid.Nil, created.ID)
	require.Equal(t, "Ada", created.Name)
	require.Equal(t, "Hello, World!", created.Message)
	require.False(t, created.IsPublished)
	require.Equal(t, "Hello, Ada!", created.DisplayName())
	require.False(t, created.CreatedAt.IsZero())

	found, err := repo.FindByID(ctx, nil, created.ID)
	require.NoError(t, err)
	require.Equal(t, created.ID, found.ID)

	newName := "Grace"
	published := true
	updated, err := repo.Update(ctx, nil, repositories.UpdateGreetingInput{
		GreetingID:  created.ID,
		Name:        &newName,
		IsPublished: &published,
	})
	require.NoError(t, err)
	require.Equal(t, "Grace", updated.Name)
	require.Equal(t, "Hello, World!", updated.Message)
	require.True(t, updated.IsPublished)
	require.Equal(t, "Hello, Grace!", updated.DisplayName())
	require.False(t, updated.UpdatedAt.Before(created.UpdatedAt))

	deleted, err := repo.Delete(ctx, nil, created.ID)
	require.NoError(t, err)
	require.Equal(t, "Grace", deleted.Name)

	_, err = repo.FindByID(ctx, nil, created.ID)
	require.ErrorIs(t, err, repositories.ErrGreetingNotFound)
	_, err = repo.Update(ctx, nil, repositories.UpdateGreetingInput{GreetingID: created.ID, Name: &newName})
	require.ErrorIs(t, err, repositories.ErrGreetingNotFound)
	_, err = repo.Delete(ctx, nil, created.ID)
	require.ErrorIs(t, err, repositories.ErrGreetingNotFound)
}

func TestGreetingRepository_RejectsBlankName(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	pool := testsupport.NewMigratedPool(ctx, t)
	repo := repositories.NewGreetingRepository(pool, log.NewStdLogger(io.Discard))

	_, err := repo.Create(ctx, nil, repositories.CreateGreetingInput{Name: "   ", Message: "x"})
	require.Error(t, err)

	list, err := repo.List(ctx, nil, repositories.ListGreetingsFilter{Limit: 10})
	require.NoError(t, err)
	require.Empty(t, list)
}

func TestGreetingRepository_ListFilters(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	pool := testsupport.NewMigratedPool(ctx, t)
	repo := repositories.NewGreetingRepository(pool, log.NewStdLogger(io.Discard))

	for _, in := range []repositories.CreateGreetingInput{
		{Name: "alpha", Message: "m", IsPublished: true},
		{Name: "alpine", Message: "m"},
		{Name: "beta", Message: "m", IsPublished: true},
		{Name: "50%_off", Message: "m"},
	} {
		_, err := repo.Create(ctx, nil, in)
		require.NoError(t, err)
	}

	all, err := repo.List(ctx, nil, repositories.ListGreetingsFilter{})
	require.NoError(t, err)
	require.Len(t, all, 4)
	require.Equal(t, "50%_off", all[0].Name, "newest first")

	published := true
	pub, err := repo.List(ctx, nil, repositories.ListGreetingsFilter{Published: &published, Limit: 10})
	require.NoError(t, err)
	require.Len(t, pub, 2)

	prefixed, err := repo.List(ctx, nil, repositories.ListGreetingsFilter{NamePrefix: "ALP", Limit: 10})
	require.NoError(t, err)
	require.Len(t, prefixed, 2)

	literal, err := repo.List(ctx, nil, repositories.ListGreetingsFilter{NamePrefix: "50%_", Limit: 10})
	require.NoError(t, err)
	require.Len(t, literal, 1)

	page, err := repo.List(ctx, nil, repositories.ListGreetingsFilter{Limit: 1, Offset: 1})
	require.NoError(t, err)
	require.Len(t, page, 1)
	require.Equal(t, "beta", page[0].Name)
}

func TestOutboxRepository_EnqueueCommitsWithTransaction(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	pool := testsupport.NewMigratedPool(ctx, t)
	logger := log.NewStdLogger(io.Discard)
	outboxRepo := repositories.NewOutboxRepository(pool, logger, outboxcfg.Config{Schema: "hello"})
	require.NotNil(t, outboxRepo.Shared())

	txMgr, err := txmanager.NewManager(pool, txmanager.Config{}, txmanager.Dependencies{Logger: logger})
	require.NoError(t, err)

	committedID := uuid.New()
	err = txMgr.WithinTx(ctx, txmanager.TxOptions{}, func(txCtx context.Context, sess txmanager.Session) error {
		return outboxRepo.Enqueue(txCtx, sess, repositories.OutboxMessage{
			EventID:       committedID,
			AggregateType: outboxevents.AggregateTypeGreeting,
			AggregateID:   uuid.New(),
			EventType:     "hello.greeting.created",
			Payload:       []byte{0x01, 0x02},
			Headers:       map[string]string{"event_type": "hello.greeting.created"},
		})
	})
	require.NoError(t, err)

	rolledBackID := uuid.New()
	boom := errors.New("rollback")
	err = txMgr.WithinTx(ctx, txmanager.TxOptions{}, func(txCtx context.Context, sess txmanager.Session) error {
		if err := outboxRepo.Enqueue(txCtx, sess, repositories.OutboxMessage{
			EventID:       rolledBackID,
			AggregateType: outboxevents.AggregateTypeGreeting,
			AggregateID:   uuid.New(),
			EventType:     "hello.greeting.deleted",
			Payload:       []byte{0x0a},
		}); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	var (
		eventType   string
		payload     []byte
		attempts    int32
		availableAt time.Time
	)
	require.NoError(t, pool.QueryRow(ctx,
		`SELECT event_type, payload, delivery_attempts, available_at FROM hello.outbox_events WHERE event_id = $1`,
		committedID).Scan(&eventType, &payload, &attempts, &availableAt))
	require.Equal(t, "hello.greeting.created", eventType)
	require.Equal(t, []byte{0x01, 0x02}, payload)
	require.Zero(t, attempts)
	require.WithinDuration(t, time.Now(), availableAt, time.Minute)

	var count int
	require.NoError(t, pool.QueryRow(ctx, `SELECT count(*) FROM hello.outbox_events WHERE event_id = $1`, rolledBackID).Scan(&count))
	require.Zero(t, count)
}
