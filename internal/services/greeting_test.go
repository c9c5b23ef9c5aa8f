package services_test

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/bionicotaku/lingo-services-hello/internal/metadata"
	outboxevents "github.com/bionicotaku/lingo-services-hello/internal/models/outbox_events"
	"github.com/bionicotaku/lingo-services-hello/internal/models/po"
	"github.com/bionicotaku/lingo-services-hello/internal/repositories"
	"github.com/bionicotaku/lingo-services-hello/internal/services"

	"github.com/bionicotaku/lingo-utils/txmanager"
	kerrors "github.com/go-kratos/kratos/v2/errors"
	"github.com/go-kratos/kratos/v2/log"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/require"
)

func newUsecase(repo *greetingRepoStub, outbox *outboxRepoStub) *services.GreetingUsecase {
	return services.NewGreetingUsecase(repo, outbox, noopTxManager{}, log.NewStdLogger(io.Discard))
}

func strPtr(s string) *string { return &s }
func boolPtr(b bool) *bool    { return &b }

func TestCreateGreeting_AppliesDefaults(t *testing.T) {
	repo := &greetingRepoStub{}
	outbox := &outboxRepoStub{}
	uc := newUsecase(repo, outbox)

	created, err := uc.CreateGreeting(context.Background(), services.CreateGreetingInput{Name: "  Ada  "})
	require.NoError(t, err)
	require.Equal(t, "Ada", created.Name)
	require.Equal(t, "Hello, World!", created.Message)
	require.False(t, created.IsPublished)
	require.Equal(t, "Hello, Ada!", created.DisplayName)

	require.Equal(t, "Ada", repo.created.Name)
	require.Equal(t, po.DefaultGreetingMessage, repo.created.Message)
	require.NotEqual(t, uuid.Nil, repo.created.GreetingID)

	require.Len(t, outbox.messages, 1)
	msg := outbox.messages[0]
	require.Equal(t, "hello.greeting.created", msg.EventType)
	require.Equal(t, outboxevents.AggregateTypeGreeting, msg.AggregateType)
	require.Equal(t, created.ID, msg.AggregateID)
	require.Equal(t, msg.EventID.String(), msg.Headers["event_id"])

	payload, err := outboxevents.Unmarshal(msg.Payload)
	require.NoError(t, err)
	body := payload.GetFields()["created"].GetStructValue().GetFields()
	require.Equal(t, "Hello, Ada!", body["display_name"].GetStringValue())
}

func TestCreateGreeting_ExplicitValues(t *testing.T) {
	repo := &greetingRepoStub{}
	uc := newUsecase(repo, &outboxRepoStub{})

	created, err := uc.CreateGreeting(context.Background(), services.CreateGreetingInput{
		Name:        "Grace",
		Message:     strPtr("Hi there"),
		IsPublished: boolPtr(true),
	})
	require.NoError(t, err)
	require.Equal(t, "Hi there", created.Message)
	require.True(t, created.IsPublished)
}

func TestCreateGreeting_NameRequired(t *testing.T) {
	for _, name := range []string{"", "   ", "\t\n"} {
		repo := &greetingRepoStub{}
		outbox := &outboxRepoStub{}
		uc := newUsecase(repo, outbox)

		_, err := uc.CreateGreeting(context.Background(), services.CreateGreetingInput{Name: name})
		require.Error(t, err)
		require.Equal(t, services.ReasonGreetingNameRequired, kerrors.Reason(err))
		require.EqualValues(t, 400, kerrors.Code(err))
		require.Zero(t, repo.createCalls, "no record may be written")
		require.Empty(t, outbox.messages)
	}
}

func TestCreateGreeting_RejectsNULCharacters(t *testing.T) {
	cases := []services.CreateGreetingInput{
		{Name: "Ada\x00Lovelace"},
		{Name: "\x00"},
		{Name: "Ada", Message: strPtr("hi\x00")},
	}
	for _, input := range cases {
		repo := &greetingRepoStub{}
		outbox := &outboxRepoStub{}
		uc := newUsecase(repo, outbox)

		_, err := uc.CreateGreeting(context.Background(), input)
		require.Error(t, err)
		require.Equal(t, services.ReasonGreetingTextInvalid, kerrors.Reason(err))
		require.EqualValues(t, 400, kerrors.Code(err))
		require.Zero(t, repo.createCalls)
		require.Empty(t, outbox.messages)
	}
}

func TestCreateGreeting_OutboxFailureFailsWrite(t *testing.T) {
	repo := &greetingRepoStub{}
	outbox := &outboxRepoStub{err: errors.New("outbox down")}
	uc := newUsecase(repo, outbox)

	_, err := uc.CreateGreeting(context.Background(), services.CreateGreetingInput{Name: "Ada"})
	require.Error(t, err)
	require.Equal(t, services.ReasonGreetingStoreFailed, kerrors.Reason(err))
	require.EqualValues(t, 500, kerrors.Code(err))
}

func TestCreateGreeting_RepoErrorEnqueuesNothing(t *testing.T) {
	repo := &greetingRepoStub{err: errors.New("insert failed")}
	outbox := &outboxRepoStub{}
	uc := newUsecase(repo, outbox)

	_, err := uc.CreateGreeting(context.Background(), services.CreateGreetingInput{Name: "Ada"})
	require.Error(t, err)
	require.Empty(t, outbox.messages)
}

func TestCreateGreeting_Timeout(t *testing.T) {
	repo := &greetingRepoStub{err: context.DeadlineExceeded}
	uc := newUsecase(repo, &outboxRepoStub{})

	_, err := uc.CreateGreeting(context.Background(), services.CreateGreetingInput{Name: "Ada"})
	require.Equal(t, services.ReasonQueryTimeout, kerrors.Reason(err))
	require.EqualValues(t, 504, kerrors.Code(err))
}

func TestCreateGreeting_ActorHeaders(t *testing.T) {
	outbox := &outboxRepoStub{}
	uc := newUsecase(&greetingRepoStub{}, outbox)

	ctx := metadata.Inject(context.Background(), metadata.HandlerMetadata{UserID: "user-1"})
	_, err := uc.CreateGreeting(ctx, services.CreateGreetingInput{Name: "Ada"})
	require.NoError(t, err)
	require.Equal(t, "user-1", outbox.messages[0].Headers["actor_id"])
}

func TestUpdateGreeting_Rename(t *testing.T) {
	id := uuid.New()
	repo := &greetingRepoStub{stored: map[uuid.UUID]*po.Greeting{
		id: {ID: id, Name: "Ada", Message: "m", CreatedAt: time.Now(), UpdatedAt: time.Now()},
	}}
	outbox := &outboxRepoStub{}
	uc := newUsecase(repo, outbox)

	updated, err := uc.UpdateGreeting(context.Background(), services.UpdateGreetingInput{GreetingID: id, Name: strPtr(" Grace ")})
	require.NoError(t, err)
	require.Equal(t, "Grace", updated.Name)
	require.Equal(t, "Hello, Grace!", updated.DisplayName)

	require.Len(t, outbox.messages, 1)
	require.Equal(t, "hello.greeting.updated", outbox.messages[0].EventType)
	payload, err := outboxevents.Unmarshal(outbox.messages[0].Payload)
	require.NoError(t, err)
	body := payload.GetFields()["updated"].GetStructValue().GetFields()
	require.Equal(t, "Grace", body["name"].GetStringValue())
	require.Equal(t, "Hello, Grace!", body["display_name"].GetStringValue())
	_, hasMessage := body["message"]
	require.False(t, hasMessage)
}

func TestUpdateGreeting_Validation(t *testing.T) {
	uc := newUsecase(&greetingRepoStub{}, &outboxRepoStub{})

	_, err := uc.UpdateGreeting(context.Background(), services.UpdateGreetingInput{GreetingID: uuid.New()})
	require.Equal(t, services.ReasonGreetingUpdateInvalid, kerrors.Reason(err))

	_, err = uc.UpdateGreeting(context.Background(), services.UpdateGreetingInput{GreetingID: uuid.New(), Name: strPtr(" ")})
	require.Equal(t, services.ReasonGreetingNameRequired, kerrors.Reason(err))

	_, err = uc.UpdateGreeting(context.Background(), services.UpdateGreetingInput{GreetingID: uuid.New(), Name: strPtr("Ada\x00")})
	require.Equal(t, services.ReasonGreetingTextInvalid, kerrors.Reason(err))
	require.EqualValues(t, 400, kerrors.Code(err))

	_, err = uc.UpdateGreeting(context.Background(), services.UpdateGreetingInput{GreetingID: uuid.New(), Message: strPtr("\x00")})
	require.Equal(t, services.ReasonGreetingTextInvalid, kerrors.Reason(err))
}

func TestUpdateGreeting_NotFound(t *testing.T) {
	outbox := &outboxRepoStub{}
	uc := newUsecase(&greetingRepoStub{}, outbox)

	_, err := uc.UpdateGreeting(context.Background(), services.UpdateGreetingInput{GreetingID: uuid.New(), Message: strPtr("x")})
	require.True(t, kerrors.Is(err, services.ErrGreetingNotFound))
	require.EqualValues(t, 404, kerrors.Code(err))
	require.Empty(t, outbox.messages)
}

func TestSetPublished(t *testing.T) {
	id := uuid.New()
	repo := &greetingRepoStub{stored: map[uuid.UUID]*po.Greeting{id: {ID: id, Name: "Ada"}}}
	uc := newUsecase(repo, &outboxRepoStub{})

	got, err := uc.SetPublished(context.Background(), id, true)
	require.NoError(t, err)
	require.True(t, got.IsPublished)

	got, err = uc.SetPublished(context.Background(), id, false)
	require.NoError(t, err)
	require.False(t, got.IsPublished)
}

func TestDeleteGreeting(t *testing.T) {
	id := uuid.New()
	repo := &greetingRepoStub{stored: map[uuid.UUID]*po.Greeting{id: {ID: id, Name: "Ada"}}}
	outbox := &outboxRepoStub{}
	uc := newUsecase(repo, outbox)

	resp, err := uc.DeleteGreeting(context.Background(), id)
	require.NoError(t, err)
	require.Equal(t, id, resp.ID)
	require.Len(t, outbox.messages, 1)
	require.Equal(t, resp.EventID, outbox.messages[0].EventID)
	require.Equal(t, "hello.greeting.deleted", outbox.messages[0].EventType)

	_, err = uc.DeleteGreeting(context.Background(), id)
	require.True(t, kerrors.Is(err, services.ErrGreetingNotFound))
}

func TestGetGreeting(t *testing.T) {
	id := uuid.New()
	repo := &greetingRepoStub{stored: map[uuid.UUID]*po.Greeting{id: {ID: id, Name: "Ada", Message: "m"}}}
	uc := newUsecase(repo, &outboxRepoStub{})

	got, err := uc.GetGreeting(context.Background(), id)
	require.NoError(t, err)
	require.Equal(t, "Hello, Ada!", got.DisplayName)

	_, err = uc.GetGreeting(context.Background(), uuid.New())
	require.EqualValues(t, 404, kerrors.Code(err))
	require.Equal(t, services.ReasonGreetingNotFound, kerrors.Reason(err))
}

func TestGetGreeting_StoreFailure(t *testing.T) {
	uc := newUsecase(&greetingRepoStub{err: errors.New("boom")}, &outboxRepoStub{})
	_, err := uc.GetGreeting(context.Background(), uuid.New())
	require.Equal(t, services.ReasonGreetingStoreFailed, kerrors.Reason(err))
}

func TestListGreetings_LimitNormalization(t *testing.T) {
	repo := &greetingRepoStub{}
	uc := newUsecase(repo, &outboxRepoStub{})

	_, err := uc.ListGreetings(context.Background(), services.ListGreetingsInput{})
	require.NoError(t, err)
	require.Equal(t, services.DefaultListLimit, repo.listFilter.Limit)

	_, err = uc.ListGreetings(context.Background(), services.ListGreetingsInput{Limit: 10000, Offset: -5, NamePrefix: " Ad "})
	require.NoError(t, err)
	require.Equal(t, services.MaxListLimit, repo.listFilter.Limit)
	require.Zero(t, repo.listFilter.Offset)
	require.Equal(t, "Ad", repo.listFilter.NamePrefix)
}

func TestListGreetings_DerivesEachDisplayName(t *testing.T) {
	repo := &greetingRepoStub{list: []*po.Greeting{{Name: "A"}, nil, {Name: "B"}}}
	uc := newUsecase(repo, &outboxRepoStub{})

	got, err := uc.ListGreetings(context.Background(), services.ListGreetingsInput{})
	require.NoError(t, err)
	require.Len(t, got, 2)
	require.Equal(t, "Hello, A!", got[0].DisplayName)
	require.Equal(t, "Hello, B!", got[1].DisplayName)
}

func TestNormalizeListLimit(t *testing.T) {
	require.Equal(t, 50, services.NormalizeListLimit(0))
	require.Equal(t, 50, services.NormalizeListLimit(-1))
	require.Equal(t, 7, services.NormalizeListLimit(7))
	require.Equal(t, 200, services.NormalizeListLimit(201))
}

// ---- stubs ----

type greetingRepoStub struct {
	stored      map[uuid.UUID]*po.Greeting
	list        []*po.Greeting
	err         error
	created     repositories.CreateGreetingInput
	createCalls int
	listFilter  repositories.ListGreetingsFilter
}

func (s *greetingRepoStub) Create(_ context.Context, _ txmanager.Session, input repositories.CreateGreetingInput) (*po.Greeting, error) {
	s.createCalls++
	if s.err != nil {
		return nil, s.err
	}
	s.created = input
	now := time.Now().UTC()
	return &po.Greeting{
		ID:          input.GreetingID,
		Name:        input.Name,
		Message:     input.Message,
		IsPublished: input.IsPublished,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

func (s *greetingRepoStub) Update(_ context.Context, _ txmanager.Session, input repositories.UpdateGreetingInput) (*po.Greeting, error) {
	if s.err != nil {
		return nil, s.err
	}
	g, ok := s.stored[input.GreetingID]
	if !ok {
		return nil, repositories.ErrGreetingNotFound
	}
	if input.Name != nil {
		g.Rename(*input.Name)
	}
	if input.Message != nil {
		g.Message = *input.Message
	}
	if input.IsPublished != nil {
		g.IsPublished = *input.IsPublished
	}
	g.UpdatedAt = time.Now().UTC()
	return g, nil
}

func (s *greetingRepoStub) Delete(_ context.Context, _ txmanager.Session, id uuid.UUID) (*po.Greeting, error) {
	if s.err != nil {
		return nil, s.err
	}
	g, ok := s.stored[id]
	if !ok {
		return nil, repositories.ErrGreetingNotFound
	}
	delete(s.stored, id)
	return g, nil
}

func (s *greetingRepoStub) FindByID(_ context.Context, _ txmanager.Session, id uuid.UUID) (*po.Greeting, error) {
	if s.err != nil {
		return nil, s.err
	}
	g, ok := s.stored[id]
	if !ok {
		return nil, repositories.ErrGreetingNotFound
	}
	return g, nil
}

func (s *greetingRepoStub) List(_ context.Context, _ txmanager.Session, filter repositories.ListGreetingsFilter) ([]*po.Greeting, error) {
	s.listFilter = filter
	if s.err != nil {
		return nil, s.err
	}
	return s.list, nil
}

type outboxRepoStub struct {
	messages []repositories.OutboxMessage
	err      error
}

func (s *outboxRepoStub) Enqueue(_ context.Context, _ txmanager.Session, msg repositories.OutboxMessage) error {
	if s.err != nil {
		return s.err
	}
	s.messages = append(s.messages, msg)
	return nil
}

type noopTxManager struct{}

type noopSession struct{}

func (noopSession) Tx() pgx.Tx               { return nil }
func (noopSession) Context() context.Context { return context.Background() }

func (noopTxManager) WithinTx(ctx context.Context, _ txmanager.TxOptions, fn func(context.Context, txmanager.Session) error) error {
	return fn(ctx, noopSession{})
}

func (noopTxManager) WithinReadOnlyTx(ctx context.Context, _ txmanager.TxOptions, fn func(context.Context, txmanager.Session) error) error {
	return fn(ctx, noopSession{})
}
