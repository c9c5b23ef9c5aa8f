package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/bionicotaku/lingo-services-hello/internal/metadata"
	outboxevents "github.com/bionicotaku/lingo-services-hello/internal/models/outbox_events"
	"github.com/bionicotaku/lingo-services-hello/internal/models/po"
	"github.com/bionicotaku/lingo-services-hello/internal/models/vo"
	"github.com/bionicotaku/lingo-services-hello/internal/repositories"

	"github.com/bionicotaku/lingo-utils/txmanager"
	"github.com/go-kratos/kratos/v2/errors"
	"github.com/go-kratos/kratos/v2/log"
	"github.com/google/uuid"
)

const (
	// DefaultListLimit 未指定 limit 时的分页大小。
	DefaultListLimit = 50
	// MaxListLimit 单页上限。
	MaxListLimit = 200
)

// GreetingRepo 定义问候记录的持久化行为。
type GreetingRepo interface {
	Create(ctx context.Context, sess txmanager.Session, input repositories.CreateGreetingInput) (*po.Greeting, error)
	Update(ctx context.Context, sess txmanager.Session, input repositories.UpdateGreetingInput) (*po.Greeting, error)
	Delete(ctx context.Context, sess txmanager.Session, greetingID uuid.UUID) (*po.Greeting, error)
	FindByID(ctx context.Context, sess txmanager.Session, greetingID uuid.UUID) (*po.Greeting, error)
	List(ctx context.Context, sess txmanager.Session, filter repositories.ListGreetingsFilter) ([]*po.Greeting, error)
}

// GreetingOutboxWriter 定义 Outbox 写入行为。
type GreetingOutboxWriter interface {
	Enqueue(ctx context.Context, sess txmanager.Session, msg repositories.OutboxMessage) error
}

// CreateGreetingInput 创建问候记录的输入；nil 字段使用默认值。
type CreateGreetingInput struct {
	Name        string
	Message     *string
	IsPublished *bool
}

// UpdateGreetingInput 部分更新输入，至少提供一个字段。
type UpdateGreetingInput struct {
	GreetingID  uuid.UUID
	Name        *string
	Message     *string
	IsPublished *bool
}

// ListGreetingsInput 列表查询输入。
type ListGreetingsInput struct {
	Published  *bool
	NamePrefix string
	Limit      int
	Offset     int
}

// GreetingUsecase 封装问候记录的读写用例：写操作与 Outbox 事件在同一事务内提交。
type GreetingUsecase struct {
	repo      GreetingRepo
	outbox    GreetingOutboxWriter
	txManager txmanager.Manager
	log       *log.Helper
	clock     func() time.Time
}

// NewGreetingUsecase 构造 GreetingUsecase。
func NewGreetingUsecase(repo GreetingRepo, outbox GreetingOutboxWriter, tx txmanager.Manager, logger log.Logger) *GreetingUsecase {
	return &GreetingUsecase{
		repo:      repo,
		outbox:    outbox,
		txManager: tx,
		log:       log.NewHelper(logger),
		clock:     time.Now,
	}
}

// CreateGreeting 校验 name、补齐默认值后写入记录与 created 事件。
func (uc *GreetingUsecase) CreateGreeting(ctx context.Context, input CreateGreetingInput) (*vo.Greeting, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, ErrGreetingNameRequired
	}
	if hasNUL(name) || (input.Message != nil && hasNUL(*input.Message)) {
		return nil, ErrGreetingTextInvalid
	}

	var opts []po.GreetingOption
	if input.Message != nil {
		opts = append(opts, po.WithMessage(*input.Message))
	}
	if input.IsPublished != nil {
		opts = append(opts, po.WithPublished(*input.IsPublished))
	}
	draft := po.NewGreeting(name, opts...)

	var created *po.Greeting
	err := uc.txManager.WithinTx(ctx, txmanager.TxOptions{}, func(txCtx context.Context, sess txmanager.Session) error {
		greeting, repoErr := uc.repo.Create(txCtx, sess, repositories.CreateGreetingInput{
			GreetingID:  uuid.New(),
			Name:        draft.Name,
			Message:     draft.Message,
			IsPublished: draft.IsPublished,
		})
		if repoErr != nil {
			return repoErr
		}

		occurredAt := uc.occurredAt(greeting.CreatedAt)
		event, buildErr := outboxevents.NewGreetingCreatedEvent(greeting, uuid.New(), occurredAt)
		if buildErr != nil {
			return fmt.Errorf("build greeting created event: %w", buildErr)
		}
		if err := uc.enqueueOutbox(txCtx, sess, event); err != nil {
			return err
		}
		created = greeting
		return nil
	})
	if err != nil {
		return nil, uc.mapWriteError(ctx, "create", name, err)
	}

	uc.log.WithContext(ctx).Infof("CreateGreeting: greeting_id=%s name=%s", created.ID, created.Name)
	return vo.NewGreeting(created), nil
}

// GetGreeting 按 ID 读取记录。
func (uc *GreetingUsecase) GetGreeting(ctx context.Context, greetingID uuid.UUID) (*vo.Greeting, error) {
	var greeting *po.Greeting
	err := uc.txManager.WithinReadOnlyTx(ctx, txmanager.TxOptions{}, func(txCtx context.Context, sess txmanager.Session) error {
		var repoErr error
		greeting, repoErr = uc.repo.FindByID(txCtx, sess, greetingID)
		return repoErr
	})
	if err != nil {
		if errors.Is(err, repositories.ErrGreetingNotFound) {
			return nil, ErrGreetingNotFound
		}
		if errors.Is(err, context.DeadlineExceeded) {
			uc.log.WithContext(ctx).Warnf("get greeting timeout: greeting_id=%s", greetingID)
			return nil, errors.GatewayTimeout(ReasonQueryTimeout, "query timeout")
		}
		uc.log.WithContext(ctx).Errorf("get greeting failed: greeting_id=%s err=%v", greetingID, err)
		return nil, errors.InternalServer(ReasonGreetingStoreFailed, "failed to query greeting").WithCause(fmt.Errorf("find greeting: %w", err))
	}
	return vo.NewGreeting(greeting), nil
}

// ListGreetings 分页列出记录，limit 缺省 50、上限 200。
func (uc *GreetingUsecase) ListGreetings(ctx context.Context, input ListGreetingsInput) ([]*vo.Greeting, error) {
	filter := repositories.ListGreetingsFilter{
		Published:  input.Published,
		NamePrefix: strings.TrimSpace(input.NamePrefix),
		Limit:      NormalizeListLimit(input.Limit),
		Offset:     max(input.Offset, 0),
	}

	var list []*po.Greeting
	err := uc.txManager.WithinReadOnlyTx(ctx, txmanager.TxOptions{}, func(txCtx context.Context, sess txmanager.Session) error {
		var repoErr error
		list, repoErr = uc.repo.List(txCtx, sess, filter)
		return repoErr
	})
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			uc.log.WithContext(ctx).Warn("list greetings timeout")
			return nil, errors.GatewayTimeout(ReasonQueryTimeout, "query timeout")
		}
		uc.log.WithContext(ctx).Errorf("list greetings failed: err=%v", err)
		return nil, errors.InternalServer(ReasonGreetingStoreFailed, "failed to list greetings").WithCause(fmt.Errorf("list greetings: %w", err))
	}
	return vo.NewGreetings(list), nil
}

// UpdateGreeting 部分更新记录并写入 updated 事件；事件只携带本次提交的字段。
func (uc *GreetingUsecase) UpdateGreeting(ctx context.Context, input UpdateGreetingInput) (*vo.Greeting, error) {
	if input.Name == nil && input.Message == nil && input.IsPublished == nil {
		return nil, errors.BadRequest(ReasonGreetingUpdateInvalid, "no fields to update")
	}
	if input.Name != nil {
		trimmed := strings.TrimSpace(*input.Name)
		if trimmed == "" {
			return nil, ErrGreetingNameRequired
		}
		input.Name = &trimmed
	}
	if (input.Name != nil && hasNUL(*input.Name)) || (input.Message != nil && hasNUL(*input.Message)) {
		return nil, ErrGreetingTextInvalid
	}

	var updated *po.Greeting
	err := uc.txManager.WithinTx(ctx, txmanager.TxOptions{}, func(txCtx context.Context, sess txmanager.Session) error {
		greeting, repoErr := uc.repo.Update(txCtx, sess, repositories.UpdateGreetingInput{
			GreetingID:  input.GreetingID,
			Name:        input.Name,
			Message:     input.Message,
			IsPublished: input.IsPublished,
		})
		if repoErr != nil {
			return repoErr
		}

		changes := outboxevents.GreetingChanges{
			Name:        input.Name,
			Message:     input.Message,
			IsPublished: input.IsPublished,
		}
		event, buildErr := outboxevents.NewGreetingUpdatedEvent(greeting, changes, uuid.New(), uc.occurredAt(greeting.UpdatedAt))
		if buildErr != nil {
			return fmt.Errorf("build greeting updated event: %w", buildErr)
		}
		if err := uc.enqueueOutbox(txCtx, sess, event); err != nil {
			return err
		}
		updated = greeting
		return nil
	})
	if err != nil {
		return nil, uc.mapWriteError(ctx, "update", input.GreetingID.String(), err)
	}

	uc.log.WithContext(ctx).Infof("UpdateGreeting: greeting_id=%s", updated.ID)
	return vo.NewGreeting(updated), nil
}

// SetPublished 切换发布状态。
func (uc *GreetingUsecase) SetPublished(ctx context.Context, greetingID uuid.UUID, published bool) (*vo.Greeting, error) {
	return uc.UpdateGreeting(ctx, UpdateGreetingInput{
		GreetingID:  greetingID,
		IsPublished: &published,
	})
}

// DeleteGreeting 删除记录并写入 deleted 事件。
func (uc *GreetingUsecase) DeleteGreeting(ctx context.Context, greetingID uuid.UUID) (*vo.GreetingDeleted, error) {
	var (
		deleted    *po.Greeting
		eventID    uuid.UUID
		occurredAt time.Time
	)
	err := uc.txManager.WithinTx(ctx, txmanager.TxOptions{}, func(txCtx context.Context, sess txmanager.Session) error {
		greeting, repoErr := uc.repo.Delete(txCtx, sess, greetingID)
		if repoErr != nil {
			return repoErr
		}

		occurredAt = uc.clock().UTC()
		eventID = uuid.New()
		event, buildErr := outboxevents.NewGreetingDeletedEvent(greeting, eventID, occurredAt)
		if buildErr != nil {
			return fmt.Errorf("build greeting deleted event: %w", buildErr)
		}
		if err := uc.enqueueOutbox(txCtx, sess, event); err != nil {
			return err
		}
		deleted = greeting
		return nil
	})
	if err != nil {
		return nil, uc.mapWriteError(ctx, "delete", greetingID.String(), err)
	}

	uc.log.WithContext(ctx).Infof("DeleteGreeting: greeting_id=%s", deleted.ID)
	return &vo.GreetingDeleted{ID: deleted.ID, DeletedAt: occurredAt, EventID: eventID}, nil
}

// enqueueOutbox 将领域事件编码后写入 Outbox。
func (uc *GreetingUsecase) enqueueOutbox(ctx context.Context, sess txmanager.Session, event *outboxevents.DomainEvent) error {
	payload, err := outboxevents.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal greeting event: %w", err)
	}

	headers := outboxevents.BuildAttributes(event, outboxevents.SchemaVersionV1, outboxevents.TraceIDFromContext(ctx))
	if meta, ok := metadata.FromContext(ctx); ok {
		for k, v := range meta.Headers() {
			headers[k] = v
		}
	}

	msg := repositories.OutboxMessage{
		EventID:       event.EventID,
		AggregateType: event.AggregateType,
		AggregateID:   event.AggregateID,
		EventType:     outboxevents.FormatEventType(event.Kind),
		Payload:       payload,
		Headers:       headers,
		AvailableAt:   event.OccurredAt,
	}
	if err := uc.outbox.Enqueue(ctx, sess, msg); err != nil {
		return fmt.Errorf("enqueue outbox: %w", err)
	}
	return nil
}

func (uc *GreetingUsecase) mapWriteError(ctx context.Context, op, subject string, err error) error {
	if errors.Is(err, repositories.ErrGreetingNotFound) {
		return ErrGreetingNotFound
	}
	if errors.Is(err, context.DeadlineExceeded) {
		uc.log.WithContext(ctx).Warnf("%s greeting timeout: %s", op, subject)
		return errors.GatewayTimeout(ReasonQueryTimeout, op+" timeout")
	}
	uc.log.WithContext(ctx).Errorf("%s greeting failed: %s err=%v", op, subject, err)
	return errors.InternalServer(ReasonGreetingStoreFailed, "failed to "+op+" greeting").WithCause(fmt.Errorf("%s greeting: %w", op, err))
}

func (uc *GreetingUsecase) occurredAt(ts time.Time) time.Time {
	if ts.IsZero() {
		return uc.clock().UTC()
	}
	return ts.UTC()
}

// NormalizeListLimit 将 limit 归一到 [1, MaxListLimit]，非正数取默认值。
func NormalizeListLimit(limit int) int {
	switch {
	case limit <= 0:
		return DefaultListLimit
	case limit > MaxListLimit:
		return MaxListLimit
	default:
		return limit
	}
}

func hasNUL(s string) bool {
	return strings.ContainsRune(s, 0)
}
