package repositories

import (
	"context"
	"fmt"
	"time"

	outboxpkg "github.com/bionicotaku/lingo-utils/outbox"
	outboxcfg "github.com/bionicotaku/lingo-utils/outbox/config"
	"github.com/bionicotaku/lingo-utils/outbox/store"
	"github.com/bionicotaku/lingo-utils/txmanager"
	"github.com/go-kratos/kratos/v2/log"
	"github.com/jackc/pgx/v5/pgxpool"
)

// OutboxMessage 描述需要写入 outbox_events 的事件数据。
type OutboxMessage = store.Message

// OutboxRepository 在共享 outbox store 之上提供问候事件的写入入口。
// 领取、标记发布与重排由 lingo-utils 发布器通过 Shared() 完成。
type OutboxRepository struct {
	delegate *store.Repository
	log      *log.Helper
}

// NewOutboxRepository 构造 Repository；cfg.Schema 指定 outbox_events 所在 schema。
func NewOutboxRepository(db *pgxpool.Pool, logger log.Logger, cfg outboxcfg.Config) *OutboxRepository {
	helper := log.NewHelper(logger)
	storeRepo, err := outboxpkg.NewRepository(db, logger, outboxpkg.RepositoryOptions{Schema: cfg.Schema})
	if err != nil {
		helper.Errorw("msg", "init outbox repository failed", "schema", cfg.Schema, "error", err)
		storeRepo = store.NewRepository(db, logger)
	}
	return &OutboxRepository{delegate: storeRepo, log: helper}
}

// Enqueue 在指定事务内插入 Outbox 事件；AvailableAt 缺省为当前时间。
func (r *OutboxRepository) Enqueue(ctx context.Context, sess txmanager.Session, msg OutboxMessage) error {
	if msg.AvailableAt.IsZero() {
		msg.AvailableAt = time.Now()
	}
	msg.AvailableAt = msg.AvailableAt.UTC()

	if err := r.delegate.Enqueue(ctx, sess, msg); err != nil {
		r.log.WithContext(ctx).Errorf("insert outbox event failed: event_id=%s err=%v", msg.EventID, err)
		return fmt.Errorf("insert outbox event: %w", err)
	}
	r.log.WithContext(ctx).Debugf("outbox event enqueued: aggregate=%s id=%s type=%s", msg.AggregateType, msg.AggregateID, msg.EventType)
	return nil
}

// Shared 暴露底层 store，供 Outbox 发布器领取与回写事件。
func (r *OutboxRepository) Shared() *store.Repository {
	return r.delegate
}
