// Package repositories 实现数据访问层，基于 pgx 直接执行 SQL，并通过 txmanager.Session 参与事务。
package repositories

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/bionicotaku/lingo-services-hello/internal/models/po"

	"github.com/bionicotaku/lingo-utils/txmanager"
	"github.com/go-kratos/kratos/v2/log"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrGreetingNotFound 表示问候记录不存在。
var ErrGreetingNotFound = errors.New("greeting not found")

const greetingColumns = `greeting_id, name, message, is_published, created_at, updated_at`

// querier 是 pgxpool.Pool 与 pgx.Tx 的公共子集。
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// CreateGreetingInput 描述插入一条问候记录所需的字段，默认值已由上层填好。
type CreateGreetingInput struct {
	GreetingID  uuid.UUID
	Name        string
	Message     string
	IsPublished bool
}

// UpdateGreetingInput 描述部分更新，nil 字段保持原值。
type UpdateGreetingInput struct {
	GreetingID  uuid.UUID
	Name        *string
	Message     *string
	IsPublished *bool
}

// ListGreetingsFilter 描述列表查询条件。
type ListGreetingsFilter struct {
	Published  *bool
	NamePrefix string
	Limit      int
	Offset     int
}

// GreetingRepository 负责 hello.greetings 表的读写。
type GreetingRepository struct {
	db  *pgxpool.Pool
	log *log.Helper
}

// NewGreetingRepository 构造 GreetingRepository。
func NewGreetingRepository(db *pgxpool.Pool, logger log.Logger) *GreetingRepository {
	return &GreetingRepository{
		db:  db,
		log: log.NewHelper(logger),
	}
}

// conn 在事务内返回 tx，否则回落到连接池。
func (r *GreetingRepository) conn(sess txmanager.Session) querier {
	if sess != nil {
		return sess.Tx()
	}
	return r.db
}

// Create 插入问候记录并返回数据库生成的字段。
func (r *GreetingRepository) Create(ctx context.Context, sess txmanager.Session, input CreateGreetingInput) (*po.Greeting, error) {
	id := input.GreetingID
	if id == uuid.Nil {
		id = uuid.New()
	}
	query := `
		INSERT INTO hello.greetings (greeting_id, name, message, is_published)
		VALUES ($1, $2, $3, $4)
		RETURNING ` + greetingColumns

	greeting, err := scanGreeting(r.conn(sess).QueryRow(ctx, query, id, input.Name, input.Message, input.IsPublished))
	if err != nil {
		r.log.WithContext(ctx).Errorf("insert greeting failed: name=%s err=%v", input.Name, err)
		return nil, fmt.Errorf("insert greeting: %w", err)
	}
	r.log.WithContext(ctx).Debugf("greeting inserted: greeting_id=%s", greeting.ID)
	return greeting, nil
}

// Update 按非 nil 字段更新记录；updated_at 由触发器维护。
func (r *GreetingRepository) Update(ctx context.Context, sess txmanager.Session, input UpdateGreetingInput) (*po.Greeting, error) {
	query := `
		UPDATE hello.greetings
		SET
			name = COALESCE($2, name),
			message = COALESCE($3, message),
			is_published = COALESCE($4, is_published)
		WHERE greeting_id = $1
		RETURNING ` + greetingColumns

	greeting, err := scanGreeting(r.conn(sess).QueryRow(ctx, query, input.GreetingID, input.Name, input.Message, input.IsPublished))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrGreetingNotFound
		}
		r.log.WithContext(ctx).Errorf("update greeting failed: greeting_id=%s err=%v", input.GreetingID, err)
		return nil, fmt.Errorf("update greeting: %w", err)
	}
	return greeting, nil
}

// Delete 删除记录并返回删除前的快照。
func (r *GreetingRepository) Delete(ctx context.Context, sess txmanager.Session, greetingID uuid.UUID) (*po.Greeting, error) {
	query := `DELETE FROM hello.greetings WHERE greeting_id = $1 RETURNING ` + greetingColumns

	greeting, err := scanGreeting(r.conn(sess).QueryRow(ctx, query, greetingID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrGreetingNotFound
		}
		r.log.WithContext(ctx).Errorf("delete greeting failed: greeting_id=%s err=%v", greetingID, err)
		return nil, fmt.Errorf("delete greeting: %w", err)
	}
	return greeting, nil
}

// FindByID 根据 greeting_id 查询。
func (r *GreetingRepository) FindByID(ctx context.Context, sess txmanager.Session, greetingID uuid.UUID) (*po.Greeting, error) {
	query := `SELECT ` + greetingColumns + ` FROM hello.greetings WHERE greeting_id = $1`

	greeting, err := scanGreeting(r.conn(sess).QueryRow(ctx, query, greetingID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrGreetingNotFound
		}
		return nil, fmt.Errorf("find greeting: %w", err)
	}
	return greeting, nil
}

// List 按创建时间倒序分页查询。
func (r *GreetingRepository) List(ctx context.Context, sess txmanager.Session, filter ListGreetingsFilter) ([]*po.Greeting, error) {
	var (
		conds []string
		args  []any
	)
	if filter.Published != nil {
		args = append(args, *filter.Published)
		conds = append(conds, fmt.Sprintf("is_published = $%d", len(args)))
	}
	if prefix := strings.TrimSpace(filter.NamePrefix); prefix != "" {
		args = append(args, escapeLike(prefix)+"%")
		conds = append(conds, fmt.Sprintf(`name ILIKE $%d ESCAPE '\'`, len(args)))
	}

	query := `SELECT ` + greetingColumns + ` FROM hello.greetings`
	if len(conds) > 0 {
		query += ` WHERE ` + strings.Join(conds, " AND ")
	}
	// LIMIT NULL 表示不限制
	args = append(args, optionalInt4(filter.Limit), max(filter.Offset, 0))
	query += fmt.Sprintf(` ORDER BY created_at DESC, greeting_id LIMIT $%d OFFSET $%d`, len(args)-1, len(args))

	rows, err := r.conn(sess).Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list greetings: %w", err)
	}
	defer rows.Close()

	greetings := make([]*po.Greeting, 0, max(filter.Limit, 0))
	for rows.Next() {
		g, scanErr := scanGreeting(rows)
		if scanErr != nil {
			return nil, fmt.Errorf("scan greeting: %w", scanErr)
		}
		greetings = append(greetings, g)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate greetings: %w", err)
	}
	return greetings, nil
}

func scanGreeting(row pgx.Row) (*po.Greeting, error) {
	var g po.Greeting
	if err := row.Scan(&g.ID, &g.Name, &g.Message, &g.IsPublished, &g.CreatedAt, &g.UpdatedAt); err != nil {
		return nil, err
	}
	return &g, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
