// Package vo 定义视图对象（View Objects），用于向上层传递业务数据。
// VO 对象由 Service 层返回，经 Views 层转换为 API 响应，隔离内部数据结构。
package vo

import (
	"time"

	"github.com/bionicotaku/lingo-services-hello/internal/models/po"
	"github.com/google/uuid"
)

// Greeting 是问候记录的对外视图，包含派生的 DisplayName。
type Greeting struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Message     string    `json:"message"`
	IsPublished bool      `json:"is_published"`
	DisplayName string    `json:"display_name"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// NewGreeting 从持久化实体构造视图；DisplayName 在此刻由 Name 派生。
func NewGreeting(g *po.Greeting) *Greeting {
	if g == nil {
		return nil
	}
	return &Greeting{
		ID:          g.ID,
		Name:        g.Name,
		Message:     g.Message,
		IsPublished: g.IsPublished,
		DisplayName: g.DisplayName(),
		CreatedAt:   g.CreatedAt,
		UpdatedAt:   g.UpdatedAt,
	}
}

// NewGreetings 批量构造视图，跳过 nil 记录。
func NewGreetings(list []*po.Greeting) []*Greeting {
	out := make([]*Greeting, 0, len(list))
	for _, g := range list {
		if view := NewGreeting(g); view != nil {
			out = append(out, view)
		}
	}
	return out
}

// GreetingDeleted 描述删除结果。
type GreetingDeleted struct {
	ID        uuid.UUID `json:"id"`
	DeletedAt time.Time `json:"deleted_at"`
	EventID   uuid.UUID `json:"event_id"`
}
