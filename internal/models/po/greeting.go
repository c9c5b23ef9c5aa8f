// Package po 定义面向持久化的数据对象（Persistent Objects），由 Repository 层使用。
// PO 对象映射数据库表结构，不直接暴露给上层业务逻辑。
package po

import (
	"time"

	"github.com/google/uuid"
)

// DefaultGreetingMessage 是未显式提供 message 时写入的默认文案。
const DefaultGreetingMessage = "Hello, World!"

// Greeting 表示 hello.greetings 表的数据库实体。
//
// display_name 不落库：它始终由 Name 派生，见 DisplayName。
type Greeting struct {
	ID          uuid.UUID `db:"greeting_id"`  // 主键（UUID v4）
	Name        string    `db:"name"`         // 名称（必填，不要求唯一）
	Message     string    `db:"message"`      // 问候文案，默认 "Hello, World!"
	IsPublished bool      `db:"is_published"` // 是否发布，默认 false
	CreatedAt   time.Time `db:"created_at"`   // 记录创建时间
	UpdatedAt   time.Time `db:"updated_at"`   // 最近更新时间（触发器自动维护）
}

// GreetingOption 在构造 Greeting 时覆盖可选字段。
type GreetingOption func(*Greeting)

// WithMessage 覆盖默认 message。
func WithMessage(message string) GreetingOption {
	return func(g *Greeting) { g.Message = message }
}

// WithPublished 覆盖默认发布状态。
func WithPublished(published bool) GreetingOption {
	return func(g *Greeting) { g.IsPublished = published }
}

// NewGreeting 以默认值构造一条 Greeting，name 由调用方保证非空。
func NewGreeting(name string, opts ...GreetingOption) *Greeting {
	g := &Greeting{
		Name:        name,
		Message:     DefaultGreetingMessage,
		IsPublished: false,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(g)
		}
	}
	return g
}

// DisplayNameFor 返回给定名称的展示名："Hello, {name}!"。
func DisplayNameFor(name string) string {
	return "Hello, " + name + "!"
}

// DisplayName 基于当前 Name 计算展示名，每次读取时重新派生。
func (g *Greeting) DisplayName() string {
	if g == nil {
		return ""
	}
	return DisplayNameFor(g.Name)
}

// Rename 修改名称；展示名随之变化，无需额外同步。
func (g *Greeting) Rename(name string) {
	g.Name = name
}
