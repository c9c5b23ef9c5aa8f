// Package outboxevents 定义问候记录的领域事件及其编码方式，供 Outbox 写入与发布使用。
package outboxevents

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/trace"
)

// Kind 标识领域事件类型。
type Kind int

// 领域事件类型常量。
const (
	// KindUnknown 表示未识别的事件类型。
	KindUnknown Kind = iota
	// KindGreetingCreated 表示问候记录创建事件。
	KindGreetingCreated
	// KindGreetingUpdated 表示问候记录更新事件。
	KindGreetingUpdated
	// KindGreetingDeleted 表示问候记录删除事件。
	KindGreetingDeleted
)

func (k Kind) String() string {
	switch k {
	case KindGreetingCreated:
		return "greeting.created"
	case KindGreetingUpdated:
		return "greeting.updated"
	case KindGreetingDeleted:
		return "greeting.deleted"
	default:
		return "greeting.unknown"
	}
}

const (
	// AggregateTypeGreeting 标识问候聚合类型，供 Outbox headers / attributes 使用。
	AggregateTypeGreeting = "greeting"
	// SchemaVersionV1 描述事件载荷的当前 schema 版本。
	SchemaVersionV1 = "v1"
	// PayloadContentType 描述 payload 的编码格式。
	PayloadContentType = "application/protobuf; proto=google.protobuf.Struct"

	eventTypePrefix = "hello."
)

var (
	// ErrNilGreeting 在构建事件时实体为空。
	ErrNilGreeting = errors.New("event builder: greeting is nil")
	// ErrInvalidEventID 表示未提供合法的事件 ID。
	ErrInvalidEventID = errors.New("event builder: event id is required")
	// ErrEmptyUpdatePayload 表示没有任何字段需要更新。
	ErrEmptyUpdatePayload = errors.New("event builder: empty update payload")
	// ErrUnsupportedPayload 表示载荷类型无法编码。
	ErrUnsupportedPayload = errors.New("event builder: unsupported payload")
)

// DomainEvent 表示领域层生成的标准事件。
type DomainEvent struct {
	EventID       uuid.UUID
	Kind          Kind
	AggregateID   uuid.UUID
	AggregateType string
	Version       int64
	OccurredAt    time.Time
	Payload       any
}

// FormatEventType 返回带服务前缀的事件类型（如 hello.greeting.created）。
func FormatEventType(kind Kind) string {
	return eventTypePrefix + kind.String()
}

// BuildAttributes 构造符合 Pub/Sub 约定的 message attributes。
func BuildAttributes(event *DomainEvent, schemaVersion string, traceID string) map[string]string {
	if event == nil {
		return map[string]string{}
	}
	if schemaVersion == "" {
		schemaVersion = SchemaVersionV1
	}
	attrs := map[string]string{
		"event_id":       event.EventID.String(),
		"event_type":     FormatEventType(event.Kind),
		"aggregate_id":   event.AggregateID.String(),
		"aggregate_type": event.AggregateType,
		"version":        strconv.FormatInt(event.Version, 10),
		"occurred_at":    event.OccurredAt.UTC().Format(time.RFC3339Nano),
		"schema_version": schemaVersion,
		"content_type":   PayloadContentType,
	}
	if traceID != "" {
		attrs["trace_id"] = traceID
	}
	return attrs
}

// TraceIDFromContext 提取 OTel Trace ID，若不存在返回空字符串。
func TraceIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	spanCtx := trace.SpanContextFromContext(ctx)
	if !spanCtx.IsValid() || !spanCtx.HasTraceID() {
		return ""
	}
	return spanCtx.TraceID().String()
}

// VersionFromTime 根据时间戳计算聚合版本号，采用 UTC 微秒时间，保证单调递增。
func VersionFromTime(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}
	return t.UTC().UnixMicro()
}
