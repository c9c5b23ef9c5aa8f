package outboxevents

import (
	"time"

	"github.com/bionicotaku/lingo-services-hello/internal/models/po"
	"github.com/google/uuid"
)

// GreetingCreated 描述创建事件载荷。
type GreetingCreated struct {
	GreetingID  uuid.UUID
	Name        string
	Message     string
	IsPublished bool
	DisplayName string
}

// GreetingUpdated 描述更新事件载荷，仅携带发生变化的字段。
// Name 变化时 DisplayName 一并给出。
type GreetingUpdated struct {
	GreetingID  uuid.UUID
	Name        *string
	Message     *string
	IsPublished *bool
	DisplayName *string
}

// GreetingDeleted 描述删除事件载荷。
type GreetingDeleted struct {
	GreetingID uuid.UUID
	DeletedAt  time.Time
}

// GreetingChanges 描述一次更新中实际提交的字段。
type GreetingChanges struct {
	Name        *string
	Message     *string
	IsPublished *bool
}

// IsEmpty 判断变更集是否为空。
func (c GreetingChanges) IsEmpty() bool {
	return c.Name == nil && c.Message == nil && c.IsPublished == nil
}

// NewGreetingCreatedEvent 基于持久化实体构建创建事件。
func NewGreetingCreatedEvent(g *po.Greeting, eventID uuid.UUID, occurredAt time.Time) (*DomainEvent, error) {
	if g == nil {
		return nil, ErrNilGreeting
	}
	if eventID == uuid.Nil {
		return nil, ErrInvalidEventID
	}
	occurredAt = normalizeOccurredAt(occurredAt, g.CreatedAt)

	return &DomainEvent{
		EventID:       eventID,
		Kind:          KindGreetingCreated,
		AggregateID:   g.ID,
		AggregateType: AggregateTypeGreeting,
		Version:       VersionFromTime(occurredAt),
		OccurredAt:    occurredAt,
		Payload: &GreetingCreated{
			GreetingID:  g.ID,
			Name:        g.Name,
			Message:     g.Message,
			IsPublished: g.IsPublished,
			DisplayName: g.DisplayName(),
		},
	}, nil
}

// NewGreetingUpdatedEvent 基于更新后的实体与变更集构建更新事件。
func NewGreetingUpdatedEvent(g *po.Greeting, changes GreetingChanges, eventID uuid.UUID, occurredAt time.Time) (*DomainEvent, error) {
	if g == nil {
		return nil, ErrNilGreeting
	}
	if eventID == uuid.Nil {
		return nil, ErrInvalidEventID
	}
	if changes.IsEmpty() {
		return nil, ErrEmptyUpdatePayload
	}
	occurredAt = normalizeOccurredAt(occurredAt, g.UpdatedAt)

	payload := &GreetingUpdated{GreetingID: g.ID}
	if changes.Name != nil {
		name := g.Name
		display := g.DisplayName()
		payload.Name = &name
		payload.DisplayName = &display
	}
	if changes.Message != nil {
		message := g.Message
		payload.Message = &message
	}
	if changes.IsPublished != nil {
		published := g.IsPublished
		payload.IsPublished = &published
	}

	return &DomainEvent{
		EventID:       eventID,
		Kind:          KindGreetingUpdated,
		AggregateID:   g.ID,
		AggregateType: AggregateTypeGreeting,
		Version:       VersionFromTime(occurredAt),
		OccurredAt:    occurredAt,
		Payload:       payload,
	}, nil
}

// NewGreetingDeletedEvent 构建删除事件。
func NewGreetingDeletedEvent(g *po.Greeting, eventID uuid.UUID, occurredAt time.Time) (*DomainEvent, error) {
	if g == nil {
		return nil, ErrNilGreeting
	}
	if eventID == uuid.Nil {
		return nil, ErrInvalidEventID
	}
	occurredAt = normalizeOccurredAt(occurredAt, time.Time{})

	return &DomainEvent{
		EventID:       eventID,
		Kind:          KindGreetingDeleted,
		AggregateID:   g.ID,
		AggregateType: AggregateTypeGreeting,
		Version:       VersionFromTime(occurredAt),
		OccurredAt:    occurredAt,
		Payload: &GreetingDeleted{
			GreetingID: g.ID,
			DeletedAt:  occurredAt,
		},
	}, nil
}

func normalizeOccurredAt(occurredAt, fallback time.Time) time.Time {
	if occurredAt.IsZero() {
		occurredAt = fallback
	}
	if occurredAt.IsZero() {
		occurredAt = time.Now()
	}
	return occurredAt.UTC()
}
