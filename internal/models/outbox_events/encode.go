package outboxevents

import (
	"fmt"
	"time"

	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"
)

// ToStruct 将领域事件转换为 google.protobuf.Struct，字段名采用 snake_case。
func ToStruct(evt *DomainEvent) (*structpb.Struct, error) {
	if evt == nil {
		return nil, fmt.Errorf("events: nil domain event")
	}

	fields := map[string]any{
		"event_id":       evt.EventID.String(),
		"event_type":     FormatEventType(evt.Kind),
		"aggregate_id":   evt.AggregateID.String(),
		"aggregate_type": evt.AggregateType,
		"version":        fmt.Sprintf("%d", evt.Version),
		"occurred_at":    evt.OccurredAt.UTC().Format(time.RFC3339Nano),
	}

	switch payload := evt.Payload.(type) {
	case *GreetingCreated:
		fields["created"] = map[string]any{
			"greeting_id":  payload.GreetingID.String(),
			"name":         payload.Name,
			"message":      payload.Message,
			"is_published": payload.IsPublished,
			"display_name": payload.DisplayName,
		}
	case *GreetingUpdated:
		updated := map[string]any{
			"greeting_id": payload.GreetingID.String(),
		}
		if payload.Name != nil {
			updated["name"] = *payload.Name
		}
		if payload.DisplayName != nil {
			updated["display_name"] = *payload.DisplayName
		}
		if payload.Message != nil {
			updated["message"] = *payload.Message
		}
		if payload.IsPublished != nil {
			updated["is_published"] = *payload.IsPublished
		}
		fields["updated"] = updated
	case *GreetingDeleted:
		fields["deleted"] = map[string]any{
			"greeting_id": payload.GreetingID.String(),
			"deleted_at":  payload.DeletedAt.UTC().Format(time.RFC3339Nano),
		}
	default:
		return nil, fmt.Errorf("%w: %T", ErrUnsupportedPayload, payload)
	}

	return structpb.NewStruct(fields)
}

// Marshal 将领域事件编码为 protobuf 二进制，作为 Outbox payload。
func Marshal(evt *DomainEvent) ([]byte, error) {
	pb, err := ToStruct(evt)
	if err != nil {
		return nil, err
	}
	return proto.Marshal(pb)
}

// Unmarshal 将 payload 还原为 Struct，供消费方与测试读取。
func Unmarshal(payload []byte) (*structpb.Struct, error) {
	out := &structpb.Struct{}
	if err := proto.Unmarshal(payload, out); err != nil {
		return nil, fmt.Errorf("unmarshal event payload: %w", err)
	}
	return out, nil
}
