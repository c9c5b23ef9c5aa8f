package controllers_test

import (
	"context"
	"testing"
	"time"

	"github.com/bionicotaku/lingo-services-hello/internal/controllers"
	"github.com/bionicotaku/lingo-services-hello/internal/infrastructure/configloader"

	kmetadata "github.com/go-kratos/kratos/v2/metadata"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBaseHandlerExtractMetadata(t *testing.T) {
	ctx := kmetadata.NewServerContext(context.Background(), kmetadata.New(map[string][]string{
		"x-md-global-user-id":  {"user-123"},
		"x-md-idempotency-key": {"req-456"},
	}))

	handler := controllers.NewBaseHandler(configloader.HandlerTimeouts{})
	meta := handler.ExtractMetadata(ctx)

	assert.Equal(t, "user-123", meta.UserID)
	assert.Equal(t, "req-456", meta.IdempotencyKey)
	assert.Empty(t, meta.RequestID)
}

func TestBaseHandlerExtractMetadataEmpty(t *testing.T) {
	handler := controllers.NewBaseHandler(configloader.HandlerTimeouts{})
	assert.True(t, handler.ExtractMetadata(context.Background()).IsZero())
}

func TestBaseHandlerWithTimeout(t *testing.T) {
	handler := controllers.NewBaseHandler(configloader.HandlerTimeouts{Command: 200 * time.Millisecond})
	ctx, cancel := handler.WithTimeout(context.Background(), controllers.HandlerTypeCommand)
	defer cancel()

	deadline, ok := ctx.Deadline()
	require.True(t, ok)
	remaining := time.Until(deadline)
	assert.Greater(t, remaining, 150*time.Millisecond)
	assert.LessOrEqual(t, remaining, 200*time.Millisecond)
}

func TestNewBaseHandlerFallbacks(t *testing.T) {
	handler := controllers.NewBaseHandler(configloader.HandlerTimeouts{})
	timeouts := handler.Timeouts()
	assert.Equal(t, 5*time.Second, timeouts.Default)
	assert.Equal(t, 5*time.Second, timeouts.Command)
	assert.Equal(t, 3*time.Second, timeouts.Query)

	handler = controllers.NewBaseHandler(configloader.HandlerTimeouts{Query: time.Second})
	timeouts = handler.Timeouts()
	assert.Equal(t, time.Second, timeouts.Default)
	assert.Equal(t, time.Second, timeouts.Command)
	assert.Equal(t, time.Second, timeouts.Query)
}
