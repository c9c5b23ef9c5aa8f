package controllers

import (
	"context"
	"strings"
	"time"

	"github.com/bionicotaku/lingo-services-hello/internal/infrastructure/configloader"
	"github.com/bionicotaku/lingo-services-hello/internal/metadata"

	kmetadata "github.com/go-kratos/kratos/v2/metadata"
	"github.com/go-kratos/kratos/v2/transport"
)

// HandlerType 表示 Handler 的语义类别，用于选择超时策略。
type HandlerType int

const (
	// HandlerTypeDefault 表示未显式区分的 Handler。
	HandlerTypeDefault HandlerType = iota
	// HandlerTypeCommand 表示写操作 Handler。
	HandlerTypeCommand
	// HandlerTypeQuery 表示只读查询 Handler。
	HandlerTypeQuery
)

const (
	fallbackDefaultTimeout = 5 * time.Second
	fallbackQueryTimeout   = 3 * time.Second
	headerUserID           = "x-md-global-user-id"
	headerIdempotencyKey   = "x-md-idempotency-key"
	headerRequestID        = "x-request-id"
)

// BaseHandler 提供公共的超时、Metadata 解析能力，供具体 Handler 内嵌复用。
type BaseHandler struct {
	timeouts configloader.HandlerTimeouts
}

// NewBaseHandler 构造基础 Handler，并为缺省值填充回退策略。
func NewBaseHandler(timeouts configloader.HandlerTimeouts) *BaseHandler {
	if timeouts.Default <= 0 {
		switch {
		case timeouts.Command > 0:
			timeouts.Default = timeouts.Command
		case timeouts.Query > 0:
			timeouts.Default = timeouts.Query
		default:
			timeouts.Default = fallbackDefaultTimeout
		}
	}
	if timeouts.Command <= 0 {
		timeouts.Command = timeouts.Default
	}
	if timeouts.Query <= 0 {
		timeouts.Query = min(timeouts.Default, fallbackQueryTimeout)
	}
	return &BaseHandler{timeouts: timeouts}
}

// Timeouts 返回填充回退值后的超时策略。
func (h *BaseHandler) Timeouts() configloader.HandlerTimeouts {
	if h == nil {
		return configloader.HandlerTimeouts{}
	}
	return h.timeouts
}

// WithTimeout 根据 Handler 类型包装上下文，返回绑定超时的新 Context 与取消函数。
func (h *BaseHandler) WithTimeout(ctx context.Context, kind HandlerType) (context.Context, context.CancelFunc) {
	if h == nil {
		return context.WithTimeout(ctx, fallbackDefaultTimeout)
	}
	var timeout time.Duration
	switch kind {
	case HandlerTypeCommand:
		timeout = h.timeouts.Command
	case HandlerTypeQuery:
		timeout = h.timeouts.Query
	default:
		timeout = h.timeouts.Default
	}
	if timeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, timeout)
}

// ExtractMetadata 解析调用方身份、幂等键与请求 ID。
// 优先读取 metadata 中间件透传的 x-md-* 字段，缺失时回退到原始请求头。
func (h *BaseHandler) ExtractMetadata(ctx context.Context) metadata.HandlerMetadata {
	var md kmetadata.Metadata
	if value, ok := kmetadata.FromServerContext(ctx); ok {
		md = value
	}
	var header transport.Header
	if tr, ok := transport.FromServerContext(ctx); ok {
		header = tr.RequestHeader()
	}
	lookup := func(key string) string {
		if md != nil {
			if value := strings.TrimSpace(md.Get(key)); value != "" {
				return value
			}
		}
		if header != nil {
			return strings.TrimSpace(header.Get(key))
		}
		return ""
	}
	return metadata.HandlerMetadata{
		IdempotencyKey: lookup(headerIdempotencyKey),
		UserID:         lookup(headerUserID),
		RequestID:      lookup(headerRequestID),
	}
}

// prepare 组合超时与 Metadata 注入，返回供服务层使用的 Context。
func (h *BaseHandler) prepare(ctx context.Context, kind HandlerType) (context.Context, context.CancelFunc) {
	meta := h.ExtractMetadata(ctx)
	timeoutCtx, cancel := h.WithTimeout(ctx, kind)
	return metadata.Inject(timeoutCtx, meta), cancel
}
