package controllers

import (
	"context"
	stdhttp "net/http"

	"github.com/bionicotaku/lingo-services-hello/internal/controllers/dto"
	"github.com/bionicotaku/lingo-services-hello/internal/infrastructure/configloader"
	"github.com/bionicotaku/lingo-services-hello/internal/models/vo"
	"github.com/bionicotaku/lingo-services-hello/internal/services"
	"github.com/bionicotaku/lingo-services-hello/internal/views"

	"github.com/go-kratos/kratos/v2/errors"
	"github.com/go-kratos/kratos/v2/transport/http"
	"github.com/google/uuid"
)

// Operation 名称，供日志、指标与限流中间件识别路由。
const (
	OperationCreateGreeting    = "/hello.v1.GreetingService/CreateGreeting"
	OperationGetGreeting       = "/hello.v1.GreetingService/GetGreeting"
	OperationListGreetings     = "/hello.v1.GreetingService/ListGreetings"
	OperationUpdateGreeting    = "/hello.v1.GreetingService/UpdateGreeting"
	OperationDeleteGreeting    = "/hello.v1.GreetingService/DeleteGreeting"
	OperationPublishGreeting   = "/hello.v1.GreetingService/PublishGreeting"
	OperationUnpublishGreeting = "/hello.v1.GreetingService/UnpublishGreeting"
)

// GreetingService 是 Handler 依赖的用例集合，由 services.GreetingUsecase 实现。
type GreetingService interface {
	CreateGreeting(ctx context.Context, input services.CreateGreetingInput) (*vo.Greeting, error)
	GetGreeting(ctx context.Context, greetingID uuid.UUID) (*vo.Greeting, error)
	ListGreetings(ctx context.Context, input services.ListGreetingsInput) ([]*vo.Greeting, error)
	UpdateGreeting(ctx context.Context, input services.UpdateGreetingInput) (*vo.Greeting, error)
	SetPublished(ctx context.Context, greetingID uuid.UUID, published bool) (*vo.Greeting, error)
	DeleteGreeting(ctx context.Context, greetingID uuid.UUID) (*vo.GreetingDeleted, error)
}

// GreetingHandler 处理问候记录相关的 HTTP 请求。
type GreetingHandler struct {
	*BaseHandler
	svc GreetingService
}

// NewGreetingHandler 构造问候记录 Handler。
func NewGreetingHandler(svc GreetingService, base *BaseHandler) *GreetingHandler {
	if base == nil {
		base = NewBaseHandler(configloader.HandlerTimeouts{})
	}
	return &GreetingHandler{BaseHandler: base, svc: svc}
}

// RegisterGreetingHTTPServer 将问候记录路由挂载到 Kratos HTTP Server。
func RegisterGreetingHTTPServer(s *http.Server, h *GreetingHandler) {
	r := s.Route("/")
	r.POST("/v1/greetings", h.createGreeting)
	r.GET("/v1/greetings", h.listGreetings)
	r.GET("/v1/greetings/{id}", h.getGreeting)
	r.PATCH("/v1/greetings/{id}", h.updateGreeting)
	r.DELETE("/v1/greetings/{id}", h.deleteGreeting)
	r.POST("/v1/greetings/{id}/publish", h.publishGreeting(true))
	r.POST("/v1/greetings/{id}/unpublish", h.publishGreeting(false))
}

func (h *GreetingHandler) createGreeting(ctx http.Context) error {
	var in dto.CreateGreetingRequest
	if err := ctx.Bind(&in); err != nil {
		return err
	}
	http.SetOperation(ctx, OperationCreateGreeting)
	m := ctx.Middleware(func(ctx context.Context, req any) (any, error) {
		callCtx, cancel := h.prepare(ctx, HandlerTypeCommand)
		defer cancel()
		return h.svc.CreateGreeting(callCtx, dto.ToCreateGreetingInput(req.(*dto.CreateGreetingRequest)))
	})
	out, err := m(ctx, &in)
	if err != nil {
		return err
	}
	return ctx.Result(stdhttp.StatusCreated, views.NewGreetingResponse(out.(*vo.Greeting)))
}

func (h *GreetingHandler) getGreeting(ctx http.Context) error {
	id, err := dto.ParseGreetingID(ctx.Vars().Get("id"))
	if err != nil {
		return services.ErrGreetingIDInvalid.WithCause(err)
	}
	http.SetOperation(ctx, OperationGetGreeting)
	m := ctx.Middleware(func(ctx context.Context, req any) (any, error) {
		callCtx, cancel := h.prepare(ctx, HandlerTypeQuery)
		defer cancel()
		return h.svc.GetGreeting(callCtx, req.(uuid.UUID))
	})
	out, err := m(ctx, id)
	if err != nil {
		return err
	}
	return ctx.Result(stdhttp.StatusOK, views.NewGreetingResponse(out.(*vo.Greeting)))
}

func (h *GreetingHandler) listGreetings(ctx http.Context) error {
	in, err := dto.ToListGreetingsInput(ctx.Query())
	if err != nil {
		return errors.BadRequest(services.ReasonRequestInvalid, err.Error())
	}
	http.SetOperation(ctx, OperationListGreetings)
	m := ctx.Middleware(func(ctx context.Context, req any) (any, error) {
		callCtx, cancel := h.prepare(ctx, HandlerTypeQuery)
		defer cancel()
		return h.svc.ListGreetings(callCtx, req.(services.ListGreetingsInput))
	})
	out, err := m(ctx, in)
	if err != nil {
		return err
	}
	limit := services.NormalizeListLimit(in.Limit)
	offset := max(in.Offset, 0)
	return ctx.Result(stdhttp.StatusOK, views.NewListGreetingsResponse(out.([]*vo.Greeting), limit, offset))
}

func (h *GreetingHandler) updateGreeting(ctx http.Context) error {
	var body dto.UpdateGreetingRequest
	if err := ctx.Bind(&body); err != nil {
		return err
	}
	in, err := dto.ToUpdateGreetingInput(ctx.Vars().Get("id"), &body)
	if err != nil {
		return services.ErrGreetingIDInvalid.WithCause(err)
	}
	http.SetOperation(ctx, OperationUpdateGreeting)
	m := ctx.Middleware(func(ctx context.Context, req any) (any, error) {
		callCtx, cancel := h.prepare(ctx, HandlerTypeCommand)
		defer cancel()
		return h.svc.UpdateGreeting(callCtx, req.(services.UpdateGreetingInput))
	})
	out, err := m(ctx, in)
	if err != nil {
		return err
	}
	return ctx.Result(stdhttp.StatusOK, views.NewGreetingResponse(out.(*vo.Greeting)))
}

func (h *GreetingHandler) deleteGreeting(ctx http.Context) error {
	id, err := dto.ParseGreetingID(ctx.Vars().Get("id"))
	if err != nil {
		return services.ErrGreetingIDInvalid.WithCause(err)
	}
	http.SetOperation(ctx, OperationDeleteGreeting)
	m := ctx.Middleware(func(ctx context.Context, req any) (any, error) {
		callCtx, cancel := h.prepare(ctx, HandlerTypeCommand)
		defer cancel()
		return h.svc.DeleteGreeting(callCtx, req.(uuid.UUID))
	})
	out, err := m(ctx, id)
	if err != nil {
		return err
	}
	return ctx.Result(stdhttp.StatusOK, views.NewDeleteGreetingResponse(out.(*vo.GreetingDeleted)))
}

func (h *GreetingHandler) publishGreeting(published bool) http.HandlerFunc {
	operation := OperationUnpublishGreeting
	if published {
		operation = OperationPublishGreeting
	}
	return func(ctx http.Context) error {
		id, err := dto.ParseGreetingID(ctx.Vars().Get("id"))
		if err != nil {
			return services.ErrGreetingIDInvalid.WithCause(err)
		}
		http.SetOperation(ctx, operation)
		m := ctx.Middleware(func(ctx context.Context, req any) (any, error) {
			callCtx, cancel := h.prepare(ctx, HandlerTypeCommand)
			defer cancel()
			return h.svc.SetPublished(callCtx, req.(uuid.UUID), published)
		})
		out, err := m(ctx, id)
		if err != nil {
			return err
		}
		return ctx.Result(stdhttp.StatusOK, views.NewGreetingResponse(out.(*vo.Greeting)))
	}
}
