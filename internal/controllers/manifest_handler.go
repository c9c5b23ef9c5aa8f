package controllers

import (
	"context"
	stdhttp "net/http"

	"github.com/bionicotaku/lingo-services-hello/internal/manifest"
	"github.com/bionicotaku/lingo-services-hello/internal/views"

	"github.com/go-kratos/kratos/v2/errors"
	"github.com/go-kratos/kratos/v2/transport/http"
)

// OperationGetManifest 是模块清单查询的 Operation 名称。
const OperationGetManifest = "/hello.v1.ManifestService/GetManifest"

// ReasonModelNotFound 表示清单中不存在请求的模型。
const ReasonModelNotFound = "MANIFEST_MODEL_NOT_FOUND"

// ManifestHandler 以只读方式暴露嵌入的模块清单。
type ManifestHandler struct {
	manifest *manifest.Manifest
}

// NewManifestHandler 构造清单 Handler；m 为 nil 时使用嵌入的默认清单。
func NewManifestHandler(m *manifest.Manifest) *ManifestHandler {
	if m == nil {
		m = manifest.Default()
	}
	return &ManifestHandler{manifest: m}
}

// RegisterManifestHTTPServer 挂载 GET /v1/manifest 与 GET /v1/manifest/models/{name}。
func RegisterManifestHTTPServer(s *http.Server, h *ManifestHandler) {
	r := s.Route("/")
	r.GET("/v1/manifest", h.getManifest)
	r.GET("/v1/manifest/models/{name}", h.getModel)
}

func (h *ManifestHandler) getManifest(ctx http.Context) error {
	http.SetOperation(ctx, OperationGetManifest)
	m := ctx.Middleware(func(context.Context, any) (any, error) {
		return views.NewManifestResponse(h.manifest), nil
	})
	out, err := m(ctx, nil)
	if err != nil {
		return err
	}
	return ctx.Result(stdhttp.StatusOK, out)
}

func (h *ManifestHandler) getModel(ctx http.Context) error {
	name := ctx.Vars().Get("name")
	http.SetOperation(ctx, OperationGetManifest)
	m := ctx.Middleware(func(_ context.Context, req any) (any, error) {
		model, ok := h.manifest.Model(req.(string))
		if !ok {
			return nil, errors.NotFound(ReasonModelNotFound, "model not found: "+req.(string))
		}
		return model, nil
	})
	out, err := m(ctx, name)
	if err != nil {
		return err
	}
	return ctx.Result(stdhttp.StatusOK, out)
}
