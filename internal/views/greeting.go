// Package views 将 Service 层返回的 VO 渲染为 HTTP JSON 响应体，保持 Controller 层的精简。
package views

import (
	"time"

	"github.com/bionicotaku/lingo-services-hello/internal/manifest"
	"github.com/bionicotaku/lingo-services-hello/internal/models/vo"
)

// GreetingResponse 是单条问候记录的响应体。
type GreetingResponse struct {
	Greeting *vo.Greeting `json:"greeting"`
}

// ListGreetingsResponse 是列表查询的响应体。
type ListGreetingsResponse struct {
	Items  []*vo.Greeting `json:"items"`
	Count  int            `json:"count"`
	Limit  int            `json:"limit"`
	Offset int            `json:"offset"`
}

// DeleteGreetingResponse 是删除操作的响应体。
type DeleteGreetingResponse struct {
	ID        string    `json:"id"`
	DeletedAt time.Time `json:"deleted_at"`
	EventID   string    `json:"event_id"`
}

// ManifestResponse 是模块清单的响应体。
type ManifestResponse struct {
	Manifest *manifest.Manifest `json:"manifest"`
}

// NewGreetingResponse 渲染单条记录；nil 时返回空响应以避免 panic。
func NewGreetingResponse(greeting *vo.Greeting) *GreetingResponse {
	return &GreetingResponse{Greeting: greeting}
}

// NewListGreetingsResponse 渲染列表，Items 永不为 nil，保证 JSON 输出为 []。
func NewListGreetingsResponse(items []*vo.Greeting, limit, offset int) *ListGreetingsResponse {
	if items == nil {
		items = []*vo.Greeting{}
	}
	return &ListGreetingsResponse{
		Items:  items,
		Count:  len(items),
		Limit:  limit,
		Offset: offset,
	}
}

// NewDeleteGreetingResponse 渲染删除结果。
func NewDeleteGreetingResponse(deleted *vo.GreetingDeleted) *DeleteGreetingResponse {
	if deleted == nil {
		return &DeleteGreetingResponse{}
	}
	return &DeleteGreetingResponse{
		ID:        deleted.ID.String(),
		DeletedAt: deleted.DeletedAt,
		EventID:   deleted.EventID.String(),
	}
}

// NewManifestResponse 渲染模块清单。
func NewManifestResponse(m *manifest.Manifest) *ManifestResponse {
	return &ManifestResponse{Manifest: m}
}
