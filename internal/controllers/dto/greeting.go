// Package dto 提供控制器层的请求解析与响应构造工具。
// 单独的 dto 层可以隔离 HTTP 请求体与业务用例之间的转换逻辑。
package dto

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/bionicotaku/lingo-services-hello/internal/services"

	"github.com/google/uuid"
)

// CreateGreetingRequest 是 POST /v1/greetings 的请求体。
type CreateGreetingRequest struct {
	Name        string  `json:"name"`
	Message     *string `json:"message,omitempty"`
	IsPublished *bool   `json:"is_published,omitempty"`
}

// UpdateGreetingRequest 是 PATCH /v1/greetings/{id} 的请求体，缺省字段保持不变。
type UpdateGreetingRequest struct {
	Name        *string `json:"name,omitempty"`
	Message     *string `json:"message,omitempty"`
	IsPublished *bool   `json:"is_published,omitempty"`
}

// ParseGreetingID 解析路径中的 id 字段。
func ParseGreetingID(raw string) (uuid.UUID, error) {
	id, err := uuid.Parse(strings.TrimSpace(raw))
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid greeting id: %w", err)
	}
	return id, nil
}

// ToCreateGreetingInput 将请求体映射为服务层输入。
func ToCreateGreetingInput(req *CreateGreetingRequest) services.CreateGreetingInput {
	if req == nil {
		return services.CreateGreetingInput{}
	}
	return services.CreateGreetingInput{
		Name:        req.Name,
		Message:     req.Message,
		IsPublished: req.IsPublished,
	}
}

// ToUpdateGreetingInput 将请求体映射为服务层输入。
func ToUpdateGreetingInput(rawID string, req *UpdateGreetingRequest) (services.UpdateGreetingInput, error) {
	id, err := ParseGreetingID(rawID)
	if err != nil {
		return services.UpdateGreetingInput{}, err
	}
	input := services.UpdateGreetingInput{GreetingID: id}
	if req != nil {
		input.Name = req.Name
		input.Message = req.Message
		input.IsPublished = req.IsPublished
	}
	return input, nil
}

// ToListGreetingsInput 解析列表查询参数：published、name_prefix、limit、offset。
func ToListGreetingsInput(query url.Values) (services.ListGreetingsInput, error) {
	var input services.ListGreetingsInput

	if raw := strings.TrimSpace(query.Get("published")); raw != "" {
		value, err := strconv.ParseBool(raw)
		if err != nil {
			return services.ListGreetingsInput{}, fmt.Errorf("invalid published: %w", err)
		}
		input.Published = &value
	}
	input.NamePrefix = strings.TrimSpace(query.Get("name_prefix"))

	limit, err := parseInt(query, "limit")
	if err != nil {
		return services.ListGreetingsInput{}, err
	}
	offset, err := parseInt(query, "offset")
	if err != nil {
		return services.ListGreetingsInput{}, err
	}
	input.Limit = limit
	input.Offset = offset
	return input, nil
}

func parseInt(query url.Values, key string) (int, error) {
	raw := strings.TrimSpace(query.Get(key))
	if raw == "" {
		return 0, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return value, nil
}
