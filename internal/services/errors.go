package services

import "github.com/go-kratos/kratos/v2/errors"

// 错误原因码，随 Kratos 错误的 reason 字段返回给调用方。
const (
	ReasonGreetingNameRequired  = "GREETING_NAME_REQUIRED"
	ReasonGreetingTextInvalid   = "GREETING_TEXT_INVALID"
	ReasonGreetingUpdateInvalid = "GREETING_UPDATE_INVALID"
	ReasonGreetingIDInvalid     = "GREETING_ID_INVALID"
	ReasonGreetingNotFound      = "GREETING_NOT_FOUND"
	ReasonGreetingStoreFailed   = "GREETING_STORE_FAILED"
	ReasonQueryTimeout          = "QUERY_TIMEOUT"
	ReasonRequestInvalid        = "REQUEST_INVALID"
)

var (
	// ErrGreetingNotFound 问候记录不存在。
	ErrGreetingNotFound = errors.NotFound(ReasonGreetingNotFound, "greeting not found")
	// ErrGreetingNameRequired name 缺失或为空白。
	ErrGreetingNameRequired = errors.BadRequest(ReasonGreetingNameRequired, "name is required")
	// ErrGreetingTextInvalid name 或 message 含 NUL 字符，PostgreSQL text 无法存储。
	ErrGreetingTextInvalid = errors.BadRequest(ReasonGreetingTextInvalid, "name and message must not contain NUL characters")
	// ErrGreetingIDInvalid id 不是合法 UUID。
	ErrGreetingIDInvalid = errors.BadRequest(ReasonGreetingIDInvalid, "invalid greeting id")
)
