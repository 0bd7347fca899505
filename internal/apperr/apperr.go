package apperr

import (
	"fmt"
	"net/http"
)

// Error 业务错误，携带对应的 HTTP 状态码和用户可读的消息
type Error struct {
	Status  int    // HTTP 状态码
	Message string // 错误消息
}

func (e *Error) Error() string {
	return fmt.Sprintf("code=%d, msg=%s", e.Status, e.Message)
}

func New(status int, msg string) *Error {
	return &Error{Status: status, Message: msg}
}

// Unauthenticated 缺少或无效的凭据
func Unauthenticated(msg string) *Error {
	return New(http.StatusUnauthorized, msg)
}

// Forbidden 已认证但无权限
func Forbidden(msg string) *Error {
	return New(http.StatusForbidden, msg)
}

// NotFound 引用的实体不存在
func NotFound(msg string) *Error {
	return New(http.StatusNotFound, msg)
}

// Conflict 唯一性冲突（邮箱、标题）
func Conflict(msg string) *Error {
	return New(http.StatusBadRequest, msg)
}

// InvalidInput 请求字段非法或超出范围
func InvalidInput(msg string) *Error {
	return New(http.StatusBadRequest, msg)
}

// InvalidState 当前实体状态下操作不合法（嵌套回复、未激活用户）
func InvalidState(msg string) *Error {
	return New(http.StatusBadRequest, msg)
}
