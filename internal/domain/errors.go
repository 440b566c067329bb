package domain

import (
	"fmt"
)

// ValidationError 表示调用方传入的参数不合法，直接返回给调用方，不会自动重试
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func NewValidationError(format string, args ...any) *ValidationError {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// ConflictError 表示目标格子已经被占用，或者乐观锁版本号不匹配。
// 调用方需要重新读取后显式重试，本服务不会用 last-write-wins 静默解决。
type ConflictError struct {
	Message string
}

func (e *ConflictError) Error() string {
	return e.Message
}

func NewConflictError(format string, args ...any) *ConflictError {
	return &ConflictError{Message: fmt.Sprintf(format, args...)}
}

// NotFoundError 表示操作引用的记录不存在
type NotFoundError struct {
	Message string
}

func (e *NotFoundError) Error() string {
	return e.Message
}

func NewNotFoundError(format string, args ...any) *NotFoundError {
	return &NotFoundError{Message: fmt.Sprintf(format, args...)}
}
