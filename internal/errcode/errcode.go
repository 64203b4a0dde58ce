package errcode

import (
	"errors"
	"net/http"
)

// Kind 对错误进行分类，HTTP 层据此选择状态码：
// - Validation：输入缺失或格式错误
// - Unauthenticated：缺少/无效令牌或凭据错误
// - Forbidden：角色或归属不符
// - NotFound / Conflict：资源缺失或重复
// - Unavailable：存储不可达
type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindUnauthenticated
	KindForbidden
	KindNotFound
	KindConflict
	KindUnavailable
)

// Error carries a client-safe message and an optional internal cause.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

func newError(kind Kind, msg string, cause error) *Error {
	return &Error{Kind: kind, Message: msg, Err: cause}
}

func Validation(msg string) *Error      { return newError(KindValidation, msg, nil) }
func Unauthenticated(msg string) *Error { return newError(KindUnauthenticated, msg, nil) }
func Forbidden(msg string) *Error       { return newError(KindForbidden, msg, nil) }
func NotFound(msg string) *Error        { return newError(KindNotFound, msg, nil) }
func Conflict(msg string) *Error        { return newError(KindConflict, msg, nil) }

// Unavailable wraps a store failure. The cause is logged, never shown to clients.
func Unavailable(cause error) *Error {
	return newError(KindUnavailable, "service temporarily unavailable", cause)
}

// Internal wraps an unexpected failure.
func Internal(cause error) *Error {
	return newError(KindInternal, "internal error", cause)
}

// KindOf returns the kind of the first *Error in the chain, KindInternal otherwise.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// Is reports whether err carries the given kind.
func Is(err error, kind Kind) bool {
	if err == nil {
		return false
	}
	return KindOf(err) == kind
}

// HTTPStatus maps a kind to its response status.
func HTTPStatus(kind Kind) int {
	switch kind {
	case KindValidation:
		return http.StatusBadRequest
	case KindUnauthenticated:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// PublicMessage returns the text that may be shown to clients.
func PublicMessage(err error) string {
	var e *Error
	if !errors.As(err, &e) {
		return "internal error"
	}
	switch e.Kind {
	case KindUnavailable:
		return "service temporarily unavailable"
	case KindInternal:
		return "internal error"
	default:
		return e.Message
	}
}
