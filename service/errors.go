package service

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
)

// Kind 错误分类，由 response 层映射为 HTTP 状态码
type Kind int

const (
	KindInternal        Kind = iota // 500
	KindValidation                  // 400
	KindUnauthenticated             // 401
	KindForbidden                   // 403
	KindNotFound                    // 404
	KindConflict                    // 400（重复注册等）
)

// Error 业务错误，Msg 可直接返回给客户端
type Error struct {
	Kind Kind
	Msg  string
	Err  error // 内部原因，不返回给客户端
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Msg, e.Err)
	}
	return e.Msg
}

func (e *Error) Unwrap() error { return e.Err }

func newErr(kind Kind, msg string) *Error { return &Error{Kind: kind, Msg: msg} }

func ErrValidation(msg string) *Error { return newErr(KindValidation, msg) }

func ErrForbidden(msg string) *Error { return newErr(KindForbidden, msg) }

func ErrNotFound(msg string) *Error { return newErr(KindNotFound, msg) }

func ErrConflict(msg string) *Error { return newErr(KindConflict, msg) }

func ErrUnauthenticated(msg string) *Error { return newErr(KindUnauthenticated, msg) }

// 常用错误
var (
	ErrNotAuthenticated   = ErrUnauthenticated("Not authenticated")
	ErrInvalidCredentials = ErrUnauthenticated("Invalid email or password")
	ErrSessionNotFound    = ErrUnauthenticated("Session not found")
	ErrNoticeNotFound     = ErrNotFound("Notice not found")
	ErrUserNotFound       = ErrNotFound("User not found")
	ErrPermissionDenied   = ErrForbidden("Permission denied")
)

// KindOf 取错误分类，非 *Error 视为内部错误
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// notFoundOr gorm 未找到映射为 nf，其它错误原样返回
func notFoundOr(err error, nf *Error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nf
	}
	return err
}
