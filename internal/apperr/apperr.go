// Package apperr 定义业务层统一的错误类型，以及它到 HTTP 状态码的唯一映射。
package apperr

import (
	"errors"
	"net/http"
)

// Kind 是封闭的错误分类集合。
type Kind int

const (
	KindStorage Kind = iota
	KindUnauthenticated
	KindForbidden
	KindNotFound
	KindValidation
	KindDuplicateUsername
	KindHashing
)

func (k Kind) String() string {
	switch k {
	case KindUnauthenticated:
		return "unauthenticated"
	case KindForbidden:
		return "forbidden"
	case KindNotFound:
		return "not_found"
	case KindValidation:
		return "validation_error"
	case KindDuplicateUsername:
		return "duplicate_username"
	case KindHashing:
		return "hashing_error"
	default:
		return "storage_error"
	}
}

// Status 返回该分类对应的 HTTP 状态码。
func (k Kind) Status() int {
	switch k {
	case KindUnauthenticated:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	case KindValidation:
		return http.StatusBadRequest
	case KindDuplicateUsername:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// Is 让 errors.Is 按分类匹配，例如 errors.Is(err, apperr.ErrNotFound)。
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Err == nil && t.Message == "" && t.Kind == e.Kind
}

// 仅用于 errors.Is 的分类哨兵。
var (
	ErrUnauthenticated   = &Error{Kind: KindUnauthenticated}
	ErrForbidden         = &Error{Kind: KindForbidden}
	ErrNotFound          = &Error{Kind: KindNotFound}
	ErrValidation        = &Error{Kind: KindValidation}
	ErrDuplicateUsername = &Error{Kind: KindDuplicateUsername}
	ErrStorage           = &Error{Kind: KindStorage}
	ErrHashing           = &Error{Kind: KindHashing}
)

func New(kind Kind, msg string) *Error {
	return &Error{Kind: kind, Message: msg}
}

func Wrap(kind Kind, msg string, err error) *Error {
	return &Error{Kind: kind, Message: msg, Err: err}
}

func Unauthenticated(msg string) *Error { return New(KindUnauthenticated, msg) }
func Forbidden(msg string) *Error       { return New(KindForbidden, msg) }
func NotFound(msg string) *Error        { return New(KindNotFound, msg) }
func Validation(msg string) *Error      { return New(KindValidation, msg) }

// Storage 包装连接池或查询失败，原始错误保留用于诊断。
func Storage(msg string, err error) *Error { return Wrap(KindStorage, msg, err) }

// KindOf 提取错误分类，非 *Error 的错误一律视为存储错误。
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindStorage
}

// Message 返回面向用户的消息；存储类错误不暴露底层细节。
func Message(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return "internal error"
}
