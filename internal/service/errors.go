package service

import "blogs/internal/apperr"

// 业务层通用错误，handler 通过 apperr.Kind 映射到 HTTP 状态码。
var (
	ErrUsernameTaken      = apperr.New(apperr.KindDuplicateUsername, "username taken")
	ErrInvalidUsername    = apperr.Validation("username must be non-empty and contain only letters, digits and '_'")
	ErrInvalidCredentials = apperr.Unauthenticated("invalid credentials")
	ErrUserNotFound       = apperr.NotFound("user not found")
	ErrPostNotFound       = apperr.NotFound("post not found")
	ErrImageNotFound      = apperr.NotFound("image not found")
	ErrAvatarNotFound     = apperr.NotFound("avatar not found")
	ErrInvalidPage        = apperr.Validation("page must be a positive integer")
	ErrInvalidPageSize    = apperr.Validation("page size must be positive")
)
