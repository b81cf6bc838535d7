package usecase

import "errors"

// Service-level errors. Handlers map these to HTTP statuses with
// errors.Is, so services must wrap rather than replace them.
var (
	ErrValidation           = errors.New("validation failed")
	ErrInvalidOrExpiredCode = errors.New("invalid or expired verification code")
	ErrUsernameTaken        = errors.New("username already taken")
	ErrNotFound             = errors.New("not found")
	ErrForbidden            = errors.New("forbidden")
	ErrConflict             = errors.New("conflict")
	ErrUnauthorized         = errors.New("unauthorized")
)
