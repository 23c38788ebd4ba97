package services

import (
	"errors"
	"fmt"
)

type Kind int

const (
	KindValidation Kind = iota + 1
	KindRateLimited
	KindAuth
	KindUnauthorized
	KindNotFound
	KindConflict
	KindServer
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindRateLimited:
		return "rate_limited"
	case KindAuth:
		return "auth"
	case KindUnauthorized:
		return "unauthorized"
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	case KindServer:
		return "server"
	default:
		return "unknown"
	}
}

// AppError: ошибка бизнес-логики. Message уходит клиенту как есть,
// Err остаётся только в логах.
type AppError struct {
	Kind       Kind
	Message    string
	RetryAfter int
	Err        error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *AppError) Unwrap() error { return e.Err }

var (
	ErrInvalidOrExpiredOTP      = &AppError{Kind: KindAuth, Message: "Invalid or expired OTP"}
	ErrInvalidGrant             = &AppError{Kind: KindAuth, Message: "Invalid or expired reset token"}
	ErrCurrentPasswordIncorrect = &AppError{Kind: KindAuth, Message: "Current password is incorrect"}
	ErrInvalidCredentials       = &AppError{Kind: KindAuth, Message: "Invalid credentials"}
	ErrAccountNotFound          = &AppError{Kind: KindNotFound, Message: "User not found"}
	ErrEmailTaken               = &AppError{Kind: KindConflict, Message: "User already exists"}
	ErrPasswordTooShort         = &AppError{Kind: KindValidation, Message: fmt.Sprintf("Password must be at least %d characters", minPasswordLen)}
	ErrPasswordTooLong          = &AppError{Kind: KindValidation, Message: fmt.Sprintf("Password must be at most %d bytes", maxPasswordLen)}
	ErrNothingToUpdate          = &AppError{Kind: KindValidation, Message: "No fields to update"}
)

func invalidRequest(msg string) *AppError {
	return &AppError{Kind: KindValidation, Message: msg}
}

func rateLimited(msg string, retryAfter int) *AppError {
	return &AppError{Kind: KindRateLimited, Message: msg, RetryAfter: retryAfter}
}

func serverError(msg string, err error) *AppError {
	return &AppError{Kind: KindServer, Message: msg, Err: err}
}

// KindOf возвращает вид ошибки; всё, что не AppError, считается серверной.
func KindOf(err error) Kind {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindServer
}
