package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

type Kind string

const (
	KindNotFound    Kind = "not_found"
	KindValidation  Kind = "validation"
	KindConflict    Kind = "conflict"
	KindProvider    Kind = "provider"
	KindPersistence Kind = "persistence"
)

// FieldError describes one rejected request field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

type AppError struct {
	Kind     Kind
	Resource string // set for KindNotFound / KindConflict
	Message  string
	Fields   []FieldError
	Err      error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Is matches on kind and resource so callers can compare against sentinels
// such as ErrUserNotFound with errors.Is.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return e.Kind == t.Kind && (t.Resource == "" || e.Resource == t.Resource)
}

func (e *AppError) HTTPStatus() int {
	switch e.Kind {
	case KindNotFound:
		return http.StatusNotFound
	case KindValidation:
		return http.StatusUnprocessableEntity
	case KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

var (
	ErrUserNotFound    = &AppError{Kind: KindNotFound, Resource: "user"}
	ErrSessionNotFound = &AppError{Kind: KindNotFound, Resource: "session"}
	ErrValidation      = &AppError{Kind: KindValidation}
	ErrProvider        = &AppError{Kind: KindProvider}
	ErrPersistence     = &AppError{Kind: KindPersistence}
)

func NotFound(resource, message string) *AppError {
	return &AppError{Kind: KindNotFound, Resource: resource, Message: message}
}

func UserNotFound() *AppError {
	return NotFound("user", "User not found. Please sign up/login first.")
}

func SessionNotFound() *AppError {
	return NotFound("session", "Session not found")
}

func Validation(fields ...FieldError) *AppError {
	return &AppError{Kind: KindValidation, Message: "Invalid request", Fields: fields}
}

func Conflict(resource, message string) *AppError {
	return &AppError{Kind: KindConflict, Resource: resource, Message: message}
}

func Provider(err error) *AppError {
	return &AppError{Kind: KindProvider, Message: "completion provider failed", Err: err}
}

func Persistence(err error) *AppError {
	return &AppError{Kind: KindPersistence, Message: "storage failure", Err: err}
}

// Detail is the message of the underlying cause, empty when there is none.
func (e *AppError) Detail() string {
	if e.Err == nil {
		return ""
	}
	return e.Err.Error()
}

// As extracts an *AppError from the chain.
func As(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}
