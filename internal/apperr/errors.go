// Package apperr описывает единый тип ошибки приложения: вид ошибки плюс
// сообщение, которое можно показать пользователю. Как именно показать
// (страница, лог, редирект) решает вызывающий handler.
package apperr

import (
	"errors"
	"net/http"
)

var (
	// ErrNotFound — сигнал "строка не найдена" от хранилища.
	ErrNotFound = errors.New("row not found")
	// ErrConflict — нарушено ограничение уникальности.
	ErrConflict = errors.New("row already exists")
)

type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindUnauthorized
	KindForbidden
	KindNotFound
	KindBackend
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindUnauthorized:
		return "unauthorized"
	case KindForbidden:
		return "forbidden"
	case KindNotFound:
		return "not_found"
	case KindBackend:
		return "backend"
	default:
		return "internal"
	}
}

// Error — ошибка с видом и пользовательским сообщением.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.Kind.String()
}

func (e *Error) Unwrap() error { return e.Err }

func Validation(msg string) error {
	return &Error{Kind: KindValidation, Message: msg}
}

func Unauthorized(msg string) error {
	return &Error{Kind: KindUnauthorized, Message: msg}
}

func Forbidden(msg string) error {
	return &Error{Kind: KindForbidden, Message: msg}
}

func NotFound(msg string, err error) error {
	return &Error{Kind: KindNotFound, Message: msg, Err: err}
}

// Backend оборачивает ошибку внешней системы; ее текст показывается как есть.
func Backend(err error) error {
	return &Error{Kind: KindBackend, Err: err}
}

// KindOf возвращает вид ошибки; ErrNotFound без обертки считается KindNotFound.
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	if errors.Is(err, ErrNotFound) {
		return KindNotFound
	}
	return KindInternal
}

// Message — текст для пользователя.
func Message(err error) string {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Error()
	}
	return err.Error()
}

// HTTPStatus отображает вид ошибки в HTTP-статус.
func HTTPStatus(err error) int {
	switch KindOf(err) {
	case KindValidation:
		return http.StatusBadRequest
	case KindUnauthorized:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	case KindBackend:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
