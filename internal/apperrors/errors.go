// Package apperrors holds the error taxonomy shared by services and handlers.
package apperrors

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies an application error.
type Kind string

const (
	KindValidation          Kind = "VALIDATION"
	KindNotFound            Kind = "NOT_FOUND"
	KindConflict            Kind = "CONFLICT"
	KindStore               Kind = "STORE"
	KindNotificationPending Kind = "NOTIFICATION_PENDING"
	KindInternal            Kind = "INTERNAL"
)

// AppError is a classified error with a caller-facing message.
type AppError struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Kind, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Is matches any *AppError of the same kind, so errors.Is(err, ErrNotFound) works.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return t.Kind == e.Kind && t.Message == ""
}

// Kind sentinels for errors.Is checks.
var (
	ErrValidation          = &AppError{Kind: KindValidation}
	ErrNotFound            = &AppError{Kind: KindNotFound}
	ErrConflict            = &AppError{Kind: KindConflict}
	ErrStore               = &AppError{Kind: KindStore}
	ErrNotificationPending = &AppError{Kind: KindNotificationPending}
)

func Validation(message string) *AppError {
	return &AppError{Kind: KindValidation, Message: message}
}

func NotFound(message string) *AppError {
	return &AppError{Kind: KindNotFound, Message: message}
}

func Conflict(message string) *AppError {
	return &AppError{Kind: KindConflict, Message: message}
}

// Store wraps a persistence failure.
func Store(op string, err error) *AppError {
	return &AppError{Kind: KindStore, Message: op, Err: err}
}

// NotificationPending reports that the primary write succeeded but the
// derived notification could not be delivered yet.
func NotificationPending(err error) *AppError {
	return &AppError{Kind: KindNotificationPending, Message: "request saved, notification delivery deferred", Err: err}
}

// KindOf returns the kind of err, or KindInternal for unclassified errors.
func KindOf(err error) Kind {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindInternal
}

// MessageOf returns the caller-facing message. Store and internal errors
// never leak their cause.
func MessageOf(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		switch appErr.Kind {
		case KindStore, KindInternal:
			return "internal server error"
		}
		return appErr.Message
	}
	return "internal server error"
}

// HTTPStatus maps an error to its response status. A self-request conflict is
// reported as 400 like any other rejected input.
func HTTPStatus(err error) int {
	switch KindOf(err) {
	case KindValidation, KindConflict:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindNotificationPending:
		return http.StatusAccepted
	default:
		return http.StatusInternalServerError
	}
}
