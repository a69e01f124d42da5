package errors

import (
	"errors"
	"fmt"
)

// Error kinds surfaced to API clients.
const (
	KindValidation      = "validation"
	KindAuth            = "auth"
	KindUpstreamTimeout = "upstream-timeout"
	KindUpstreamFailure = "upstream-failure"
	KindPersistence     = "persistence-failure"
	KindCache           = "cache-failure"
)

type AppError struct {
	Message    string
	Kind       string
	StatusCode int
	Context    map[string]any
	Cause      error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

func (e *AppError) WithCause(cause error) *AppError {
	e.Cause = cause
	return e
}

// Retryable reports whether the caller should be told to retry, which is only
// the case for timeout-shaped failures.
func (e *AppError) Retryable() bool {
	return e.Kind == KindUpstreamTimeout
}

type ValidationError struct {
	*AppError
	Field string
	Value any
}

// Unwrap exposes the embedded AppError so errors.As can recover the kind.
func (e *ValidationError) Unwrap() error {
	return e.AppError
}

func NewValidationError(message, field string, value any) *ValidationError {
	return &ValidationError{
		AppError: &AppError{
			Message:    message,
			Kind:       KindValidation,
			StatusCode: 400,
			Context: map[string]any{
				"field": field,
				"value": value,
			},
		},
		Field: field,
		Value: value,
	}
}

type AuthError struct {
	*AppError
}

func (e *AuthError) Unwrap() error {
	return e.AppError
}

func NewAuthError(message string) *AuthError {
	return &AuthError{
		AppError: &AppError{
			Message:    message,
			Kind:       KindAuth,
			StatusCode: 401,
		},
	}
}

type UpstreamError struct {
	*AppError
	Provider string
}

func (e *UpstreamError) Unwrap() error {
	return e.AppError
}

func NewUpstreamError(message, provider string, cause error) *UpstreamError {
	return &UpstreamError{
		AppError: &AppError{
			Message:    message,
			Kind:       KindUpstreamFailure,
			StatusCode: 502,
			Context:    map[string]any{"provider": provider},
			Cause:      cause,
		},
		Provider: provider,
	}
}

// NewTimeoutError marks a request that blew its wall-clock budget. Clients
// surface a "try shorter input" hint for this kind only.
func NewTimeoutError(message string, cause error) *UpstreamError {
	return &UpstreamError{
		AppError: &AppError{
			Message:    message,
			Kind:       KindUpstreamTimeout,
			StatusCode: 504,
			Cause:      cause,
		},
	}
}

type PersistenceError struct {
	*AppError
	Operation string
}

func (e *PersistenceError) Unwrap() error {
	return e.AppError
}

func NewPersistenceError(message, operation string, cause error) *PersistenceError {
	return &PersistenceError{
		AppError: &AppError{
			Message:    message,
			Kind:       KindPersistence,
			StatusCode: 500,
			Context:    map[string]any{"operation": operation},
			Cause:      cause,
		},
		Operation: operation,
	}
}

type CacheError struct {
	*AppError
	Operation string
	Key       string
}

func (e *CacheError) Unwrap() error {
	return e.AppError
}

func NewCacheError(message, operation, key string, cause error) *CacheError {
	return &CacheError{
		AppError: &AppError{
			Message:    message,
			Kind:       KindCache,
			StatusCode: 500,
			Context: map[string]any{
				"operation": operation,
				"key":       key,
			},
			Cause: cause,
		},
		Operation: operation,
		Key:       key,
	}
}

// Kind extracts the taxonomy kind from any error, defaulting to
// upstream-failure for errors that carry no kind of their own.
func Kind(err error) string {
	var app *AppError
	if errors.As(err, &app) {
		return app.Kind
	}
	return KindUpstreamFailure
}

// Status extracts the HTTP status for an error, defaulting to 500.
func Status(err error) int {
	var app *AppError
	if errors.As(err, &app) && app.StatusCode != 0 {
		return app.StatusCode
	}
	return 500
}
