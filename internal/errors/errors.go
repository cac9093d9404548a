// Package errors defines the application error taxonomy and a handler that
// logs each kind at its own severity.
package errors

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime"
)

// ErrorType represents different types of errors
type ErrorType string

const (
	ErrorTypeValidation ErrorType = "validation"
	ErrorTypeDatabase   ErrorType = "database"
	ErrorTypeNotFound   ErrorType = "not_found"
	ErrorTypePermission ErrorType = "permission"
	ErrorTypeRendering  ErrorType = "rendering"
	ErrorTypeExternal   ErrorType = "external_api"
	ErrorTypeInternal   ErrorType = "internal"
	ErrorTypeTimeout    ErrorType = "timeout"
)

// AppError carries the kind of failure, a stable code and structured context
type AppError struct {
	Type     ErrorType
	Message  string
	Code     string
	Internal error
	Context  map[string]any
	Source   string
}

func (e *AppError) Error() string {
	if e.Internal != nil {
		return fmt.Sprintf("%s: %s (internal: %v)", e.Type, e.Message, e.Internal)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Internal
}

// Is matches another AppError by type and code, otherwise defers to the
// wrapped error.
func (e *AppError) Is(target error) bool {
	if t, ok := target.(*AppError); ok {
		return e.Type == t.Type && e.Code == t.Code
	}
	return errors.Is(e.Internal, target)
}

// WithContext attaches a key/value pair that is emitted when the error is logged
func (e *AppError) WithContext(key string, value any) *AppError {
	if e.Context == nil {
		e.Context = make(map[string]any)
	}
	e.Context[key] = value
	return e
}

// LogFields returns the error as slog key/value pairs
func (e *AppError) LogFields() []any {
	fields := []any{
		"error_type", e.Type,
		"error_code", e.Code,
		"error_message", e.Message,
		"source", e.Source,
	}
	if e.Internal != nil {
		fields = append(fields, "internal_error", e.Internal.Error())
	}
	for k, v := range e.Context {
		fields = append(fields, k, v)
	}
	return fields
}

// build records the caller of the exported constructor as Source
func build(errorType ErrorType, code, message string, internal error) *AppError {
	_, file, line, _ := runtime.Caller(2)
	return &AppError{
		Type:     errorType,
		Code:     code,
		Message:  message,
		Internal: internal,
		Source:   fmt.Sprintf("%s:%d", file, line),
		Context:  make(map[string]any),
	}
}

// TypeOf returns the ErrorType of err, or ErrorTypeInternal for errors that
// are not AppErrors
func TypeOf(err error) ErrorType {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Type
	}
	return ErrorTypeInternal
}

// IsType reports whether err is an AppError of the given type
func IsType(err error, errorType ErrorType) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Type == errorType
}

// Sentinels for errors.Is checks. They match any AppError with the same type
// and code.
var (
	ErrInvalidInput  = &AppError{Type: ErrorTypeValidation, Code: "VALIDATION"}
	ErrDatabaseError = &AppError{Type: ErrorTypeDatabase, Code: "DB_ERROR"}
	ErrTestNotFound  = &AppError{Type: ErrorTypeNotFound, Code: "NOT_FOUND"}
	ErrTimeout       = &AppError{Type: ErrorTypeTimeout, Code: "TIMEOUT"}
)

func NewValidationError(message string) *AppError {
	return build(ErrorTypeValidation, "VALIDATION", message, nil)
}

func NewDatabaseError(err error) *AppError {
	return build(ErrorTypeDatabase, "DB_ERROR", "Database operation failed", err)
}

func NewNotFoundError(entity string, id any) *AppError {
	return build(ErrorTypeNotFound, "NOT_FOUND", entity+" not found", nil).WithContext("id", id)
}

func NewPermissionError(message string) *AppError {
	return build(ErrorTypePermission, "FORBIDDEN", message, nil)
}

func NewRenderingError(err error, format string) *AppError {
	return build(ErrorTypeRendering, "RENDER_FAILED", format+" rendering failed", err).
		WithContext("format", format)
}

func NewExternalAPIError(err error, api string) *AppError {
	return build(ErrorTypeExternal, "EXTERNAL_API", api+" API error", err).
		WithContext("api", api)
}

func NewTimeoutError(err error, operation string) *AppError {
	return build(ErrorTypeTimeout, "TIMEOUT", operation+" operation timed out", err).
		WithContext("operation", operation)
}

func NewInternalError(err error) *AppError {
	return build(ErrorTypeInternal, "INTERNAL", "Internal error", err)
}

// Handler logs errors according to their type
type Handler struct {
	logger *slog.Logger
}

// NewHandler creates a handler; a nil logger means slog.Default
func NewHandler(logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{logger: logger}
}

// Handle logs err. Expected rejections are info, everything else is at least warn.
func (h *Handler) Handle(ctx context.Context, err error) {
	if err == nil {
		return
	}

	var appErr *AppError
	if !errors.As(err, &appErr) {
		h.logger.ErrorContext(ctx, "Unhandled error", "error", err.Error())
		return
	}

	switch appErr.Type {
	case ErrorTypeValidation, ErrorTypeNotFound:
		h.logger.InfoContext(ctx, "Rejected request", appErr.LogFields()...)
	case ErrorTypePermission:
		h.logger.WarnContext(ctx, "Permission error", appErr.LogFields()...)
	case ErrorTypeRendering, ErrorTypeExternal:
		h.logger.WarnContext(ctx, "Degraded operation", appErr.LogFields()...)
	default:
		h.logger.ErrorContext(ctx, "Critical error", appErr.LogFields()...)
	}
}

// LogAndReturn logs an error and returns it
func (h *Handler) LogAndReturn(ctx context.Context, err error) error {
	h.Handle(ctx, err)
	return err
}
