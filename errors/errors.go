package errors

import (
	"fmt"
	"net/http"
	"strings"
)

type ErrorType string

const (
	ValidationError ErrorType = "VALIDATION_ERROR"
	BadRequestError ErrorType = "BAD_REQUEST"
	NotFoundError   ErrorType = "NOT_FOUND"
	AuthError       ErrorType = "AUTHENTICATION_ERROR"
	RateLimitError  ErrorType = "RATE_LIMIT_EXCEEDED"
	DatabaseError   ErrorType = "DATABASE_ERROR"
	ServerError     ErrorType = "SERVER_ERROR"
)

// Issues maps a request field to the messages describing what is wrong with it.
type Issues map[string][]string

// Add appends message to field.
func (i Issues) Add(field, message string) {
	i[field] = append(i[field], message)
}

// AppError is a caller-facing error raised where a failure is detected and
// translated to the wire format once, by the error handler middleware.
type AppError struct {
	Type       ErrorType `json:"type"`
	Code       string    `json:"code,omitempty"`
	Message    string    `json:"message"`
	Messages   []string  `json:"messages,omitempty"`
	Issues     Issues    `json:"issues,omitempty"`
	HTTPStatus int       `json:"-"`
	Raw        error     `json:"-"`
}

func (e *AppError) Error() string {
	msg := e.Message
	if msg == "" && len(e.Messages) > 0 {
		msg = strings.Join(e.Messages, ", ")
	}
	out := fmt.Sprintf("%s: %s", e.Type, msg)
	switch {
	case len(e.Issues) > 0:
		out = fmt.Sprintf("%s %v", out, map[string][]string(e.Issues))
	case e.Code != "":
		out = fmt.Sprintf("%s (%s)", out, e.Code)
	}
	if e.Raw != nil {
		out += ": " + e.Raw.Error()
	}
	return out
}

func (e *AppError) Unwrap() error {
	return e.Raw
}

// GetHTTPStatus returns the status the error maps to, defaulting to 500.
func (e *AppError) GetHTTPStatus() int {
	if e.HTTPStatus == 0 {
		return getHTTPStatus(e.Type)
	}
	return e.HTTPStatus
}

// New creates an AppError with the status implied by errType.
func New(errType ErrorType, message string) *AppError {
	return &AppError{
		Type:       errType,
		Message:    message,
		HTTPStatus: getHTTPStatus(errType),
	}
}

// Wrap attaches AppError context to a raw error.
func Wrap(err error, errType ErrorType, message string) *AppError {
	if err == nil {
		return nil
	}
	return &AppError{
		Type:       errType,
		Message:    message,
		HTTPStatus: getHTTPStatus(errType),
		Raw:        err,
	}
}

// ValidationFailed builds a validation error with one message per field.
func ValidationFailed(fields map[string]string) *AppError {
	issues := make(Issues, len(fields))
	for field, msg := range fields {
		issues.Add(field, msg)
	}
	return InvalidFields(issues)
}

// InvalidFields builds a validation error from a prepared issue set.
func InvalidFields(issues Issues) *AppError {
	return &AppError{
		Type:       ValidationError,
		Message:    "Validation failed",
		Issues:     issues,
		HTTPStatus: http.StatusBadRequest,
	}
}

func BadRequest(messages ...string) *AppError {
	return &AppError{
		Type:       BadRequestError,
		Messages:   messages,
		HTTPStatus: http.StatusBadRequest,
	}
}

func NotFound(entity string, id interface{}) *AppError {
	return &AppError{
		Type:       NotFoundError,
		Message:    fmt.Sprintf("%s not found", entity),
		Code:       fmt.Sprintf("%v", id),
		HTTPStatus: http.StatusNotFound,
	}
}

// Unauthorized is returned for every authentication failure. code carries the
// internal reason for logs; message is what the caller sees.
func Unauthorized(code, message string) *AppError {
	return &AppError{
		Type:       AuthError,
		Code:       code,
		Message:    message,
		HTTPStatus: http.StatusUnauthorized,
	}
}

func RateLimitExceeded(message string, retryAfterSeconds int) *AppError {
	return &AppError{
		Type:       RateLimitError,
		Code:       fmt.Sprintf("retry_after=%d", retryAfterSeconds),
		Message:    message,
		HTTPStatus: http.StatusTooManyRequests,
	}
}

// NewDatabaseError hides a persistence failure behind a generic 500.
func NewDatabaseError(err error) *AppError {
	return &AppError{
		Type:       DatabaseError,
		Message:    "Database operation failed",
		HTTPStatus: http.StatusInternalServerError,
		Raw:        err,
	}
}

func getHTTPStatus(errType ErrorType) int {
	switch errType {
	case ValidationError, BadRequestError:
		return http.StatusBadRequest
	case NotFoundError:
		return http.StatusNotFound
	case AuthError:
		return http.StatusUnauthorized
	case RateLimitError:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}
