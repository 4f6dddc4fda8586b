package minimalapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Registration errors. They are wrapped by ConfigurationError, ValidationError
// and DependencyMissingError and can be matched with errors.Is.
var (
	ErrOutsideRoot      = errors.New("endpoint outside root namespace")
	ErrSplitFormFields  = errors.New("form binding requires both FormField and ParamField, or neither")
	ErrUnknownField     = errors.New("form binding names an unknown field")
	ErrUnconstructible  = errors.New("request type cannot be constructed")
	ErrUnknownMethod    = errors.New("unknown HTTP method")
	ErrDuplicateRoute   = errors.New("duplicate route")
	ErrNotHandler       = errors.New("not a handler")
	ErrArityMismatch    = errors.New("arity mismatch")
	ErrResponseMismatch = errors.New("response type mismatch")
	ErrMissingHandler   = errors.New("endpoint has no handler")
)

// ConfigurationError reports endpoint metadata that is internally
// inconsistent. It always aborts registration.
type ConfigurationError struct {
	Type   reflect.Type
	Reason string
	Err    error
}

func (e *ConfigurationError) Error() string {
	msg := "minimalapi: configuration error"
	if e.Type != nil {
		msg += " in " + typeName(e.Type)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	return msg
}

func (e *ConfigurationError) Unwrap() error { return e.Err }

// ValidationError reports a candidate that does not satisfy the handler
// contract.
type ValidationError struct {
	Type   reflect.Type
	Reason string
	Err    error
}

func (e *ValidationError) Error() string {
	msg := fmt.Sprintf("minimalapi: %s does not satisfy the handler contract", typeName(e.Type))
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	return msg
}

func (e *ValidationError) Unwrap() error { return e.Err }

// DependencyMissingError reports a collaborator that must be configured before
// any route can be installed.
type DependencyMissingError struct {
	Dependency string
}

func (e *DependencyMissingError) Error() string {
	return "minimalapi: refusing to register endpoints: no " + e.Dependency + " configured"
}

// withType attaches the offending type to a registration error that does not
// carry one yet.
func withType(err error, t reflect.Type) error {
	var cfgErr *ConfigurationError
	if errors.As(err, &cfgErr) && cfgErr.Type == nil {
		cfgErr.Type = t
	}
	return err
}

// ErrorCode represents a machine-readable error code.
type ErrorCode string

const (
	CodeInvalidArgument   ErrorCode = "invalid_argument"
	CodeUnauthenticated   ErrorCode = "unauthenticated"
	CodePermissionDenied  ErrorCode = "permission_denied"
	CodeNotFound          ErrorCode = "not_found"
	CodeMethodNotAllowed  ErrorCode = "method_not_allowed"
	CodeConflict          ErrorCode = "conflict"
	CodeUnsupportedMedia  ErrorCode = "unsupported_media_type"
	CodeRequestTooLarge   ErrorCode = "request_too_large"
	CodeResourceExhausted ErrorCode = "resource_exhausted"
	CodeCanceled          ErrorCode = "canceled"
	CodeInternal          ErrorCode = "internal"
	CodeUnavailable       ErrorCode = "unavailable"
	CodeDeadlineExceeded  ErrorCode = "deadline_exceeded"
)

// Error is the JSON error envelope written when a request cannot be bound or
// its dispatch fails.
type Error struct {
	Code    ErrorCode      `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// NewError creates a new request error.
func NewError(code ErrorCode, message string) *Error {
	return &Error{
		Code:    code,
		Message: message,
	}
}

// Errorf creates a new request error with a formatted message.
func Errorf(code ErrorCode, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// WithDetail returns a new Error with the key-value pair added to details.
func (e *Error) WithDetail(key string, value any) *Error {
	details := make(map[string]any, len(e.Details)+1)
	for k, v := range e.Details {
		details[k] = v
	}
	details[key] = value
	return &Error{
		Code:    e.Code,
		Message: e.Message,
		Details: details,
	}
}

// ErrorTransformer maps a dispatch or binding error to a request error.
// If it returns nil, DefaultErrorTransformer is applied.
type ErrorTransformer func(error) *Error

// DefaultErrorTransformer maps standard Go errors to request errors.
func DefaultErrorTransformer(err error) *Error {
	if err == nil {
		return nil
	}

	var reqErr *Error
	if errors.As(err, &reqErr) {
		return reqErr
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return NewError(CodeDeadlineExceeded, "request timeout")
	}

	if errors.Is(err, context.Canceled) {
		return NewError(CodeCanceled, "context canceled")
	}

	var maxBytesErr *http.MaxBytesError
	if errors.As(err, &maxBytesErr) {
		return Errorf(CodeRequestTooLarge, "request body exceeds %d bytes", maxBytesErr.Limit)
	}

	var valErrs validator.ValidationErrors
	if errors.As(err, &valErrs) {
		details := make(map[string]any)
		messages := make([]string, 0, len(valErrs))
		for _, ve := range valErrs {
			msg := formatValidationError(ve)
			details[ve.Field()] = msg
			messages = append(messages, ve.Field()+": "+msg)
		}
		return &Error{
			Code:    CodeInvalidArgument,
			Message: strings.Join(messages, "; "),
			Details: details,
		}
	}

	return NewError(CodeInternal, err.Error())
}

// HTTPStatus maps an ErrorCode to an HTTP status code.
func (c ErrorCode) HTTPStatus() int {
	switch c {
	case CodeInvalidArgument:
		return http.StatusBadRequest
	case CodeUnauthenticated:
		return http.StatusUnauthorized
	case CodePermissionDenied:
		return http.StatusForbidden
	case CodeNotFound:
		return http.StatusNotFound
	case CodeMethodNotAllowed:
		return http.StatusMethodNotAllowed
	case CodeConflict:
		return http.StatusConflict
	case CodeUnsupportedMedia:
		return http.StatusUnsupportedMediaType
	case CodeRequestTooLarge:
		return http.StatusRequestEntityTooLarge
	case CodeResourceExhausted:
		return http.StatusTooManyRequests
	case CodeCanceled:
		return 499 // Client Closed Request (Nginx standard)
	case CodeInternal:
		return http.StatusInternalServerError
	case CodeUnavailable:
		return http.StatusServiceUnavailable
	case CodeDeadlineExceeded:
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

func formatValidationError(ve validator.FieldError) string {
	switch ve.Tag() {
	case "required":
		return "required"
	case "min":
		return fmt.Sprintf("must be at least %s", ve.Param())
	case "max":
		return fmt.Sprintf("must be at most %s", ve.Param())
	case "len":
		return fmt.Sprintf("must be exactly %s characters", ve.Param())
	case "gt":
		return fmt.Sprintf("must be greater than %s", ve.Param())
	case "gte":
		return fmt.Sprintf("must be at least %s", ve.Param())
	case "lt":
		return fmt.Sprintf("must be less than %s", ve.Param())
	case "lte":
		return fmt.Sprintf("must be at most %s", ve.Param())
	case "email":
		return "must be a valid email address"
	case "oneof":
		return fmt.Sprintf("must be one of: %s", ve.Param())
	default:
		if ve.Param() != "" {
			return fmt.Sprintf("failed %s=%s validation", ve.Tag(), ve.Param())
		}
		return fmt.Sprintf("failed %s validation", ve.Tag())
	}
}

func writeError(w http.ResponseWriter, reqErr *Error, logger *slog.Logger) {
	if logger == nil {
		logger = slog.Default()
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(reqErr.Code.HTTPStatus())
	if err := json.NewEncoder(w).Encode(reqErr); err != nil {
		// Headers already sent, nothing we can do.
		logger.Error("failed to encode error response",
			slog.String("code", string(reqErr.Code)),
			slog.String("message", reqErr.Message),
			slog.Any("error", err))
	}
}
