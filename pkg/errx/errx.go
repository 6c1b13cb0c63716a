package errx

import (
	"errors"
	"fmt"
	"net/http"
)

// Type classifies an error for transport mapping and logging.
type Type string

const (
	TypeValidation     Type = "VALIDATION"
	TypeNotFound       Type = "NOT_FOUND"
	TypeConflict       Type = "CONFLICT"
	TypeAuthentication Type = "AUTHENTICATION"
	TypeAuthorization  Type = "AUTHORIZATION"
	TypeBusiness       Type = "BUSINESS"
	TypeExternal       Type = "EXTERNAL"
	TypeInternal       Type = "INTERNAL"
)

// Code is a registered error definition. Instances are created through a
// Registry so every code carries its domain prefix.
type Code struct {
	Code       string
	Type       Type
	HTTPStatus int
	Message    string
}

// Registry scopes error codes to a domain prefix (e.g. "RESUME").
type Registry struct {
	prefix string
	codes  map[string]Code
}

func NewRegistry(prefix string) *Registry {
	return &Registry{
		prefix: prefix,
		codes:  make(map[string]Code),
	}
}

// Register defines a code under the registry prefix. Re-registering the same
// code replaces the previous definition.
func (r *Registry) Register(code string, t Type, httpStatus int, message string) Code {
	c := Code{
		Code:       r.prefix + "_" + code,
		Type:       t,
		HTTPStatus: httpStatus,
		Message:    message,
	}
	r.codes[c.Code] = c
	return c
}

// New creates an error from a registered code.
func (r *Registry) New(c Code) *Error {
	return &Error{
		Code:       c.Code,
		Type:       c.Type,
		Message:    c.Message,
		HTTPStatus: c.HTTPStatus,
	}
}

// NewWithCause creates an error from a registered code wrapping a cause.
func (r *Registry) NewWithCause(c Code, cause error) *Error {
	e := r.New(c)
	e.cause = cause
	return e
}

// Error is the transport-aware error carried across domain boundaries.
type Error struct {
	Code       string         `json:"code"`
	Type       Type           `json:"type"`
	Message    string         `json:"message"`
	HTTPStatus int            `json:"-"`
	Details    map[string]any `json:"details,omitempty"`

	cause error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error { return e.cause }

// WithDetail attaches a single key/value to the error and returns it for chaining.
func (e *Error) WithDetail(key string, value any) *Error {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

// WithDetails merges a detail map into the error.
func (e *Error) WithDetails(details map[string]any) *Error {
	if e.Details == nil {
		e.Details = make(map[string]any, len(details))
	}
	for k, v := range details {
		e.Details[k] = v
	}
	return e
}

// ToHTTPResponse renders the error body returned to API clients. The cause is
// deliberately omitted.
func (e *Error) ToHTTPResponse() map[string]any {
	body := map[string]any{
		"code":    e.Code,
		"type":    e.Type,
		"message": e.Message,
	}
	if len(e.Details) > 0 {
		body["details"] = e.Details
	}
	return body
}

// IsType reports whether err is an *Error of the given type.
func IsType(err error, t Type) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Type == t
	}
	return false
}

// Wrap converts an arbitrary error into an *Error of the given type. Already
// wrapped errors pass through untouched so registered codes survive the stack.
func Wrap(err error, message string, t Type) *Error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return &Error{
		Code:       string(t),
		Type:       t,
		Message:    message,
		HTTPStatus: httpStatusFor(t),
		cause:      err,
	}
}

func httpStatusFor(t Type) int {
	switch t {
	case TypeValidation:
		return http.StatusBadRequest
	case TypeNotFound:
		return http.StatusNotFound
	case TypeConflict:
		return http.StatusConflict
	case TypeAuthentication:
		return http.StatusUnauthorized
	case TypeAuthorization:
		return http.StatusForbidden
	case TypeBusiness:
		return http.StatusUnprocessableEntity
	case TypeExternal:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
