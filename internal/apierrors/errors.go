// Package apierrors defines the error taxonomy shared by the API server and its client.
//
// Every error crossing the HTTP boundary is an *APIError with a Kind. The server maps the kind
// to a status code, the client maps the status code back to a kind, and callers match on it:
//
//	if errors.Is(err, apierrors.ErrUnauthorized) {
//	    // session is gone, the transport already logged out
//	}
package apierrors

import (
	"errors"
	"fmt"
	"net/http"
)

// statusClientClosedRequest is the non-standard status for a request the client gave up on.
const statusClientClosedRequest = 499

// Kind is a machine-readable error category.
type Kind string

const (
	// KindValidation is a client-correctable input error. Never retried automatically.
	KindValidation Kind = "validation"
	// KindConflict is a duplicate resource, e.g. an email that is already registered.
	KindConflict Kind = "conflict"
	// KindInvalidCredentials is a failed login. The message must not reveal whether the email exists.
	KindInvalidCredentials Kind = "invalid_credentials"
	// KindUnauthorized is a missing, invalid or expired bearer token.
	KindUnauthorized Kind = "unauthorized"
	// KindNetwork is a transient transport failure.
	KindNetwork Kind = "network"
	// KindNotFound is a missing resource.
	KindNotFound Kind = "not_found"
	// KindRateLimited is returned when the caller exceeded the request budget.
	KindRateLimited Kind = "rate_limited"
	// KindCanceled is a request abandoned by the caller before a response arrived.
	KindCanceled Kind = "canceled"
	// KindInternal is anything else.
	KindInternal Kind = "internal"
)

// HTTPStatus returns the status code the server responds with for this kind.
func (k Kind) HTTPStatus() int {
	switch k {
	case KindValidation:
		return http.StatusBadRequest
	case KindConflict:
		return http.StatusConflict
	case KindInvalidCredentials, KindUnauthorized:
		return http.StatusUnauthorized
	case KindNotFound:
		return http.StatusNotFound
	case KindRateLimited:
		return http.StatusTooManyRequests
	case KindNetwork:
		return http.StatusBadGateway
	case KindCanceled:
		return statusClientClosedRequest
	default:
		return http.StatusInternalServerError
	}
}

func (k Kind) known() bool {
	switch k {
	case KindValidation, KindConflict, KindInvalidCredentials, KindUnauthorized, KindNetwork,
		KindNotFound, KindRateLimited, KindCanceled, KindInternal:
		return true
	}
	return false
}

// APIError is an error with a kind, a user-facing message and optional field details.
type APIError struct {
	Kind    Kind
	Message string
	Details map[string]string
	cause   error
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.cause)
	}
	return e.Message
}

// Unwrap returns the underlying error.
func (e *APIError) Unwrap() error {
	return e.cause
}

// Is matches any *APIError of the same kind.
func (e *APIError) Is(target error) bool {
	var t *APIError
	if errors.As(target, &t) {
		return e.Kind == t.Kind
	}
	return false
}

// HTTPStatus returns the status code for this error.
func (e *APIError) HTTPStatus() int {
	return e.Kind.HTTPStatus()
}

// WithCause returns a copy of the error wrapping err.
func (e *APIError) WithCause(err error) *APIError {
	return &APIError{
		Kind:    e.Kind,
		Message: e.Message,
		Details: e.Details,
		cause:   err,
	}
}

// Sentinel errors for use with errors.Is.
var (
	ErrValidation         = &APIError{Kind: KindValidation, Message: "validation failed"}
	ErrConflict           = &APIError{Kind: KindConflict, Message: "conflict"}
	ErrInvalidCredentials = &APIError{Kind: KindInvalidCredentials, Message: "invalid email or password"}
	ErrUnauthorized       = &APIError{Kind: KindUnauthorized, Message: "unauthorized"}
	ErrNetwork            = &APIError{Kind: KindNetwork, Message: "network error, please retry"}
	ErrNotFound           = &APIError{Kind: KindNotFound, Message: "not found"}
	ErrRateLimited        = &APIError{Kind: KindRateLimited, Message: "too many requests"}
	ErrCanceled           = &APIError{Kind: KindCanceled, Message: "request canceled"}
	ErrInternal           = &APIError{Kind: KindInternal, Message: "internal server error"}
)

// NewErrValidation creates a validation error with per-field messages.
func NewErrValidation(msg string, details map[string]string) *APIError {
	return &APIError{Kind: KindValidation, Message: msg, Details: details}
}

// NewErrEmailIsTaken creates a conflict error for a registered email.
func NewErrEmailIsTaken(email string) *APIError {
	return &APIError{Kind: KindConflict, Message: fmt.Sprintf("email %s is already taken", email)}
}

// NewErrInvalidCredentials creates a login failure error.
func NewErrInvalidCredentials() *APIError {
	return &APIError{Kind: KindInvalidCredentials, Message: ErrInvalidCredentials.Message}
}

// NewErrMissingAuthorizationToken is returned when a protected call has no bearer token.
func NewErrMissingAuthorizationToken() *APIError {
	return &APIError{Kind: KindUnauthorized, Message: "missing authorization token"}
}

// NewErrInvalidAuthorizationToken is returned when the bearer token cannot be verified.
func NewErrInvalidAuthorizationToken() *APIError {
	return &APIError{Kind: KindUnauthorized, Message: "invalid authorization token"}
}

// NewErrNetwork wraps a transport failure.
func NewErrNetwork(err error) *APIError {
	return ErrNetwork.WithCause(err)
}

// NewErrCanceled wraps a context cancellation observed while waiting for a response.
// errors.Is(err, context.Canceled) still holds for the result.
func NewErrCanceled(err error) *APIError {
	return ErrCanceled.WithCause(err)
}

// NewErrNotFound creates a not found error.
func NewErrNotFound(msg string) *APIError {
	return &APIError{Kind: KindNotFound, Message: msg}
}

// NewErrRateLimited creates a rate limit error.
func NewErrRateLimited() *APIError {
	return &APIError{Kind: KindRateLimited, Message: ErrRateLimited.Message}
}

// NewErrInternal creates an internal error.
func NewErrInternal(msg string) *APIError {
	return &APIError{Kind: KindInternal, Message: msg}
}

// FromStatus maps an HTTP error response received by the client back to an APIError.
// A server-provided kind is kept only when it is a known kind consistent with the status;
// otherwise the kind is derived from the status alone.
func FromStatus(status int, kind Kind, msg string, details map[string]string) *APIError {
	derived := kindForStatus(status)
	if !kind.known() || (kind != derived && kind.HTTPStatus() != status) {
		kind = derived
	}
	if msg == "" {
		msg = http.StatusText(status)
	}
	return &APIError{Kind: kind, Message: msg, Details: details}
}

func kindForStatus(status int) Kind {
	switch status {
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		return KindValidation
	case http.StatusUnauthorized:
		return KindUnauthorized
	case http.StatusConflict:
		return KindConflict
	case http.StatusNotFound:
		return KindNotFound
	case http.StatusTooManyRequests:
		return KindRateLimited
	case http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		return KindNetwork
	case statusClientClosedRequest:
		return KindCanceled
	default:
		return KindInternal
	}
}

// KindOf returns the kind of err, or KindInternal for errors outside the taxonomy.
func KindOf(err error) Kind {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Kind
	}
	return KindInternal
}
