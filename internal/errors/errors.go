package errors

import (
	stderrors "errors"
	"net/http"
)

// Kind is the stable error category carried in every error body.
type Kind string

const (
	KindNotFound     Kind = "NOT_FOUND"
	KindForbidden    Kind = "FORBIDDEN"
	KindConflict     Kind = "CONFLICT"
	KindValidation   Kind = "VALIDATION"
	KindUnauthorized Kind = "UNAUTHORIZED"
	KindInternal     Kind = "INTERNAL"
)

// Error is a domain error with a kind and a client-safe message.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

func newError(kind Kind, msg string) *Error {
	return &Error{Kind: kind, Message: msg}
}

// NotFound builds a NOT_FOUND error.
func NotFound(msg string) *Error { return newError(KindNotFound, msg) }

// Forbidden builds a FORBIDDEN error.
func Forbidden(msg string) *Error { return newError(KindForbidden, msg) }

// Conflict builds a CONFLICT error.
func Conflict(msg string) *Error { return newError(KindConflict, msg) }

// Validation builds a VALIDATION error.
func Validation(msg string) *Error { return newError(KindValidation, msg) }

// Unauthorized builds an UNAUTHORIZED error.
func Unauthorized(msg string) *Error { return newError(KindUnauthorized, msg) }

// Internal wraps an unexpected failure. The cause is never shown to clients.
func Internal(msg string, err error) *Error {
	return &Error{Kind: KindInternal, Message: msg, Err: err}
}

var (
	ErrUserNotFound     = NotFound("user not found")
	ErrAddressNotFound  = NotFound("address not found")
	ErrProductNotFound  = NotFound("product not found")
	ErrCartNotFound     = NotFound("cart not found")
	ErrCartItemNotFound = NotFound("cart item not found")
	ErrOrderNotFound    = NotFound("order not found")
	ErrReviewNotFound   = NotFound("review not found")

	ErrNotOwner   = Forbidden("resource belongs to another user")
	ErrAdminOnly  = Forbidden("administrator privileges required")
	ErrNotSeller  = Forbidden("only the seller may modify this product")
	ErrUserBanned = Forbidden("account is disabled")

	ErrUsernameTaken        = Conflict("username already exists")
	ErrDuplicateReview      = Conflict("user has already reviewed this product")
	ErrInvalidOrderState    = Conflict("order status does not allow this operation")
	ErrInsufficientStock    = Conflict("insufficient stock")
	ErrOrderNumberExhausted = Conflict("could not allocate a unique order number")

	ErrInvalidCredentials  = Unauthorized("invalid credentials")
	ErrInvalidRefreshToken = Unauthorized("invalid or expired refresh token")
	ErrWrongPassword       = Validation("old password is incorrect")
	ErrNotAnImage          = Validation("only image files are accepted")
)

// KindOf reports the kind of err, or KindInternal for foreign errors.
func KindOf(err error) Kind {
	var e *Error
	if stderrors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// Is reports whether err is or wraps target. It mirrors the standard library
// so callers do not need a second import.
func Is(err, target error) bool {
	return stderrors.Is(err, target)
}

// ErrorResponse represents a standardized error response.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// HTTPError represents an HTTP error with status code.
type HTTPError struct {
	StatusCode int
	Message    string
	Code       string
}

func (e *HTTPError) Error() string {
	return e.Message
}

// NewHTTPError creates a new HTTP error.
func NewHTTPError(statusCode int, message, code string) *HTTPError {
	return &HTTPError{
		StatusCode: statusCode,
		Message:    message,
		Code:       code,
	}
}

// ToErrorResponse converts an HTTPError to ErrorResponse.
func (e *HTTPError) ToErrorResponse() ErrorResponse {
	return ErrorResponse{
		Error: e.Message,
		Code:  e.Code,
	}
}

var statusByKind = map[Kind]int{
	KindNotFound:     http.StatusNotFound,
	KindForbidden:    http.StatusForbidden,
	KindConflict:     http.StatusConflict,
	KindValidation:   http.StatusBadRequest,
	KindUnauthorized: http.StatusUnauthorized,
	KindInternal:     http.StatusInternalServerError,
}

// MapErrorToHTTP maps domain errors to HTTP errors.
func MapErrorToHTTP(err error) *HTTPError {
	var e *Error
	if !stderrors.As(err, &e) || e.Kind == KindInternal {
		return NewHTTPError(http.StatusInternalServerError, "internal server error", string(KindInternal))
	}
	return NewHTTPError(statusByKind[e.Kind], e.Message, string(e.Kind))
}
