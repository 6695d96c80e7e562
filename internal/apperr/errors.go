package apperr

import "net/http"

// AppError carries a stable error code alongside a human-readable message.
type AppError struct {
	Code    string
	Message string
	Origin  error // Original error that caused this error, if any
}

func (appErr *AppError) Error() string {
	if appErr.Origin != nil {
		return appErr.Message + ": " + appErr.Origin.Error()
	}
	return appErr.Message
}

func (appErr *AppError) Unwrap() error {
	return appErr.Origin
}

// Standard error codes for the application
const (
	// Resource errors
	ErrNotFound     = "NOT_FOUND"
	ErrDuplicateKey = "DUPLICATE_KEY"
	ErrInvalidInput = "INVALID_INPUT"

	// Authentication/Authorization errors
	ErrUnauthorized       = "UNAUTHORIZED"
	ErrForbidden          = "FORBIDDEN" // Authenticated but lacking permission
	ErrInvalidCredentials = "INVALID_CREDENTIALS"

	// Persistence errors
	ErrStoreUnavailable = "STORE_UNAVAILABLE"
)

// New creates an AppError with the given code, message and optional cause.
func New(code string, message string, origin error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Origin:  origin,
	}
}

// Specific error creators for common cases
func NewNotFound(what string) *AppError {
	return &AppError{Code: ErrNotFound, Message: what + " not found"}
}

func NewDuplicateKey(what string) *AppError {
	return &AppError{Code: ErrDuplicateKey, Message: what + " already exists"}
}

func NewInvalidCredentials() *AppError {
	return &AppError{Code: ErrInvalidCredentials, Message: "Invalid username or password"}
}

func NewForbidden(reason string) *AppError {
	return &AppError{Code: ErrForbidden, Message: "Forbidden: " + reason}
}

func NewStoreUnavailable(origin error) *AppError {
	return &AppError{Code: ErrStoreUnavailable, Message: "Store unavailable", Origin: origin}
}

// IsCode reports whether err is an AppError with the given code.
func IsCode(err error, code string) bool {
	if appErr, ok := err.(*AppError); ok {
		return appErr.Code == code
	}
	return false
}

// HTTPStatus converts an AppError code to an HTTP status code.
func HTTPStatus(err error) int {
	appErr, ok := err.(*AppError)
	if !ok {
		return http.StatusInternalServerError
	}
	switch appErr.Code {
	case ErrNotFound:
		return http.StatusNotFound
	case ErrInvalidInput:
		return http.StatusBadRequest
	case ErrUnauthorized, ErrInvalidCredentials:
		return http.StatusUnauthorized
	case ErrForbidden:
		return http.StatusForbidden
	case ErrDuplicateKey:
		return http.StatusConflict
	case ErrStoreUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
