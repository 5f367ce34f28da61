package errors

import (
	"errors"
	"net/http"
)

// Domain errors
var (
	ErrNotFound            = errors.New("resource not found")
	ErrAlreadyExists       = errors.New("resource already exists")
	ErrInvalidInput        = errors.New("invalid input")
	ErrBadRequest          = errors.New("bad request")
	ErrUnauthorized        = errors.New("unauthorized")
	ErrForbidden           = errors.New("forbidden")
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrNotAuthenticated    = errors.New("not authenticated")
	ErrInvalidSession      = errors.New("invalid session")
	ErrUnknownCurrency     = errors.New("unknown currency")
	ErrProviderUnavailable = errors.New("provider unavailable")
	ErrPersistence         = errors.New("persistence failure")
	ErrSubmissionFailed    = errors.New("transfer submission failed")
	ErrInvalidStateChange  = errors.New("invalid state transition")
)

// Error codes returned to clients
const (
	CodeNotFound            = "ERR_NOT_FOUND"
	CodeConflict            = "ERR_CONFLICT"
	CodeInvalidInput        = "ERR_VALIDATION"
	CodeBadRequest          = "ERR_BAD_REQUEST"
	CodeUnauthorized        = "ERR_UNAUTHORIZED"
	CodeForbidden           = "ERR_FORBIDDEN"
	CodeInvalidCredentials  = "ERR_INVALID_CREDENTIALS"
	CodeNotAuthenticated    = "ERR_NOT_AUTHENTICATED"
	CodeInvalidSession      = "ERR_INVALID_SESSION"
	CodeUnknownCurrency     = "ERR_UNKNOWN_CURRENCY"
	CodeProviderUnavailable = "ERR_PROVIDER_UNAVAILABLE"
	CodeSubmissionFailed    = "ERR_SUBMISSION_FAILED"
	CodeInternalError       = "ERR_INTERNAL"
)

// AppError represents an application error with an HTTP status and a
// stable machine-readable code
type AppError struct {
	Status  int    `json:"-"`
	Code    string `json:"code"`
	Message string `json:"message"`
	Err     error  `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NewAppError creates a new app error
func NewAppError(status int, code, message string, err error) *AppError {
	return &AppError{
		Status:  status,
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Common error constructors
func NotFound(message string) *AppError {
	return NewAppError(http.StatusNotFound, CodeNotFound, message, ErrNotFound)
}

func BadRequest(message string) *AppError {
	return NewAppError(http.StatusBadRequest, CodeInvalidInput, message, ErrInvalidInput)
}

func Conflict(message string) *AppError {
	return NewAppError(http.StatusConflict, CodeConflict, message, ErrAlreadyExists)
}

func Unauthorized(message string) *AppError {
	return NewAppError(http.StatusUnauthorized, CodeUnauthorized, message, ErrUnauthorized)
}

func Forbidden(message string) *AppError {
	return NewAppError(http.StatusForbidden, CodeForbidden, message, ErrForbidden)
}

func NotAuthenticated() *AppError {
	return NewAppError(http.StatusUnauthorized, CodeNotAuthenticated, "Not authenticated", ErrNotAuthenticated)
}

func InvalidSession() *AppError {
	return NewAppError(http.StatusUnauthorized, CodeInvalidSession, "Invalid session format", ErrInvalidSession)
}

func InvalidCredentials() *AppError {
	return NewAppError(http.StatusUnauthorized, CodeInvalidCredentials, "Invalid credentials", ErrInvalidCredentials)
}

func ProviderUnavailable(message string) *AppError {
	return NewAppError(http.StatusServiceUnavailable, CodeProviderUnavailable, message, ErrProviderUnavailable)
}

func SubmissionFailed(message string, err error) *AppError {
	return NewAppError(http.StatusBadGateway, CodeSubmissionFailed, message, err)
}

func InternalError(err error) *AppError {
	return NewAppError(http.StatusInternalServerError, CodeInternalError, "internal server error", err)
}

func InternalServerError(message string) *AppError {
	return NewAppError(http.StatusInternalServerError, CodeInternalError, message, nil)
}

// NewError creates a new error with a custom message wrapping an existing error
func NewError(message string, err error) error {
	return &AppError{
		Status:  http.StatusBadRequest,
		Code:    CodeBadRequest,
		Message: message,
		Err:     err,
	}
}
