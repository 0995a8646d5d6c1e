package httpx

import (
	"fmt"
	"net/http"
)

// Business error codes
const (
	// Success
	CodeSuccess = 0

	// Authentication/Authorization errors (1000-1099)
	CodeUnauthorized       = 1001 // Not logged in / Token missing
	CodeInvalidToken       = 1002 // Token invalid
	CodeTokenExpired       = 1003 // Token expired
	CodeForbidden          = 1004 // Role/department does not allow the action
	CodeInvalidCredentials = 1005 // Login rejected (unknown user or wrong password)

	// Validation errors (2000-2099)
	CodeValidation       = 2001 // Missing/invalid request fields
	CodeNoFieldsToUpdate = 2002 // Update payload contained no recognized fields
	CodeLengthMismatch   = 2003 // Parallel value lists of unequal length

	// Resource/Business errors (3000-3999)
	CodeNotFound      = 3001 // Entity missing or soft-deleted
	CodeAlreadyExists = 3002 // Duplicate business key
	CodeStateConflict = 3003 // Status transition not allowed

	// System errors (5000-5999)
	CodeDatabaseError = 5001 // Database call failed
	CodeDependency    = 5002 // External collaborator (mail relay, disk) failed
)

// AppError carries an HTTP status, a business code and a user-facing message.
// Err is for logs only and is never echoed to the client.
type AppError struct {
	HTTPStatus int
	Code       int
	Message    string
	Err        error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("code=%d, message=%s, err=%v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("code=%d, message=%s", e.Code, e.Message)
}

// Unwrap exposes the internal error to errors.Is/As.
func (e *AppError) Unwrap() error {
	return e.Err
}

func newError(httpStatus, code int, message string, err error) *AppError {
	return &AppError{
		HTTPStatus: httpStatus,
		Code:       code,
		Message:    message,
		Err:        err,
	}
}

// ErrUnauthorized creates a 401 missing-credentials error
func ErrUnauthorized(message string) *AppError {
	if message == "" {
		message = "unauthorized"
	}
	return newError(http.StatusUnauthorized, CodeUnauthorized, message, nil)
}

// ErrInvalidToken creates a 401 invalid token error
func ErrInvalidToken(message string) *AppError {
	if message == "" {
		message = "invalid token"
	}
	return newError(http.StatusUnauthorized, CodeInvalidToken, message, nil)
}

// ErrTokenExpired creates a 401 token expired error
func ErrTokenExpired(message string) *AppError {
	if message == "" {
		message = "token expired"
	}
	return newError(http.StatusUnauthorized, CodeTokenExpired, message, nil)
}

// ErrInvalidCredentials creates a 401 login-rejected error. One message
// for unknown user and wrong password so the response does not reveal
// which usernames exist.
func ErrInvalidCredentials() *AppError {
	return newError(http.StatusUnauthorized, CodeInvalidCredentials, "invalid credentials", nil)
}

// ErrForbidden creates a 403 permission-denied error
func ErrForbidden(message string) *AppError {
	if message == "" {
		message = "forbidden"
	}
	return newError(http.StatusForbidden, CodeForbidden, message, nil)
}

// ErrValidation creates a 400 validation error
func ErrValidation(message string) *AppError {
	if message == "" {
		message = "invalid request"
	}
	return newError(http.StatusBadRequest, CodeValidation, message, nil)
}

// ErrNoFieldsToUpdate creates a 400 error for an update payload that named
// no recognized fields. Client error, not a server fault.
func ErrNoFieldsToUpdate() *AppError {
	return newError(http.StatusBadRequest, CodeNoFieldsToUpdate, "no fields to update", nil)
}

// ErrLengthMismatch creates a 400 error for unequal parallel value lists
// in a fan-out create request.
func ErrLengthMismatch(message string) *AppError {
	if message == "" {
		message = "value lists must have equal length"
	}
	return newError(http.StatusBadRequest, CodeLengthMismatch, message, nil)
}

// ErrNotFound creates a 404 not found error. Soft-deleted entities count
// as not found.
func ErrNotFound(message string) *AppError {
	if message == "" {
		message = "resource not found"
	}
	return newError(http.StatusNotFound, CodeNotFound, message, nil)
}

// ErrAlreadyExists creates a 409 duplicate error
func ErrAlreadyExists(message string) *AppError {
	if message == "" {
		message = "resource already exists"
	}
	return newError(http.StatusConflict, CodeAlreadyExists, message, nil)
}

// ErrStateConflict creates a 409 error for a status transition the
// workflow does not allow
func ErrStateConflict(message string) *AppError {
	if message == "" {
		message = "current status does not allow operation"
	}
	return newError(http.StatusConflict, CodeStateConflict, message, nil)
}

// ErrDatabase creates a 500 database error
func ErrDatabase(message string, err error) *AppError {
	if message == "" {
		message = "database error"
	}
	return newError(http.StatusInternalServerError, CodeDatabaseError, message, err)
}

// ErrDependency creates a 502 external dependency error
func ErrDependency(message string, err error) *AppError {
	if message == "" {
		message = "external dependency failure"
	}
	return newError(http.StatusBadGateway, CodeDependency, message, err)
}
