// Package apperr defines the typed failure categories the service raises
// and the single table mapping each category to its HTTP status and
// machine-readable code. Services return these errors unchanged; only the
// HTTP boundary renders them into responses.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Code is the UPPER_SNAKE machine-readable error code exposed to clients.
type Code string

const (
	CodeWeakPassword       Code = "WEAK_PASSWORD"
	CodeInvalidEmail       Code = "INVALID_EMAIL"
	CodeValidationError    Code = "VALIDATION_ERROR"
	CodeDuplicateEmail     Code = "DUPLICATE_EMAIL"
	CodeDuplicateUsername  Code = "DUPLICATE_USERNAME"
	CodeInvalidCredentials Code = "INVALID_CREDENTIALS"
	CodeTokenInvalid       Code = "TOKEN_INVALID"
	CodeTokenExpired       Code = "TOKEN_EXPIRED"
	CodeUserNotFound       Code = "USER_NOT_FOUND"
	CodeDatabaseError      Code = "DATABASE_ERROR"

	// CodeCircuitOpen is reserved for future external-dependency
	// protection; no current code path raises it.
	CodeCircuitOpen Code = "CIRCUIT_BREAKER_OPEN"
)

// statusByCode is the static dispatch table consulted at the pipeline
// boundary. Codes absent from the table render as 500.
var statusByCode = map[Code]int{
	CodeWeakPassword:       http.StatusBadRequest,
	CodeInvalidEmail:       http.StatusBadRequest,
	CodeValidationError:    http.StatusUnprocessableEntity,
	CodeDuplicateEmail:     http.StatusConflict,
	CodeDuplicateUsername:  http.StatusConflict,
	CodeInvalidCredentials: http.StatusUnauthorized,
	CodeTokenInvalid:       http.StatusUnauthorized,
	CodeTokenExpired:       http.StatusUnauthorized,
	CodeUserNotFound:       http.StatusNotFound,
	CodeDatabaseError:      http.StatusInternalServerError,
	CodeCircuitOpen:        http.StatusServiceUnavailable,
}

// Error is a categorised failure. Detail is safe to show to clients for
// client-fault (4xx) categories; Err carries the internal cause and is only
// ever logged server-side.
type Error struct {
	Code   Code
	Status int
	Detail string
	Err    error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Detail, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Detail)
}

func (e *Error) Unwrap() error { return e.Err }

// ClientFault reports whether the category is the caller's fault (4xx).
func (e *Error) ClientFault() bool { return e.Status < http.StatusInternalServerError }

// New builds an Error for code with the given client-safe detail.
func New(code Code, detail string) *Error {
	status, ok := statusByCode[code]
	if !ok {
		status = http.StatusInternalServerError
	}
	return &Error{Code: code, Status: status, Detail: detail}
}

// Wrap is New with an internal cause attached.
func Wrap(code Code, detail string, err error) *Error {
	e := New(code, detail)
	e.Err = err
	return e
}

func WeakPassword(detail string) *Error { return New(CodeWeakPassword, detail) }

func InvalidEmail(detail string) *Error { return New(CodeInvalidEmail, detail) }

func Validation(detail string) *Error { return New(CodeValidationError, detail) }

func DuplicateEmail() *Error {
	return New(CodeDuplicateEmail, "a user with this email already exists")
}

func DuplicateUsername() *Error {
	return New(CodeDuplicateUsername, "a user with this username already exists")
}

// InvalidCredentials covers unknown identifier, wrong password and inactive
// account uniformly so responses cannot be used for user enumeration.
func InvalidCredentials() *Error {
	return New(CodeInvalidCredentials, "invalid credentials")
}

func TokenInvalid() *Error { return New(CodeTokenInvalid, "token is invalid") }

func TokenExpired() *Error { return New(CodeTokenExpired, "token has expired") }

func UserNotFound() *Error { return New(CodeUserNotFound, "user not found") }

func Database(err error) *Error {
	return Wrap(CodeDatabaseError, "internal server error", err)
}

// From normalises any error to an *Error. Unrecognised errors become
// DATABASE_ERROR-category internal failures with the cause preserved for
// server-side logging.
func From(err error) *Error {
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return Database(err)
}

// IsCode reports whether err is an *Error carrying the given code.
func IsCode(err error, code Code) bool {
	var e *Error
	return errors.As(err, &e) && e.Code == code
}
