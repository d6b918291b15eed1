package internal

import (
	"fmt"
	"net/http"

	"github.com/pkg/errors"

	"github.com/derWhity/fyyur/internal/forms"
	"github.com/derWhity/fyyur/internal/repos"
)

const (
	// ErrCodeUnknown is the error code for unknown errors
	ErrCodeUnknown = "UNKNOWN_ERROR"
	// ErrCodeNotFound is returned when a venue or artist that is read, changed or deleted does not exist
	ErrCodeNotFound = "NOT_FOUND"
	// ErrCodeConstraintViolation is returned when a submission misses a required field, contains an invalid value or
	// references an entity that does not exist
	ErrCodeConstraintViolation = "CONSTRAINT_VIOLATION"
	// ErrCodeStoreUnavailable is returned when the storage backend fails to execute a query
	ErrCodeStoreUnavailable = "STORE_UNAVAILABLE"
	// ErrCodeInvalidUint is returned when an ID is required inside a request, but is not provided or in a wrong format
	ErrCodeInvalidUint = "INVALID_UINT"
	// ErrCodeIllegalForm is returned when the request body could not be parsed as form data
	ErrCodeIllegalForm = "ILLEGAL_FORM_REQUEST"
)

// HTTPError is an error that contains information about the error message to return to the client
type HTTPError struct {
	message string
	code    string
	status  int
	data    interface{}
	// Message to show to the user after a failed form submission
	flash string
	// Underlying failure - only written to the log, never sent to the client
	internal error
}

// MakeError creates a new HTTPError with the given contents
func MakeError(status int, code, message string) *HTTPError {
	return MakeErrorWithData(status, code, message, nil)
}

// MakeErrorWithData creates a new HTTPError with the given contents and an additional data element
func MakeErrorWithData(status int, code, message string, data interface{}) *HTTPError {
	return &HTTPError{message: message, code: code, status: status, data: data}
}

// Error implements the errorer interface
func (e *HTTPError) Error() string {
	return e.message
}

// Status returns the HTTP status that should be returned
func (e *HTTPError) Status() int {
	return e.status
}

// ErrorCode returns the machine-readable error code
func (e *HTTPError) ErrorCode() string {
	return e.code
}

// Data returns additional data about the error
func (e *HTTPError) Data() interface{} {
	return e.data
}

// Flash returns the message to show to the user
func (e *HTTPError) Flash() string {
	return e.flash
}

// Internal returns the underlying failure that led to this error, if any
func (e *HTTPError) Internal() error {
	return e.internal
}

// withFlash attaches a user-facing message to the given error
func withFlash(err error, flash string) error {
	e, ok := errors.Cause(err).(*HTTPError)
	if !ok {
		e = MakeErrorWithData(http.StatusInternalServerError, ErrCodeUnknown, err.Error(), nil)
	}
	cp := *e
	cp.flash = flash
	return &cp
}

// -- Error kinds ------------------------------------------------------------------------------------------------------

func hasCode(err error, code string) bool {
	if e, ok := errors.Cause(err).(*HTTPError); ok {
		return e.code == code
	}
	return false
}

// IsNotFound checks if the error reports a venue or artist that does not exist
func IsNotFound(err error) bool {
	return hasCode(err, ErrCodeNotFound)
}

// IsConstraintViolation checks if the error reports an invalid submission
func IsConstraintViolation(err error) bool {
	return hasCode(err, ErrCodeConstraintViolation)
}

// IsStoreUnavailable checks if the error reports a failing storage backend
func IsStoreUnavailable(err error) bool {
	return hasCode(err, ErrCodeStoreUnavailable)
}

func errNotFound(kind string, id uint) *HTTPError {
	return MakeError(http.StatusNotFound, ErrCodeNotFound, fmt.Sprintf("%s #%d does not exist", kind, id))
}

func errStore(msg string, err error) *HTTPError {
	ret := MakeError(http.StatusServiceUnavailable, ErrCodeStoreUnavailable, msg)
	ret.internal = err
	return ret
}

// translates the errors returned by repos and form decoding into the matching error kind
func mapError(err error, kind string, id uint, msg string) error {
	switch cause := errors.Cause(err).(type) {
	case *HTTPError:
		return cause
	case *forms.ValidationError:
		return MakeErrorWithData(http.StatusBadRequest, ErrCodeConstraintViolation, msg, cause.Fields)
	}
	switch errors.Cause(err) {
	case repos.ErrEntityNotExisting:
		return errNotFound(kind, id)
	case repos.ErrReferenceNotExisting:
		return MakeErrorWithData(http.StatusBadRequest, ErrCodeConstraintViolation, msg, err.Error())
	}
	return errStore(msg, err)
}
