package apperrors

import "errors"

// Error categories. Every error surfaced by the Data Store, the façade or the
// REST client matches exactly one of these through errors.Is.
var (
	ErrValidationFailed = errors.New("validation failed")
	ErrResourceNotFound = errors.New("resource not found")
	ErrConflict         = errors.New("conflict")
	ErrUnauthorized     = errors.New("invalid API key")
	// transport or backend failure seen by the REST client
	ErrNetwork = errors.New("network error")
)

// Enrollment conflicts
var (
	ErrDuplicateEnrollment = errors.New("student already enrolled")
	ErrCapacityExceeded    = errors.New("course is full")
)

var (
	ErrStudentNotFound    = NewCustomError(ErrResourceNotFound, "student not found")
	ErrCourseNotFound     = NewCustomError(ErrResourceNotFound, "course not found")
	ErrEmailAlreadyExists = NewCustomError(ErrConflict, "email already exists")
)

// CustomError carries a user-facing message over a category sentinel.
// Code is the wire error code when the error was decoded from a response.
type CustomError struct {
	Err     error
	Message string
	Code    string
}

func (e *CustomError) Error() string {
	switch {
	case e.Message != "":
		return e.Message
	case e.Err != nil:
		return e.Err.Error()
	default:
		return "unknown error"
	}
}

func (e *CustomError) Unwrap() error {
	return e.Err
}

// NewCustomError wraps err with message
func NewCustomError(err error, message string) *CustomError {
	return &CustomError{Err: err, Message: message}
}

// WithCode records the wire error code
func (e *CustomError) WithCode(code string) *CustomError {
	e.Code = code
	return e
}

// NewValidationError reports malformed input
func NewValidationError(message string) error {
	return NewCustomError(ErrValidationFailed, message)
}

// NewNetworkError reports a transport or backend failure
func NewNetworkError(message string) error {
	return NewCustomError(ErrNetwork, message)
}
