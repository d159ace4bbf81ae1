package apperrors

import "errors"

// Common errors
var (
	// Resource errors. Out-of-scope records surface as not-found on purpose:
	// existence is never disclosed to callers outside the owning section.
	ErrNotFound         = errors.New("resource not found")
	ErrClassNotFound    = errors.New("class not found")
	ErrScheduleNotFound = errors.New("class schedule not found")

	// Validation errors
	ErrBadRequest = errors.New("bad request")

	// Planning business-rule errors
	ErrDuplicateClass         = errors.New("an active class already exists for this course and semester")
	ErrScheduleConflict       = errors.New("schedule conflicts with another schedule in the same classroom")
	ErrTargetSemesterNotEmpty = errors.New("target semester already has planned classes")

	// Authorization errors
	ErrAuthzLookupFailed = errors.New("could not resolve the caller's section")
	ErrPermissionDenied  = errors.New("permission denied")

	// Authentication errors
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrTokenExpired       = errors.New("token expired")
	ErrTokenInvalid       = errors.New("invalid token")

	// Server errors
	ErrInternal = errors.New("internal server error")
)

// Parametric entity errors
var (
	ErrSemesterNotFound   = errors.New("semester not found")
	ErrCourseNotFound     = errors.New("course not found")
	ErrSectionNotFound    = errors.New("section not found")
	ErrClassroomNotFound  = errors.New("classroom not found")
	ErrUserNotFound       = errors.New("user not found")
	ErrEmailAlreadyExists = errors.New("email already exists")
)

// NewNotFoundError creates a custom not-found error with a message
func NewNotFoundError(message string) error {
	return &CustomError{
		Err:     ErrNotFound,
		Message: message,
	}
}

// NewBadRequestError creates a custom bad-request error with a message
func NewBadRequestError(message string) error {
	return &CustomError{
		Err:     ErrBadRequest,
		Message: message,
	}
}

// NewInternalError wraps an unexpected failure, keeping the cause for diagnostics
func NewInternalError(cause error, message string) error {
	return &CustomError{
		Err:     errors.Join(ErrInternal, cause),
		Message: message,
	}
}

// CustomError represents application-specific errors with additional context
type CustomError struct {
	Err     error
	Message string
	Details map[string]interface{}
}

// Error implements error interface
func (e *CustomError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return "unknown error"
}

// Unwrap implements errors.Unwrap interface
func (e *CustomError) Unwrap() error {
	return e.Err
}

// NewCustomError creates a CustomError with underlying error
func NewCustomError(err error, message string) *CustomError {
	return &CustomError{
		Err:     err,
		Message: message,
	}
}

// WithDetails adds context details to the error
func (e *CustomError) WithDetails(details map[string]interface{}) *CustomError {
	e.Details = details
	return e
}
