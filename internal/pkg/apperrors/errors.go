package apperrors

import "errors"

// Common errors
var (
	// Resource errors. ErrNotFoundOrDenied deliberately covers both "row does
	// not exist" and "row belongs to another hostel": callers outside a tenant
	// must not be able to tell the two apart.
	ErrNotFoundOrDenied      = errors.New("resource not found")
	ErrResourceAlreadyExists = errors.New("resource already exists")
	ErrConflict              = errors.New("conflict")

	// Authentication errors
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrTokenExpired       = errors.New("token expired")
	ErrTokenInvalid       = errors.New("invalid token")
	ErrAccountDisabled    = errors.New("account is disabled")

	// Authorization errors
	ErrPermissionDenied = errors.New("permission denied")

	// Validation errors
	ErrValidationFailed = errors.New("validation failed")
	ErrBadRequest       = errors.New("bad request")

	// Store errors
	ErrTransientStore = errors.New("transient store error")
)

// Hostel errors
var (
	ErrHostelNameExists     = errors.New("hostel with this name already exists")
	ErrHostelHasRelations   = errors.New("hostel has rooms, students, records or managers and cannot be deleted")
	ErrManagerWithoutHostel = errors.New("manager account has no hostel assigned")
)

// Room errors
var (
	ErrRoomNumberExists       = errors.New("room number already exists in this hostel")
	ErrRoomAtCapacity         = errors.New("room is at full capacity")
	ErrCapacityBelowOccupancy = errors.New("capacity cannot be reduced below current occupancy")
)

// Student errors
var (
	ErrStudentIDExists    = errors.New("student ID number already exists")
	ErrStudentEmailExists = errors.New("student email already exists")
)

// User errors
var (
	ErrUsernameExists = errors.New("username already exists")
)

// Fee errors
var (
	ErrFeeAlreadyPaid = errors.New("fee is already paid")
)

// Is returns whether target matches err or any of the errors in errList
func Is(err, target error, errList ...error) bool {
	if errors.Is(err, target) {
		return true
	}

	for _, e := range errList {
		if errors.Is(err, e) {
			return true
		}
	}

	return false
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

// NewValidationError creates a new custom error for malformed input
func NewValidationError(message string) error {
	return &CustomError{
		Err:     ErrValidationFailed,
		Message: message,
	}
}

// NewConflictError creates a new custom error for conflict situations
func NewConflictError(message string) error {
	return &CustomError{
		Err:     ErrConflict,
		Message: message,
	}
}

// NewNotFoundOrDeniedError creates a new custom error for missing or
// out-of-scope resources
func NewNotFoundOrDeniedError(message string) error {
	return &CustomError{
		Err:     ErrNotFoundOrDenied,
		Message: message,
	}
}

// NewForbiddenError creates a new custom error for permission denied
func NewForbiddenError(message string) error {
	return &CustomError{
		Err:     ErrPermissionDenied,
		Message: message,
	}
}
