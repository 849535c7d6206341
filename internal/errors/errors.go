package errors

import (
	stderrors "errors"
	"fmt"
)

// ErrorCode represents a cursordata error code.
type ErrorCode string

const (
	ErrInvalidRequest     ErrorCode = "INVALID_REQUEST"     // 400
	ErrNotFound           ErrorCode = "NOT_FOUND"           // 404
	ErrMissingField       ErrorCode = "MISSING_FIELD"       // 422
	ErrRowConstruction    ErrorCode = "ROW_CONSTRUCTION"    // 422
	ErrInternal           ErrorCode = "INTERNAL"            // 500
	ErrStorageUnavailable ErrorCode = "STORAGE_UNAVAILABLE" // 503
)

// DataError represents a structured error with code, status, and details.
type DataError struct {
	Code    ErrorCode
	Status  int
	Message string
	Details map[string]any
}

// Error implements the error interface.
func (e *DataError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// NewInvalidRequest creates a 400 error for invalid request parameters.
func NewInvalidRequest(msg string) *DataError {
	return &DataError{
		Code:    ErrInvalidRequest,
		Status:  400,
		Message: msg,
	}
}

// NewNotFound creates a 404 error for a key that does not exist.
func NewNotFound(key string) *DataError {
	return &DataError{
		Code:    ErrNotFound,
		Status:  404,
		Message: fmt.Sprintf("entry not found: %s", key),
		Details: map[string]any{"key": key},
	}
}

// NewMissingField creates a 422 error for a mandatory field absent from a payload.
func NewMissingField(field string) *DataError {
	return &DataError{
		Code:    ErrMissingField,
		Status:  422,
		Message: fmt.Sprintf("mandatory field missing: %s", field),
		Details: map[string]any{"field": field},
	}
}

// NewRowConstruction creates a 422 error for a row that could not be decoded
// into a record. Batch paths log and skip these; direct paths surface them.
func NewRowConstruction(key, reason string) *DataError {
	return &DataError{
		Code:    ErrRowConstruction,
		Status:  422,
		Message: fmt.Sprintf("could not build record from row %s: %s", key, reason),
		Details: map[string]any{"key": key, "reason": reason},
	}
}

// NewStorageUnavailable creates a 503 error for a missing or unreadable database.
func NewStorageUnavailable(path string, err error) *DataError {
	msg := fmt.Sprintf("store unavailable at %s", path)
	if err != nil {
		msg = fmt.Sprintf("%s: %v", msg, err)
	}
	return &DataError{
		Code:    ErrStorageUnavailable,
		Status:  503,
		Message: msg,
		Details: map[string]any{"path": path},
	}
}

// NewInternal creates a 500 error for unexpected internal errors.
func NewInternal(err error) *DataError {
	msg := "internal error"
	if err != nil {
		msg = err.Error()
	}
	return &DataError{
		Code:    ErrInternal,
		Status:  500,
		Message: msg,
	}
}

// Is checks if an error is (or wraps) a DataError with the given code.
func Is(err error, code ErrorCode) bool {
	var dErr *DataError
	if stderrors.As(err, &dErr) {
		return dErr.Code == code
	}
	return false
}
