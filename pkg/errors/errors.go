package errors

import (
	"errors"
	"fmt"
)

// ErrorCode represents a unique error code for stable testing
type ErrorCode string

// Error codes for different error categories
const (
	// General errors
	ErrUnknown      ErrorCode = "UNKNOWN"
	ErrInternal     ErrorCode = "INTERNAL"
	ErrInvalidInput ErrorCode = "INVALID_INPUT"
	ErrNotFound     ErrorCode = "NOT_FOUND"
	ErrPermission   ErrorCode = "PERMISSION"

	// Configuration errors
	ErrConfigLoad  ErrorCode = "CONFIG_LOAD"
	ErrConfigParse ErrorCode = "CONFIG_PARSE"

	// Catalog errors
	ErrCatalogLoad    ErrorCode = "CATALOG_LOAD"
	ErrCatalogInvalid ErrorCode = "CATALOG_INVALID"
	ErrUnknownTweak   ErrorCode = "UNKNOWN_TWEAK"
	ErrUnknownItem    ErrorCode = "UNKNOWN_ITEM"

	// Engine errors
	ErrKeyProbeFailed ErrorCode = "KEY_PROBE_FAILED"
	ErrBackupFailed   ErrorCode = "BACKUP_FAILED"
	ErrMutationFailed ErrorCode = "MUTATION_FAILED"
	ErrRestoreFailed  ErrorCode = "RESTORE_FAILED"

	// Backup store errors
	ErrBackupNotFound ErrorCode = "BACKUP_NOT_FOUND"
	ErrLedgerLoad     ErrorCode = "LEDGER_LOAD"
	ErrLedgerWrite    ErrorCode = "LEDGER_WRITE"

	// External command errors
	ErrCommandFailed ErrorCode = "COMMAND_FAILED"

	// FileSystem errors
	ErrFileNotFound ErrorCode = "FILE_NOT_FOUND"
	ErrFileAccess   ErrorCode = "FILE_ACCESS"
	ErrFileWrite    ErrorCode = "FILE_WRITE"
	ErrDirCreate    ErrorCode = "DIR_CREATE"
)

// WintweakError represents a structured error with code and details
type WintweakError struct {
	Code    ErrorCode
	Message string
	Details map[string]interface{}
	Wrapped error
}

// Error implements the error interface
func (e *WintweakError) Error() string {
	if e.Wrapped != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Wrapped)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap implements the errors.Unwrap interface
func (e *WintweakError) Unwrap() error {
	return e.Wrapped
}

// Is implements errors.Is interface
func (e *WintweakError) Is(target error) bool {
	var targetErr *WintweakError
	if errors.As(target, &targetErr) {
		return e.Code == targetErr.Code
	}
	return false
}

// New creates a new WintweakError with the given code and message
func New(code ErrorCode, message string) *WintweakError {
	return &WintweakError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
	}
}

// Newf creates a new WintweakError with a formatted message
func Newf(code ErrorCode, format string, args ...interface{}) *WintweakError {
	return &WintweakError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
	}
}

// Wrap wraps an existing error with a WintweakError
func Wrap(err error, code ErrorCode, message string) *WintweakError {
	if err == nil {
		return nil
	}
	return &WintweakError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// Wrapf wraps an existing error with a formatted message
func Wrapf(err error, code ErrorCode, format string, args ...interface{}) *WintweakError {
	if err == nil {
		return nil
	}
	return &WintweakError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// WithDetail adds a detail to the error
func (e *WintweakError) WithDetail(key string, value interface{}) *WintweakError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// WithDetails adds multiple details to the error
func (e *WintweakError) WithDetails(details map[string]interface{}) *WintweakError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	for k, v := range details {
		e.Details[k] = v
	}
	return e
}

// IsCode checks if an error has a specific error code
func IsCode(err error, code ErrorCode) bool {
	var werr *WintweakError
	if errors.As(err, &werr) {
		return werr.Code == code
	}
	return false
}

// GetCode returns the error code from an error, or ErrUnknown if not a WintweakError
func GetCode(err error) ErrorCode {
	var werr *WintweakError
	if errors.As(err, &werr) {
		return werr.Code
	}
	return ErrUnknown
}

// GetDetails returns the details from an error, or nil if not a WintweakError
func GetDetails(err error) map[string]interface{} {
	var werr *WintweakError
	if errors.As(err, &werr) {
		return werr.Details
	}
	return nil
}
