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
	ErrUnknown  ErrorCode = "UNKNOWN"
	ErrInternal ErrorCode = "INTERNAL"
	ErrIO       ErrorCode = "IO"

	// Configuration errors
	ErrConfigParse ErrorCode = "CONFIG_PARSE"
	ErrConfigValid ErrorCode = "CONFIG_INVALID"
	ErrVarDefaults ErrorCode = "VAR_DEFAULTS"

	// Name validation errors
	ErrNameEmpty      ErrorCode = "NAME_EMPTY"
	ErrNameDisallowed ErrorCode = "NAME_DISALLOWED"
	ErrNameCharacters ErrorCode = "NAME_CHARACTERS"

	// Environment errors
	ErrEnv                ErrorCode = "ENV"
	ErrUnknownEnvironment ErrorCode = "UNKNOWN_ENVIRONMENT"
	ErrEmptyEnvironment   ErrorCode = "EMPTY_ENVIRONMENT"

	// EnvTrie errors
	ErrCyclicPreference  ErrorCode = "CYCLIC_PREFERENCE"
	ErrIndecision        ErrorCode = "INDECISION"
	ErrDoubleDefine      ErrorCode = "DOUBLE_DEFINE"
	ErrCombinedExclusive ErrorCode = "COMBINED_EXCLUSIVE"

	// Filter errors
	ErrFilterGlob ErrorCode = "FILTER_GLOB"

	// Operation log errors
	ErrLogParse    ErrorCode = "LOG_PARSE"
	ErrLogAppend   ErrorCode = "LOG_APPEND"
	ErrOutOfDate   ErrorCode = "OUT_OF_DATE"
	ErrLogConflict ErrorCode = "LOG_CONFLICT"

	// Command errors
	ErrInit         ErrorCode = "INIT"
	ErrHoardUnknown ErrorCode = "HOARD_UNKNOWN"
)

// HoardError represents a structured error with code and details
type HoardError struct {
	Code    ErrorCode
	Message string
	Details map[string]interface{}
	Wrapped error
}

// Error implements the error interface
func (e *HoardError) Error() string {
	if e.Wrapped != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Wrapped)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap implements the errors.Unwrap interface
func (e *HoardError) Unwrap() error {
	return e.Wrapped
}

// Is implements errors.Is interface
func (e *HoardError) Is(target error) bool {
	var targetErr *HoardError
	if errors.As(target, &targetErr) {
		return e.Code == targetErr.Code
	}
	return false
}

// New creates a new HoardError with the given code and message
func New(code ErrorCode, message string) *HoardError {
	return &HoardError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
	}
}

// Newf creates a new HoardError with a formatted message
func Newf(code ErrorCode, format string, args ...interface{}) *HoardError {
	return &HoardError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
	}
}

// Wrap wraps an existing error with a HoardError
func Wrap(err error, code ErrorCode, message string) *HoardError {
	if err == nil {
		return nil
	}
	return &HoardError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// Wrapf wraps an existing error with a formatted message
func Wrapf(err error, code ErrorCode, format string, args ...interface{}) *HoardError {
	if err == nil {
		return nil
	}
	return &HoardError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// WithDetail adds a detail to the error
func (e *HoardError) WithDetail(key string, value interface{}) *HoardError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// IsErrorCode checks if an error has a specific error code
func IsErrorCode(err error, code ErrorCode) bool {
	var hoardErr *HoardError
	if errors.As(err, &hoardErr) {
		return hoardErr.Code == code
	}
	return false
}

// GetErrorCode returns the error code from an error, or ErrUnknown if not a HoardError
func GetErrorCode(err error) ErrorCode {
	var hoardErr *HoardError
	if errors.As(err, &hoardErr) {
		return hoardErr.Code
	}
	return ErrUnknown
}

// GetErrorDetails returns the details from an error, or nil if not a HoardError
func GetErrorDetails(err error) map[string]interface{} {
	var hoardErr *HoardError
	if errors.As(err, &hoardErr) {
		return hoardErr.Details
	}
	return nil
}
