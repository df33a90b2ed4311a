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
	ErrUnknown        ErrorCode = "UNKNOWN"
	ErrInternal       ErrorCode = "INTERNAL"
	ErrInvalidInput   ErrorCode = "INVALID_INPUT"
	ErrNotFound       ErrorCode = "NOT_FOUND"
	ErrAlreadyExists  ErrorCode = "ALREADY_EXISTS"
	ErrNotImplemented ErrorCode = "NOT_IMPLEMENTED"

	// Configuration errors
	ErrConfigLoad  ErrorCode = "CONFIG_LOAD"
	ErrConfigParse ErrorCode = "CONFIG_PARSE"

	// Settings store errors
	ErrSettingsLoad    ErrorCode = "SETTINGS_LOAD"
	ErrSettingsPersist ErrorCode = "SETTINGS_PERSIST"
	ErrCacheLoad       ErrorCode = "CACHE_LOAD"
	ErrCacheWrite      ErrorCode = "CACHE_WRITE"

	// Mount point errors
	ErrMountNotFound ErrorCode = "MOUNT_NOT_FOUND"
	ErrMountCreate   ErrorCode = "MOUNT_CREATE"
	ErrMountClosed   ErrorCode = "MOUNT_CLOSED"

	// Template errors
	ErrTemplateConfig   ErrorCode = "TEMPLATE_CONFIG"
	ErrTemplateNotFound ErrorCode = "TEMPLATE_NOT_FOUND"

	// Macro errors
	ErrMacroConfig ErrorCode = "MACRO_CONFIG"
	ErrMacroParam  ErrorCode = "MACRO_PARAM"

	// FileSystem errors
	ErrFileNotFound ErrorCode = "FILE_NOT_FOUND"
	ErrFileAccess   ErrorCode = "FILE_ACCESS"
	ErrFileWrite    ErrorCode = "FILE_WRITE"
)

// SkelError represents a structured error with code and details
type SkelError struct {
	Code    ErrorCode
	Message string
	Details map[string]interface{}
	Wrapped error
}

// Error implements the error interface
func (e *SkelError) Error() string {
	if e.Wrapped != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Wrapped)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap implements the errors.Unwrap interface
func (e *SkelError) Unwrap() error {
	return e.Wrapped
}

// Is implements errors.Is interface
func (e *SkelError) Is(target error) bool {
	var targetErr *SkelError
	if errors.As(target, &targetErr) {
		return e.Code == targetErr.Code
	}
	return false
}

// New creates a new SkelError with the given code and message
func New(code ErrorCode, message string) *SkelError {
	return &SkelError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
	}
}

// Newf creates a new SkelError with a formatted message
func Newf(code ErrorCode, format string, args ...interface{}) *SkelError {
	return &SkelError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
	}
}

// Wrap wraps an existing error with a SkelError
func Wrap(err error, code ErrorCode, message string) *SkelError {
	if err == nil {
		return nil
	}
	return &SkelError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// Wrapf wraps an existing error with a formatted message
func Wrapf(err error, code ErrorCode, format string, args ...interface{}) *SkelError {
	if err == nil {
		return nil
	}
	return &SkelError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// WithDetail adds a detail to the error
func (e *SkelError) WithDetail(key string, value interface{}) *SkelError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// IsErrorCode checks if an error has a specific error code
func IsErrorCode(err error, code ErrorCode) bool {
	var skelErr *SkelError
	if errors.As(err, &skelErr) {
		return skelErr.Code == code
	}
	return false
}

// GetErrorCode returns the error code from an error, or ErrUnknown if not a SkelError
func GetErrorCode(err error) ErrorCode {
	var skelErr *SkelError
	if errors.As(err, &skelErr) {
		return skelErr.Code
	}
	return ErrUnknown
}
