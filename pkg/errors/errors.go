package errors

import (
	"errors"
	"fmt"
)

// ErrorCode identifies an error category with a stable string value,
// so callers and tests can match on the category instead of message text.
type ErrorCode string

const (
	// General
	ErrUnknown      ErrorCode = "UNKNOWN"
	ErrInternal     ErrorCode = "INTERNAL"
	ErrInvalidInput ErrorCode = "INVALID_INPUT"

	// Configuration
	ErrConfigLoad ErrorCode = "CONFIG_LOAD"
	ErrConfigSave ErrorCode = "CONFIG_SAVE"

	// Mods directory resolution
	ErrModsDirNotFound ErrorCode = "MODS_DIR_NOT_FOUND"

	// Archive installation
	ErrUnsupportedFormat ErrorCode = "UNSUPPORTED_FORMAT"
	ErrCorruptArchive    ErrorCode = "CORRUPT_ARCHIVE"

	// Download
	ErrNetwork      ErrorCode = "NETWORK"
	ErrHTTPStatus   ErrorCode = "HTTP_STATUS"
	ErrDownloadBusy ErrorCode = "DOWNLOAD_BUSY"

	// Registry / filesystem
	ErrModNotFound ErrorCode = "MOD_NOT_FOUND"
	ErrModConflict ErrorCode = "MOD_CONFLICT"
	ErrFileAccess  ErrorCode = "FILE_ACCESS"
)

// DewError carries an error code, a human-readable message, optional
// key/value details, and an optional wrapped cause.
type DewError struct {
	Code    ErrorCode
	Message string
	Details map[string]interface{}
	Wrapped error
}

func (e *DewError) Error() string {
	if e.Wrapped != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Wrapped)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *DewError) Unwrap() error {
	return e.Wrapped
}

// Is matches two DewErrors by code, so errors.Is(err, New(code, ""))
// compares categories rather than instances.
func (e *DewError) Is(target error) bool {
	var de *DewError
	if errors.As(target, &de) {
		return e.Code == de.Code
	}
	return false
}

// New creates a DewError with the given code and message.
func New(code ErrorCode, message string) *DewError {
	return &DewError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
	}
}

// Newf creates a DewError with a formatted message.
func Newf(code ErrorCode, format string, args ...interface{}) *DewError {
	return New(code, fmt.Sprintf(format, args...))
}

// Wrap attaches a code and message to an existing error.
// Returns nil when err is nil.
func Wrap(err error, code ErrorCode, message string) *DewError {
	if err == nil {
		return nil
	}
	return &DewError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// Wrapf attaches a code and a formatted message to an existing error.
func Wrapf(err error, code ErrorCode, format string, args ...interface{}) *DewError {
	if err == nil {
		return nil
	}
	return Wrap(err, code, fmt.Sprintf(format, args...))
}

// WithDetail adds a key/value detail and returns the error for chaining.
func (e *DewError) WithDetail(key string, value interface{}) *DewError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// IsCode reports whether err carries the given code anywhere in its chain.
func IsCode(err error, code ErrorCode) bool {
	var de *DewError
	if errors.As(err, &de) {
		return de.Code == code
	}
	return false
}

// CodeOf returns the code of err, or ErrUnknown for foreign errors.
func CodeOf(err error) ErrorCode {
	var de *DewError
	if errors.As(err, &de) {
		return de.Code
	}
	return ErrUnknown
}

// Message returns the human-readable message of err without the
// "[CODE]" prefix that Error() adds. Foreign errors return Error().
func Message(err error) string {
	if err == nil {
		return ""
	}
	var de *DewError
	if errors.As(err, &de) {
		if de.Wrapped != nil {
			return fmt.Sprintf("%s: %v", de.Message, de.Wrapped)
		}
		return de.Message
	}
	return err.Error()
}
