package errors

import (
	"encoding/json"
	"fmt"
)

// ErrorCode identifies a failure kind of a pin operation.
type ErrorCode string

const (
	// Not found
	ErrCodeNoForegroundWindow ErrorCode = "NO_FOREGROUND_WINDOW"
	ErrCodeNoSuchWindow       ErrorCode = "NO_SUCH_WINDOW"
	ErrCodeNotPinned          ErrorCode = "NOT_PINNED"

	// OS rejected the call, typically a more privileged target process
	ErrCodeSetAttributeFailed ErrorCode = "SET_ATTRIBUTE_FAILED"
	ErrCodeTransparencyFailed ErrorCode = "TRANSPARENCY_FAILED"

	// Policy
	ErrCodeWindowExcluded ErrorCode = "WINDOW_EXCLUDED"

	// Configuration and bindings
	ErrCodeConfigInvalid ErrorCode = "CONFIG_INVALID"
	ErrCodeBindingFailed ErrorCode = "BINDING_FAILED"

	ErrCodeUnsupported ErrorCode = "UNSUPPORTED"
)

// PinError is a structured error carrying a failure code.
type PinError struct {
	Code    ErrorCode              `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
	Cause   error                  `json:"-"`
}

func (e *PinError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *PinError) Unwrap() error {
	return e.Cause
}

// WithDetail adds a detail to the error.
func (e *PinError) WithDetail(key string, value interface{}) *PinError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// ToJSON converts the error to JSON.
func (e *PinError) ToJSON() string {
	data, _ := json.MarshalIndent(e, "", "  ")
	return string(data)
}

// New creates a new PinError.
func New(code ErrorCode, message string) *PinError {
	return &PinError{
		Code:    code,
		Message: message,
	}
}

// Wrap wraps an existing error with a PinError.
func Wrap(err error, code ErrorCode, message string) *PinError {
	return &PinError{
		Code:    code,
		Message: message,
		Cause:   err,
	}
}

// Is reports whether err, or anything it wraps, is a PinError with code.
func Is(err error, code ErrorCode) bool {
	return GetCode(err) == code && code != ""
}

// GetCode extracts the error code from an error.
func GetCode(err error) ErrorCode {
	if err == nil {
		return ""
	}

	pinErr, ok := err.(*PinError)
	if !ok {
		if unwrapper, ok := err.(interface{ Unwrap() error }); ok {
			return GetCode(unwrapper.Unwrap())
		}
		return ""
	}

	return pinErr.Code
}
