package errors

import (
	"fmt"

	"github.com/mj1618/pinit/internal/model"
)

// NoForegroundWindow is returned when no window currently has input focus.
func NoForegroundWindow() *PinError {
	return New(ErrCodeNoForegroundWindow, "no foreground window, click on a window first")
}

// NoSuchWindow is returned for invalid or stale handles.
func NoSuchWindow(h model.Handle) *PinError {
	return New(ErrCodeNoSuchWindow, fmt.Sprintf("window %s does not exist", h)).
		WithDetail("handle", uintptr(h))
}

// NotPinned is returned when an operation requires a pinned window.
func NotPinned(h model.Handle) *PinError {
	return New(ErrCodeNotPinned, fmt.Sprintf("window %s is not pinned", h)).
		WithDetail("handle", uintptr(h))
}

// SetAttributeFailed wraps an OS refusal to change the topmost attribute.
func SetAttributeFailed(h model.Handle, cause error) *PinError {
	return Wrap(cause, ErrCodeSetAttributeFailed,
		fmt.Sprintf("failed to change topmost state of window %s", h)).
		WithDetail("handle", uintptr(h))
}

// TransparencyFailed wraps an OS refusal to apply layered attributes.
func TransparencyFailed(h model.Handle, cause error) *PinError {
	return Wrap(cause, ErrCodeTransparencyFailed,
		fmt.Sprintf("failed to set transparency of window %s", h)).
		WithDetail("handle", uintptr(h))
}

// WindowExcluded is returned when policy forbids pinning the window.
func WindowExcluded(h model.Handle, reason string) *PinError {
	return New(ErrCodeWindowExcluded, fmt.Sprintf("window %s is excluded from pinning: %s", h, reason)).
		WithDetail("handle", uintptr(h)).
		WithDetail("reason", reason)
}

// ConfigInvalid reports malformed persisted state.
func ConfigInvalid(reason string, cause error) *PinError {
	return Wrap(cause, ErrCodeConfigInvalid, fmt.Sprintf("invalid configuration: %s", reason))
}

// BindingFailed reports a shortcut that could not be parsed or registered.
func BindingFailed(action, shortcut string, cause error) *PinError {
	return Wrap(cause, ErrCodeBindingFailed, fmt.Sprintf("cannot bind %q to %s", shortcut, action)).
		WithDetail("action", action).
		WithDetail("shortcut", shortcut)
}

// Unsupported reports a capability the current platform lacks.
func Unsupported(what string) *PinError {
	return New(ErrCodeUnsupported, fmt.Sprintf("%s is not available on this platform", what))
}
