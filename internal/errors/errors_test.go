package errors

import (
	"fmt"
	"testing"

	"github.com/mj1618/pinit/internal/model"
)

func TestPinError(t *testing.T) {
	err := New(ErrCodeNoSuchWindow, "window not found")
	if err.Code != ErrCodeNoSuchWindow {
		t.Errorf("expected code %s, got %s", ErrCodeNoSuchWindow, err.Code)
	}

	cause := fmt.Errorf("access denied")
	wrapped := Wrap(cause, ErrCodeSetAttributeFailed, "set failed")
	if wrapped.Unwrap() != cause {
		t.Error("Unwrap should return the cause")
	}
	if !Is(wrapped, ErrCodeSetAttributeFailed) {
		t.Error("Is should return true for matching code")
	}
	if Is(wrapped, ErrCodeNoSuchWindow) {
		t.Error("Is should return false for non-matching code")
	}
}

func TestIs_ThroughFmtWrap(t *testing.T) {
	err := fmt.Errorf("toggle: %w", NoSuchWindow(model.Handle(7)))
	if !Is(err, ErrCodeNoSuchWindow) {
		t.Error("Is should unwrap fmt-wrapped errors")
	}
	if GetCode(err) != ErrCodeNoSuchWindow {
		t.Errorf("GetCode: got %s", GetCode(err))
	}
	if Is(nil, ErrCodeNoSuchWindow) {
		t.Error("Is(nil) should be false")
	}
	if Is(fmt.Errorf("plain"), "") {
		t.Error("plain errors carry no code")
	}
}

func TestConstructors(t *testing.T) {
	err := WindowExcluded(model.Handle(0x10), "shell window")
	if err.Code != ErrCodeWindowExcluded {
		t.Errorf("expected code %s, got %s", ErrCodeWindowExcluded, err.Code)
	}
	if err.Details["reason"] != "shell window" {
		t.Error("WindowExcluded should include reason detail")
	}

	bind := BindingFailed("toggle_pin", "Ctrl+?", fmt.Errorf("unknown key"))
	if bind.Details["action"] != "toggle_pin" {
		t.Error("BindingFailed should include action detail")
	}
}
