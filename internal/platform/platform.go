package platform

import "github.com/mj1618/pinit/internal/model"

// Windows is the boundary to the host windowing system. Every method must
// tolerate handles that were destroyed behind the caller's back.
type Windows interface {
	// IsWindow reports whether h still identifies a live window.
	IsWindow(h model.Handle) bool

	// Foreground returns the window with input focus, or 0 if none.
	Foreground() model.Handle

	Title(h model.Handle) string
	ProcessName(h model.Handle) string
	ClassName(h model.Handle) string

	IsTopmost(h model.Handle) bool
	SetTopmost(h model.Handle, on bool) error

	// Window properties used as pin markers.
	HasProp(h model.Handle, name string) bool
	SetProp(h model.Handle, name string) error
	RemoveProp(h model.Handle, name string) error

	// IsLayered reports whether the window carries the translucency capability.
	IsLayered(h model.Handle) bool
	SetLayered(h model.Handle, on bool) error
	// Alpha returns the layered alpha. ok is false when none can be read.
	Alpha(h model.Handle) (alpha uint8, ok bool)
	SetAlpha(h model.Handle, alpha uint8) error
	// Redraw forces a frame repaint after style changes.
	Redraw(h model.Handle) error

	// List returns visible, non-tool top-level windows.
	List() ([]model.Window, error)

	// Focus restores a minimized window and brings it to the front.
	Focus(h model.Handle) error
}

// EventSource delivers window notifications from the OS.
type EventSource interface {
	// Subscribe starts delivery to fn. fn runs on an OS-owned thread and
	// must not block.
	Subscribe(fn func(Event)) error

	// Close removes every subscription.
	Close() error
}

// HotkeyRegistrar registers system-wide hotkeys.
type HotkeyRegistrar interface {
	RegisterHotkey(id int, mods, key uint32) error
	UnregisterHotkey(id int) error
	// OnHotkey sets the function called with the id of a pressed hotkey.
	OnHotkey(fn func(id int))
}

// AutoStarter toggles launching the program at login.
type AutoStarter interface {
	Enabled() (bool, error)
	Enable() error
	Disable() error
}
