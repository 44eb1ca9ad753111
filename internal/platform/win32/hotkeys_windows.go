//go:build windows

package win32

import (
	"fmt"
	"sync"
)

// Hotkeys implements platform.HotkeyRegistrar. Registrations are bound to
// the loop thread, which receives the WM_HOTKEY messages.
type Hotkeys struct {
	loop *loop

	mu sync.RWMutex
	fn func(id int)
}

func (k *Hotkeys) RegisterHotkey(id int, mods, key uint32) error {
	return k.loop.do(func() error {
		r, _, err := procRegisterHotKey.Call(0, uintptr(id), uintptr(mods|modNoRepeat), uintptr(key))
		if r == 0 {
			return fmt.Errorf("RegisterHotKey: %w", err)
		}
		return nil
	})
}

func (k *Hotkeys) UnregisterHotkey(id int) error {
	return k.loop.do(func() error {
		r, _, err := procUnregisterHotKey.Call(0, uintptr(id))
		if r == 0 {
			return fmt.Errorf("UnregisterHotKey: %w", err)
		}
		return nil
	})
}

func (k *Hotkeys) OnHotkey(fn func(id int)) {
	k.mu.Lock()
	defer k.mu.Unlock()
	k.fn = fn
}

func (k *Hotkeys) dispatch(id int) {
	k.mu.RLock()
	fn := k.fn
	k.mu.RUnlock()
	if fn != nil {
		fn(id)
	}
}
