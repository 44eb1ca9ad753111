//go:build windows

package win32

import (
	"fmt"
	"sync"

	"github.com/mj1618/pinit/internal/model"
	"github.com/mj1618/pinit/internal/platform"
	"golang.org/x/sys/windows"
)

var winEventKinds = map[uint32]platform.EventKind{
	0x0003: platform.EventForeground,     // EVENT_SYSTEM_FOREGROUND
	0x000B: platform.EventMoveSizeEnd,    // EVENT_SYSTEM_MOVESIZEEND
	0x0016: platform.EventMinimizeStart,  // EVENT_SYSTEM_MINIMIZESTART
	0x0017: platform.EventMinimizeEnd,    // EVENT_SYSTEM_MINIMIZEEND
	0x8001: platform.EventDestroy,        // EVENT_OBJECT_DESTROY
	0x8005: platform.EventFocus,          // EVENT_OBJECT_FOCUS
	0x800B: platform.EventLocationChange, // EVENT_OBJECT_LOCATIONCHANGE
}

// The hook callback is a C function pointer and cannot close over state, so
// it forwards to whatever dispatch function is installed here.
var (
	dispatchMu sync.RWMutex
	dispatch   func(platform.Event)

	callbackOnce sync.Once
	callback     uintptr
)

func winEventProc(_ windows.Handle, event uint32, h windows.HWND, object, _ int32, _, _ uint32) uintptr {
	kind, ok := winEventKinds[event]
	if !ok || h == 0 {
		return 0
	}
	dispatchMu.RLock()
	fn := dispatch
	dispatchMu.RUnlock()
	if fn != nil {
		fn(platform.Event{Kind: kind, Handle: model.Handle(h), Object: object})
	}
	return 0
}

// Events implements platform.EventSource with out-of-context WinEvent hooks.
type Events struct {
	loop *loop

	mu    sync.Mutex
	hooks []uintptr
}

func (e *Events) Subscribe(fn func(platform.Event)) error {
	callbackOnce.Do(func() { callback = windows.NewCallback(winEventProc) })

	dispatchMu.Lock()
	dispatch = fn
	dispatchMu.Unlock()

	e.mu.Lock()
	defer e.mu.Unlock()
	if len(e.hooks) > 0 {
		return nil
	}

	return e.loop.do(func() error {
		for code := range winEventKinds {
			hook, _, err := procSetWinEventHook.Call(
				uintptr(code), uintptr(code),
				0, callback, 0, 0,
				winEventOutOfCtx|winEventSkipOwn,
			)
			if hook == 0 {
				e.unhookLocked()
				return fmt.Errorf("SetWinEventHook(0x%X): %w", code, err)
			}
			e.hooks = append(e.hooks, hook)
		}
		return nil
	})
}

func (e *Events) Close() error {
	dispatchMu.Lock()
	dispatch = nil
	dispatchMu.Unlock()

	e.mu.Lock()
	defer e.mu.Unlock()
	if len(e.hooks) == 0 {
		return nil
	}
	return e.loop.do(func() error {
		e.unhookLocked()
		return nil
	})
}

func (e *Events) unhookLocked() {
	for _, hook := range e.hooks {
		procUnhookWinEvent.Call(hook)
	}
	e.hooks = nil
}
