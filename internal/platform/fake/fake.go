// Package fake is an in-memory window system used by tests. It simulates the
// behaviours the engine has to survive: the OS silently stripping the topmost
// flag, windows disappearing, and privileged windows rejecting changes.
package fake

import (
	"fmt"
	"sort"
	"sync"

	"github.com/mj1618/pinit/internal/model"
	"github.com/mj1618/pinit/internal/platform"
)

// ErrAccessDenied is returned for windows marked with Deny.
var ErrAccessDenied = fmt.Errorf("access is denied")

type window struct {
	pid       int
	process   string
	title     string
	class     string
	topmost   bool
	layered   bool
	alpha     uint8
	hasAlpha  bool
	props     map[string]bool
	tool      bool
	minimized bool

	denyTopmost bool
	denyAlpha   bool
}

// Windows is a fake platform.Windows, EventSource, HotkeyRegistrar and
// AutoStarter.
type Windows struct {
	mu         sync.Mutex
	windows    map[model.Handle]*window
	order      []model.Handle
	foreground model.Handle
	next       model.Handle

	subscriber func(platform.Event)
	subscribes int
	closes     int

	hotkeys     map[int][2]uint32
	hotkeyFn    func(int)
	denyHotkeys map[[2]uint32]bool

	autostart bool

	SetTopmostCalls int
	RedrawCalls     int
}

// New returns an empty fake window system.
func New() *Windows {
	return &Windows{
		windows:     make(map[model.Handle]*window),
		next:        0x100,
		hotkeys:     make(map[int][2]uint32),
		denyHotkeys: make(map[[2]uint32]bool),
	}
}

// NewProvider wraps f in a platform.Provider.
func NewProvider(f *Windows) *platform.Provider {
	return &platform.Provider{Windows: f, Events: f, Hotkeys: f, AutoStart: f}
}

// Open creates a visible window and returns its handle.
func (f *Windows) Open(process, title string) model.Handle {
	f.mu.Lock()
	defer f.mu.Unlock()

	h := f.next
	f.next += 0x10
	f.windows[h] = &window{
		pid:     int(h),
		process: process,
		title:   title,
		class:   "ApplicationFrameWindow",
		props:   make(map[string]bool),
	}
	f.order = append(f.order, h)
	return h
}

// OpenTool creates a tool window, which List skips.
func (f *Windows) OpenTool(process, title string) model.Handle {
	h := f.Open(process, title)
	f.with(h, func(w *window) { w.tool = true })
	return h
}

// Destroy removes a window. Its handle becomes invalid.
func (f *Windows) Destroy(h model.Handle) {
	f.mu.Lock()
	defer f.mu.Unlock()

	delete(f.windows, h)
	for i, o := range f.order {
		if o == h {
			f.order = append(f.order[:i], f.order[i+1:]...)
			break
		}
	}
	if f.foreground == h {
		f.foreground = 0
	}
}

// StripTopmost clears the topmost flag the way the OS does on its own.
func (f *Windows) StripTopmost(h model.Handle) {
	f.with(h, func(w *window) { w.topmost = false })
}

// ForceTopmost sets the topmost flag without going through the engine.
func (f *Windows) ForceTopmost(h model.Handle) {
	f.with(h, func(w *window) { w.topmost = true })
}

// SetTitle changes a window title.
func (f *Windows) SetTitle(h model.Handle, title string) {
	f.with(h, func(w *window) { w.title = title })
}

// SetClass changes a window class name.
func (f *Windows) SetClass(h model.Handle, class string) {
	f.with(h, func(w *window) { w.class = class })
}

// Minimize marks a window as minimized.
func (f *Windows) Minimize(h model.Handle) {
	f.with(h, func(w *window) { w.minimized = true })
}

// IsMinimized reports the minimized state.
func (f *Windows) IsMinimized(h model.Handle) bool {
	var m bool
	f.with(h, func(w *window) { m = w.minimized })
	return m
}

// MarkProp sets a property as another program would.
func (f *Windows) MarkProp(h model.Handle, name string) {
	f.with(h, func(w *window) { w.props[name] = true })
}

// DenyTopmost makes SetTopmost fail, as for an elevated target process.
func (f *Windows) DenyTopmost(h model.Handle) {
	f.with(h, func(w *window) { w.denyTopmost = true })
}

// DenyAlpha makes SetAlpha fail.
func (f *Windows) DenyAlpha(h model.Handle) {
	f.with(h, func(w *window) { w.denyAlpha = true })
}

// SetForeground makes h the focused window. 0 clears focus.
func (f *Windows) SetForeground(h model.Handle) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.foreground = h
}

func (f *Windows) with(h model.Handle, fn func(w *window)) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if w, ok := f.windows[h]; ok {
		fn(w)
	}
}

func (f *Windows) get(h model.Handle) (*window, error) {
	w, ok := f.windows[h]
	if !ok {
		return nil, fmt.Errorf("invalid window handle %s", h)
	}
	return w, nil
}

func (f *Windows) IsWindow(h model.Handle) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.windows[h]
	return ok
}

func (f *Windows) Foreground() model.Handle {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.foreground
}

func (f *Windows) Title(h model.Handle) string {
	var s string
	f.with(h, func(w *window) { s = w.title })
	return s
}

func (f *Windows) ProcessName(h model.Handle) string {
	var s string
	f.with(h, func(w *window) { s = w.process })
	return s
}

func (f *Windows) ClassName(h model.Handle) string {
	var s string
	f.with(h, func(w *window) { s = w.class })
	return s
}

func (f *Windows) IsTopmost(h model.Handle) bool {
	var b bool
	f.with(h, func(w *window) { b = w.topmost })
	return b
}

func (f *Windows) SetTopmost(h model.Handle, on bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.SetTopmostCalls++
	w, err := f.get(h)
	if err != nil {
		return err
	}
	if w.denyTopmost {
		return ErrAccessDenied
	}
	w.topmost = on
	return nil
}

func (f *Windows) HasProp(h model.Handle, name string) bool {
	var b bool
	f.with(h, func(w *window) { b = w.props[name] })
	return b
}

func (f *Windows) SetProp(h model.Handle, name string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	w, err := f.get(h)
	if err != nil {
		return err
	}
	w.props[name] = true
	return nil
}

func (f *Windows) RemoveProp(h model.Handle, name string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	w, err := f.get(h)
	if err != nil {
		return err
	}
	delete(w.props, name)
	return nil
}

func (f *Windows) IsLayered(h model.Handle) bool {
	var b bool
	f.with(h, func(w *window) { b = w.layered })
	return b
}

func (f *Windows) SetLayered(h model.Handle, on bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	w, err := f.get(h)
	if err != nil {
		return err
	}
	w.layered = on
	if !on {
		w.hasAlpha = false
	}
	return nil
}

func (f *Windows) Alpha(h model.Handle) (uint8, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	w, err := f.get(h)
	if err != nil || !w.layered || !w.hasAlpha {
		return 0, false
	}
	return w.alpha, true
}

func (f *Windows) SetAlpha(h model.Handle, alpha uint8) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	w, err := f.get(h)
	if err != nil {
		return err
	}
	if w.denyAlpha {
		return ErrAccessDenied
	}
	if !w.layered {
		return fmt.Errorf("window %s is not layered", h)
	}
	w.alpha = alpha
	w.hasAlpha = true
	return nil
}

func (f *Windows) Redraw(h model.Handle) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.RedrawCalls++
	_, err := f.get(h)
	return err
}

func (f *Windows) List() ([]model.Window, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var out []model.Window
	for _, h := range f.order {
		w := f.windows[h]
		if w.tool {
			continue
		}
		out = append(out, model.Window{
			Handle:  h,
			PID:     w.pid,
			Process: w.process,
			Title:   w.title,
			Class:   w.class,
			Topmost: w.topmost,
		})
	}
	return out, nil
}

func (f *Windows) Focus(h model.Handle) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	w, err := f.get(h)
	if err != nil {
		return err
	}
	w.minimized = false
	f.foreground = h
	return nil
}

// EventSource

func (f *Windows) Subscribe(fn func(platform.Event)) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.subscriber = fn
	f.subscribes++
	return nil
}

func (f *Windows) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.subscriber = nil
	f.closes++
	return nil
}

// Subscribes returns how many times Subscribe was called.
func (f *Windows) Subscribes() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.subscribes
}

// Closes returns how many times Close was called.
func (f *Windows) Closes() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.closes
}

// Emit delivers an event to the subscriber, if any, on the calling goroutine.
func (f *Windows) Emit(kind platform.EventKind, h model.Handle) {
	f.EmitObject(kind, h, platform.ObjectWindow)
}

// EmitObject delivers an event for a child object of the window.
func (f *Windows) EmitObject(kind platform.EventKind, h model.Handle, object int32) {
	f.mu.Lock()
	fn := f.subscriber
	f.mu.Unlock()
	if fn != nil {
		fn(platform.Event{Kind: kind, Handle: h, Object: object})
	}
}

// HotkeyRegistrar

func (f *Windows) RegisterHotkey(id int, mods, key uint32) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	combo := [2]uint32{mods, key}
	if f.denyHotkeys[combo] {
		return fmt.Errorf("hotkey already registered by another program")
	}
	for _, c := range f.hotkeys {
		if c == combo {
			return fmt.Errorf("hotkey already registered")
		}
	}
	f.hotkeys[id] = combo
	return nil
}

func (f *Windows) UnregisterHotkey(id int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.hotkeys[id]; !ok {
		return fmt.Errorf("hotkey %d not registered", id)
	}
	delete(f.hotkeys, id)
	return nil
}

func (f *Windows) OnHotkey(fn func(id int)) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.hotkeyFn = fn
}

// TakeHotkey makes a combo unavailable, as if another program owned it.
func (f *Windows) TakeHotkey(mods, key uint32) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.denyHotkeys[[2]uint32{mods, key}] = true
}

// Hotkeys returns the registered combos sorted by id.
func (f *Windows) Hotkeys() [][2]uint32 {
	f.mu.Lock()
	defer f.mu.Unlock()
	ids := make([]int, 0, len(f.hotkeys))
	for id := range f.hotkeys {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	out := make([][2]uint32, 0, len(ids))
	for _, id := range ids {
		out = append(out, f.hotkeys[id])
	}
	return out
}

// Press simulates the user pressing a registered combo. It reports whether
// the combo was registered.
func (f *Windows) Press(mods, key uint32) bool {
	f.mu.Lock()
	fn := f.hotkeyFn
	id, found := 0, false
	for i, c := range f.hotkeys {
		if c == [2]uint32{mods, key} {
			id, found = i, true
			break
		}
	}
	f.mu.Unlock()
	if found && fn != nil {
		fn(id)
	}
	return found
}

// AutoStarter

func (f *Windows) Enabled() (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.autostart, nil
}

func (f *Windows) Enable() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.autostart = true
	return nil
}

func (f *Windows) Disable() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.autostart = false
	return nil
}

var (
	_ platform.Windows         = (*Windows)(nil)
	_ platform.EventSource     = (*Windows)(nil)
	_ platform.HotkeyRegistrar = (*Windows)(nil)
	_ platform.AutoStarter     = (*Windows)(nil)
)
