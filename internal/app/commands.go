package app

import (
	"fmt"

	pinerr "github.com/mj1618/pinit/internal/errors"
	"github.com/mj1618/pinit/internal/events"
	"github.com/mj1618/pinit/internal/hotkey"
	"github.com/mj1618/pinit/internal/model"
)

// OpacityStep is how far one opacity hotkey press moves the opacity.
const OpacityStep = 10

// Pin keeps h on top.
func (a *App) Pin(h model.Handle) (model.PinnedWindow, error) {
	rec, err := a.engine.Pin(h)
	if err != nil {
		return rec, a.fail(err)
	}
	a.bus.Publish(events.Event{
		Kind:    events.PinStateChanged,
		Handle:  h,
		Pinned:  true,
		Title:   rec.Title,
		Process: rec.Process,
	})
	a.logSummary()
	return rec, nil
}

// Unpin releases h.
func (a *App) Unpin(h model.Handle) error {
	rec, _ := a.registry.Get(h)
	if err := a.engine.Unpin(h); err != nil {
		return a.fail(err)
	}
	a.bus.Publish(events.Event{
		Kind:    events.PinStateChanged,
		Handle:  h,
		Pinned:  false,
		Title:   rec.Title,
		Process: rec.Process,
	})
	a.logSummary()
	return nil
}

// Toggle flips the pin state of h and returns the new state.
func (a *App) Toggle(h model.Handle) (bool, error) {
	before, _ := a.registry.Get(h)
	pinned, err := a.engine.Toggle(h)
	if err != nil {
		return pinned, a.fail(err)
	}

	e := events.Event{Kind: events.PinStateChanged, Handle: h, Pinned: pinned, Title: before.Title, Process: before.Process}
	if rec, ok := a.registry.Get(h); ok {
		e.Title, e.Process = rec.Title, rec.Process
	}
	if e.Title == "" {
		e.Title, e.Process = a.win.Title(h), a.win.ProcessName(h)
	}
	a.bus.Publish(e)
	a.logSummary()
	return pinned, nil
}

// ToggleForeground toggles the focused window.
func (a *App) ToggleForeground() (model.Handle, bool, error) {
	h := a.win.Foreground()
	if h == 0 {
		return 0, false, a.fail(pinerr.NoForegroundWindow())
	}
	pinned, err := a.Toggle(h)
	return h, pinned, err
}

// Foreground returns the focused window.
func (a *App) Foreground() (model.Handle, error) {
	h := a.win.Foreground()
	if h == 0 {
		return 0, pinerr.NoForegroundWindow()
	}
	return h, nil
}

// Describe returns the title and process name of h.
func (a *App) Describe(h model.Handle) (title, process string) {
	if rec, ok := a.registry.Get(h); ok {
		return rec.Title, rec.Process
	}
	return a.win.Title(h), a.win.ProcessName(h)
}

// SetOpacity sets the opacity of h in percent and returns the applied value.
func (a *App) SetOpacity(h model.Handle, percent int) (int, error) {
	if !a.win.IsWindow(h) {
		return 0, a.fail(pinerr.NoSuchWindow(h))
	}
	got, err := a.opacity.SetOpacity(h, percent)
	if err != nil {
		return 0, a.fail(err)
	}
	a.bus.Publish(events.Event{Kind: events.OpacityChanged, Handle: h, Percent: got})
	return got, nil
}

// AdjustOpacity moves the opacity of a pinned window by delta percent.
func (a *App) AdjustOpacity(h model.Handle, delta int) (int, error) {
	if !a.win.IsWindow(h) {
		return 0, a.fail(pinerr.NoSuchWindow(h))
	}
	if !a.registry.IsPinned(h) {
		return 0, a.fail(pinerr.NotPinned(h))
	}
	got, err := a.opacity.AdjustOpacity(h, delta)
	if err != nil {
		return 0, a.fail(err)
	}
	a.bus.Publish(events.Event{Kind: events.OpacityChanged, Handle: h, Percent: got})
	return got, nil
}

// AdjustForegroundOpacity adjusts the focused window, which must be pinned.
func (a *App) AdjustForegroundOpacity(delta int) (model.Handle, int, error) {
	h := a.win.Foreground()
	if h == 0 {
		return 0, 0, a.fail(pinerr.NoForegroundWindow())
	}
	got, err := a.AdjustOpacity(h, delta)
	return h, got, err
}

// Opacity returns the effective opacity of h in percent.
func (a *App) Opacity(h model.Handle) (int, error) {
	if !a.win.IsWindow(h) {
		return 0, pinerr.NoSuchWindow(h)
	}
	return a.opacity.Percent(h), nil
}

// ListPinned returns the pinned windows ordered by handle.
func (a *App) ListPinned() []model.PinnedWindow {
	a.registry.CleanupStale()
	return a.registry.All()
}

// IsPinned reports whether h is in the registry.
func (a *App) IsPinned(h model.Handle) bool {
	return a.registry.IsPinned(h)
}

// PinnedCount returns how many windows are pinned.
func (a *App) PinnedCount() int {
	return a.registry.Len()
}

// Summary describes the pin count the way a tray tooltip would.
func (a *App) Summary() string {
	switch n := a.PinnedCount(); n {
	case 0:
		return "No windows pinned"
	case 1:
		return "1 window pinned"
	default:
		return fmt.Sprintf("%d windows pinned", n)
	}
}

// IsTopmost reports the OS topmost flag of h.
func (a *App) IsTopmost(h model.Handle) (bool, error) {
	if !a.win.IsWindow(h) {
		return false, pinerr.NoSuchWindow(h)
	}
	return a.win.IsTopmost(h), nil
}

// Focus restores h if minimized and brings it to the front. The pin state
// is not changed.
func (a *App) Focus(h model.Handle) error {
	if !a.win.IsWindow(h) {
		return a.fail(pinerr.NoSuchWindow(h))
	}
	if err := a.win.Focus(h); err != nil {
		return a.fail(pinerr.SetAttributeFailed(h, err))
	}
	return nil
}

// ListWindows returns the visible top-level windows with their pin state.
func (a *App) ListWindows() ([]model.Window, error) {
	windows, err := a.win.List()
	if err != nil {
		return nil, fmt.Errorf("failed to list windows: %w", err)
	}
	for i := range windows {
		windows[i].Pinned = a.registry.IsPinned(windows[i].Handle)
		windows[i].Opacity = a.opacity.Percent(windows[i].Handle)
	}
	return windows, nil
}

// Settings returns the current settings.
func (a *App) Settings() model.Settings {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.state.Settings
}

// UpdateSettings applies fn to a copy of the settings, rebinds shortcuts if
// they changed and persists the result. If the new shortcuts cannot be
// bound nothing is changed.
func (a *App) UpdateSettings(fn func(*model.Settings)) (model.Settings, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	next := a.state.Settings
	fn(&next)

	if next.Shortcuts != a.state.Settings.Shortcuts {
		for action, s := range hotkey.FromShortcuts(next.Shortcuts) {
			if _, err := hotkey.Parse(s); err != nil {
				return a.state.Settings, a.fail(pinerr.BindingFailed(string(action), s, err))
			}
		}
		if a.opts.Hotkeys && a.hotkeys != nil {
			if err := a.hotkeys.UpdateBindings(hotkey.FromShortcuts(next.Shortcuts)); err != nil {
				return a.state.Settings, a.fail(err)
			}
		}
	}

	var doc model.SavedState
	if a.opts.SavePins {
		doc = a.reconciler.Snapshot(a.state)
	} else {
		// Another process may own the pin list; keep it as it is on disk.
		onDisk, err := a.store.Load()
		if err != nil {
			a.log.WithError(err).Warn("Replacing unreadable state file")
		}
		doc = onDisk
	}
	doc.Settings = next
	if err := a.store.Save(doc); err != nil {
		return a.state.Settings, a.fail(err)
	}

	a.state = doc
	return next, nil
}

// AutoStart reports whether the program starts with the user session.
func (a *App) AutoStart() (bool, error) {
	if a.provider.AutoStart == nil {
		return false, pinerr.Unsupported("auto-start")
	}
	return a.provider.AutoStart.Enabled()
}

// SetAutoStart enables or disables starting with the user session.
func (a *App) SetAutoStart(on bool) error {
	if a.provider.AutoStart == nil {
		return pinerr.Unsupported("auto-start")
	}
	var err error
	if on {
		err = a.provider.AutoStart.Enable()
	} else {
		err = a.provider.AutoStart.Disable()
	}
	if err != nil {
		return a.fail(fmt.Errorf("failed to update auto-start: %w", err))
	}
	a.log.WithField("enabled", on).Info("Auto-start updated")
	return nil
}

func (a *App) onHotkey(action hotkey.Action) {
	var err error
	switch action {
	case hotkey.TogglePin:
		_, _, err = a.ToggleForeground()
	case hotkey.OpacityUp:
		_, _, err = a.AdjustForegroundOpacity(OpacityStep)
	case hotkey.OpacityDown:
		_, _, err = a.AdjustForegroundOpacity(-OpacityStep)
	}
	if err != nil {
		a.log.WithError(err).WithField("action", action).Debug("Hotkey action failed")
	}
}

// fail publishes err as an operation error and returns it.
func (a *App) fail(err error) error {
	a.publishError(err)
	return err
}

func (a *App) publishError(err error) {
	a.bus.Publish(events.Event{Kind: events.OperationError, Message: err.Error()})
}

func (a *App) logSummary() {
	a.log.Info(a.Summary())
}
