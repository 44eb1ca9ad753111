package pin

import (
	"strings"

	pinerr "github.com/mj1618/pinit/internal/errors"
	"github.com/mj1618/pinit/internal/logging"
	"github.com/mj1618/pinit/internal/model"
	"github.com/mj1618/pinit/internal/platform"
	"github.com/sirupsen/logrus"
)

const (
	// PinnedProp marks windows pinned by this program.
	PinnedProp = "PinIt_Pinned"
	// ExcludedProp is set by other programs to opt a window out.
	ExcludedProp = "PinIt_Excluded"

	unknown = "Unknown"
)

// shellClasses are desktop and taskbar windows that must never be pinned.
var shellClasses = map[string]bool{
	"Progman":                true,
	"WorkerW":                true,
	"Shell_TrayWnd":          true,
	"Shell_SecondaryTrayWnd": true,
}

// Reassertion is the outcome of ReassertTopmost.
type Reassertion int

const (
	// ReassertUntracked means the handle is not pinned; nothing was done.
	ReassertUntracked Reassertion = iota
	// ReassertNoop means the topmost flag was still set.
	ReassertNoop
	// ReassertRestored means the flag had been stripped and was set again.
	ReassertRestored
	// ReassertDestroyed means the window is gone and its record was dropped.
	ReassertDestroyed
	// ReassertFailed means the OS refused to set the flag again.
	ReassertFailed
)

func (r Reassertion) String() string {
	switch r {
	case ReassertUntracked:
		return "untracked"
	case ReassertNoop:
		return "noop"
	case ReassertRestored:
		return "restored"
	case ReassertDestroyed:
		return "destroyed"
	case ReassertFailed:
		return "failed"
	}
	return "unknown"
}

// Engine implements pin, unpin, toggle and topmost re-enforcement.
type Engine struct {
	win     platform.Windows
	reg     *Registry
	opacity *Transparency
	exclude map[string]bool
	log     *logrus.Entry
}

// Option configures an Engine.
type Option func(*Engine)

// WithExcludedProcesses denies pinning windows of the named processes.
// Names are matched case-insensitively.
func WithExcludedProcesses(names ...string) Option {
	return func(e *Engine) {
		for _, n := range names {
			n = strings.TrimSpace(n)
			if n != "" {
				e.exclude[strings.ToLower(n)] = true
			}
		}
	}
}

func NewEngine(win platform.Windows, reg *Registry, opacity *Transparency, opts ...Option) *Engine {
	e := &Engine{
		win:     win,
		reg:     reg,
		opacity: opacity,
		exclude: make(map[string]bool),
		log:     logging.NewLogger("engine"),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Registry returns the registry the engine mutates.
func (e *Engine) Registry() *Registry {
	return e.reg
}

// Pin keeps h on top. Pinning an already pinned window only re-applies the
// topmost flag and returns the existing record.
func (e *Engine) Pin(h model.Handle) (model.PinnedWindow, error) {
	if !e.win.IsWindow(h) {
		return model.PinnedWindow{}, pinerr.NoSuchWindow(h)
	}

	process := e.win.ProcessName(h)
	if process == "" {
		process = unknown
	}
	if reason := e.excluded(h, process); reason != "" {
		return model.PinnedWindow{}, pinerr.WindowExcluded(h, reason)
	}

	if rec, ok := e.reg.Get(h); ok {
		if err := e.win.SetTopmost(h, true); err != nil {
			return model.PinnedWindow{}, pinerr.SetAttributeFailed(h, err)
		}
		return rec, nil
	}

	title := e.win.Title(h)
	if title == "" {
		title = unknown
	}

	if err := e.win.SetTopmost(h, true); err != nil {
		return model.PinnedWindow{}, pinerr.SetAttributeFailed(h, err)
	}
	if err := e.win.SetProp(h, PinnedProp); err != nil {
		e.log.WithError(err).WithField("handle", h).Warn("Failed to mark pinned window")
	}

	rec := e.reg.Add(h, title, process)
	e.log.WithFields(logrus.Fields{"handle": h, "title": title, "process": process}).Info("Window pinned")
	return rec, nil
}

// Unpin releases h. Opacity is restored first because it needs the record;
// a failure there is logged only, since a translucent unpinned window is a
// lesser harm than a window stuck on top.
func (e *Engine) Unpin(h model.Handle) error {
	if !e.win.IsWindow(h) {
		if _, ok := e.reg.Remove(h); ok {
			e.log.WithField("handle", h).Info("Dropped pin of destroyed window")
			return nil
		}
		return pinerr.NoSuchWindow(h)
	}

	if err := e.opacity.Restore(h); err != nil {
		e.log.WithError(err).WithField("handle", h).Warn("Failed to restore opacity")
	}
	if e.win.HasProp(h, PinnedProp) {
		if err := e.win.RemoveProp(h, PinnedProp); err != nil {
			e.log.WithError(err).WithField("handle", h).Debug("Failed to remove pin marker")
		}
	}
	if err := e.win.SetTopmost(h, false); err != nil {
		return pinerr.SetAttributeFailed(h, err)
	}

	e.reg.Remove(h)
	// A reassert may have landed between clearing the flag and removing the
	// record; clear it again now that no reassert can see the pin.
	if e.win.IsTopmost(h) {
		if err := e.win.SetTopmost(h, false); err != nil {
			e.log.WithError(err).WithField("handle", h).Warn("Failed to clear re-enforced topmost")
		}
	}
	e.log.WithField("handle", h).Info("Window unpinned")
	return nil
}

// IsPinned reports whether h is pinned by the registry or topmost at the OS
// level. Either counts, so a half-pinned window toggles to unpinned.
func (e *Engine) IsPinned(h model.Handle) bool {
	return e.reg.IsPinned(h) || e.win.IsTopmost(h)
}

// Toggle unpins h if it is pinned, otherwise pins it. It returns the new
// pinned state.
func (e *Engine) Toggle(h model.Handle) (bool, error) {
	if !e.win.IsWindow(h) {
		if _, ok := e.reg.Remove(h); ok {
			e.log.WithField("handle", h).Info("Dropped pin of destroyed window")
		}
		return false, pinerr.NoSuchWindow(h)
	}

	if e.IsPinned(h) {
		if err := e.Unpin(h); err != nil {
			return true, err
		}
		return false, nil
	}
	if _, err := e.Pin(h); err != nil {
		return false, err
	}
	return true, nil
}

// ReassertTopmost sets the topmost flag again if the OS stripped it from a
// pinned window. It is idempotent and does nothing for untracked handles.
func (e *Engine) ReassertTopmost(h model.Handle) Reassertion {
	if !e.reg.IsPinned(h) {
		return ReassertUntracked
	}
	if e.win.IsTopmost(h) {
		return ReassertNoop
	}
	if !e.win.IsWindow(h) {
		e.reg.Remove(h)
		e.log.WithField("handle", h).Info("Pinned window disappeared")
		return ReassertDestroyed
	}

	// A concurrent unpin may have run since the first check.
	if !e.reg.IsPinned(h) {
		return ReassertUntracked
	}
	if err := e.win.SetTopmost(h, true); err != nil {
		e.log.WithError(err).WithField("handle", h).Warn("Failed to re-enforce topmost")
		return ReassertFailed
	}
	if !e.reg.IsPinned(h) {
		// Unpinned while we were setting it; converge to not topmost.
		_ = e.win.SetTopmost(h, false)
		return ReassertUntracked
	}

	e.log.WithField("handle", h).Debug("Re-enforced topmost")
	return ReassertRestored
}

// Adopt registers windows that still carry the pin marker from an earlier
// process but are missing from the registry. Their current alpha is kept.
func (e *Engine) Adopt() ([]model.PinnedWindow, error) {
	windows, err := e.win.List()
	if err != nil {
		return nil, err
	}

	var adopted []model.PinnedWindow
	for _, w := range windows {
		if e.reg.IsPinned(w.Handle) || !e.win.HasProp(w.Handle, PinnedProp) {
			continue
		}
		title, process := w.Title, w.Process
		if title == "" {
			title = unknown
		}
		if process == "" {
			process = unknown
		}
		e.reg.Add(w.Handle, title, process)
		if alpha, ok := e.win.Alpha(w.Handle); ok && alpha != model.OpaqueAlpha {
			e.reg.SetOpacity(w.Handle, alpha)
		}
		rec, _ := e.reg.Get(w.Handle)
		adopted = append(adopted, rec)
	}
	if len(adopted) > 0 {
		e.log.WithField("count", len(adopted)).Info("Adopted marked windows")
	}
	return adopted, nil
}

// excluded returns why h may not be pinned, or "" if it may.
func (e *Engine) excluded(h model.Handle, process string) string {
	if e.win.HasProp(h, ExcludedProp) {
		return "window carries the exclusion marker"
	}
	if shellClasses[e.win.ClassName(h)] {
		return "desktop shell window"
	}
	if e.exclude[strings.ToLower(process)] {
		return "process " + process + " is excluded"
	}
	return ""
}
