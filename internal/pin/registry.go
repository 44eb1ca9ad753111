// Package pin tracks pinned windows and keeps them on top.
package pin

import (
	"sort"
	"sync"

	"github.com/mj1618/pinit/internal/logging"
	"github.com/mj1618/pinit/internal/model"
	"github.com/sirupsen/logrus"
)

// Validator reports whether a handle still identifies a live window.
type Validator interface {
	IsWindow(h model.Handle) bool
}

// Registry is the authoritative set of pinned windows. A handle is pinned
// if and only if it is present; the OS topmost flag is only a consequence.
type Registry struct {
	mu      sync.RWMutex
	windows map[model.Handle]model.PinnedWindow
	valid   Validator
	log     *logrus.Entry
}

// NewRegistry returns an empty registry that validates handles with v.
func NewRegistry(v Validator) *Registry {
	return &Registry{
		windows: make(map[model.Handle]model.PinnedWindow),
		valid:   v,
		log:     logging.NewLogger("registry"),
	}
}

// Add inserts a fully opaque record, replacing any existing one for h.
func (r *Registry) Add(h model.Handle, title, process string) model.PinnedWindow {
	rec := model.PinnedWindow{
		Handle:  h,
		Title:   title,
		Process: process,
		Opacity: model.OpaqueAlpha,
	}

	r.mu.Lock()
	r.windows[h] = rec
	r.mu.Unlock()
	return rec
}

// Remove deletes the record for h and returns it.
func (r *Registry) Remove(h model.Handle) (model.PinnedWindow, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	rec, ok := r.windows[h]
	if ok {
		delete(r.windows, h)
	}
	return rec, ok
}

func (r *Registry) IsPinned(h model.Handle) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.windows[h]
	return ok
}

func (r *Registry) Get(h model.Handle) (model.PinnedWindow, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	rec, ok := r.windows[h]
	return rec, ok
}

// SetOpacity records a new alpha for h. The first call keeps the previous
// alpha as the original. It reports false if h is not pinned.
func (r *Registry) SetOpacity(h model.Handle, alpha uint8) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	rec, ok := r.windows[h]
	if !ok {
		return false
	}
	if rec.OriginalOpacity == nil {
		orig := rec.Opacity
		rec.OriginalOpacity = &orig
	}
	rec.Opacity = alpha
	r.windows[h] = rec
	return true
}

// All returns every record ordered by handle.
func (r *Registry) All() []model.PinnedWindow {
	r.mu.RLock()
	out := make([]model.PinnedWindow, 0, len(r.windows))
	for _, rec := range r.windows {
		out = append(out, rec)
	}
	r.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool { return out[i].Handle < out[j].Handle })
	return out
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.windows)
}

// CleanupStale drops every record whose window no longer exists and returns
// the removed handles. Validation runs outside the lock.
func (r *Registry) CleanupStale() []model.Handle {
	r.mu.RLock()
	handles := make([]model.Handle, 0, len(r.windows))
	for h := range r.windows {
		handles = append(handles, h)
	}
	r.mu.RUnlock()

	var dead []model.Handle
	for _, h := range handles {
		if !r.valid.IsWindow(h) {
			dead = append(dead, h)
		}
	}
	if len(dead) == 0 {
		return nil
	}

	var removed []model.Handle
	r.mu.Lock()
	for _, h := range dead {
		if _, ok := r.windows[h]; ok {
			delete(r.windows, h)
			removed = append(removed, h)
		}
	}
	r.mu.Unlock()

	sort.Slice(removed, func(i, j int) bool { return removed[i] < removed[j] })
	for _, h := range removed {
		r.log.WithField("handle", h).Info("Removed stale pinned window")
	}
	return removed
}
