package hotkey

import (
	"fmt"
	"sort"
	"sync"

	pinerr "github.com/mj1618/pinit/internal/errors"
	"github.com/mj1618/pinit/internal/logging"
	"github.com/mj1618/pinit/internal/model"
	"github.com/mj1618/pinit/internal/platform"
	"github.com/sirupsen/logrus"
)

// Action is something a hotkey can trigger.
type Action string

const (
	TogglePin   Action = "toggle_pin"
	OpacityUp   Action = "opacity_up"
	OpacityDown Action = "opacity_down"
)

// Actions lists every bindable action.
var Actions = []Action{TogglePin, OpacityUp, OpacityDown}

func validAction(a Action) bool {
	for _, known := range Actions {
		if a == known {
			return true
		}
	}
	return false
}

// FromShortcuts maps the persisted shortcut strings to actions.
func FromShortcuts(s model.Shortcuts) map[Action]string {
	return map[Action]string{
		TogglePin:   s.TogglePin,
		OpacityUp:   s.OpacityUp,
		OpacityDown: s.OpacityDown,
	}
}

type registration struct {
	id      int
	trigger Trigger
}

// Manager owns the global hotkey registrations. The action for an incoming
// hotkey is found through a table built when bindings change, so nothing is
// parsed on key press.
type Manager struct {
	reg     platform.HotkeyRegistrar
	handler func(Action)
	log     *logrus.Entry

	mu        sync.Mutex
	active    map[Action]registration
	byID      map[int]Trigger
	byTrigger map[Trigger]Action
	nextID    int
}

// NewManager returns a Manager with no bindings. handler runs on the
// registrar's listener goroutine for every recognised hotkey.
func NewManager(reg platform.HotkeyRegistrar, handler func(Action)) *Manager {
	m := &Manager{
		reg:       reg,
		handler:   handler,
		log:       logging.NewLogger("hotkey"),
		active:    make(map[Action]registration),
		byID:      make(map[int]Trigger),
		byTrigger: make(map[Trigger]Action),
		nextID:    1,
	}
	reg.OnHotkey(m.dispatch)
	return m
}

// UpdateBindings replaces the active bindings with shortcuts. Actions that
// are absent or map to "" end up unbound.
//
// New triggers are registered first. Only when all of them succeed are the
// replaced registrations released; otherwise the new ones are released and
// the previous bindings stay in effect.
func (m *Manager) UpdateBindings(shortcuts map[Action]string) error {
	wanted := make(map[Action]Trigger, len(shortcuts))
	owner := make(map[Trigger]Action, len(shortcuts))
	for _, action := range sortedActions(shortcuts) {
		s := shortcuts[action]
		if !validAction(action) {
			return pinerr.BindingFailed(string(action), s, fmt.Errorf("unknown action"))
		}
		if s == "" {
			continue
		}
		t, err := Parse(s)
		if err != nil {
			return pinerr.BindingFailed(string(action), s, err)
		}
		if other, dup := owner[t]; dup {
			return pinerr.BindingFailed(string(action), s, fmt.Errorf("%s is already bound to %s", t, other))
		}
		owner[t] = action
		wanted[action] = t
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	current := make(map[Trigger]registration, len(m.active))
	for _, r := range m.active {
		current[r.trigger] = r
	}

	next := make(map[Action]registration, len(wanted))
	var staged []registration
	for _, action := range sortedActions(wanted) {
		t := wanted[action]
		if r, ok := current[t]; ok {
			next[action] = r
			continue
		}
		r := registration{id: m.nextID, trigger: t}
		m.nextID++
		if err := m.reg.RegisterHotkey(r.id, t.Mods, t.Key); err != nil {
			for _, s := range staged {
				if uerr := m.reg.UnregisterHotkey(s.id); uerr != nil {
					m.log.WithError(uerr).WithField("shortcut", s.trigger).Warn("Failed to release staged hotkey")
				}
			}
			return pinerr.BindingFailed(string(action), t.String(), err)
		}
		staged = append(staged, r)
		next[action] = r
	}

	kept := make(map[int]bool, len(next))
	for _, r := range next {
		kept[r.id] = true
	}
	for _, r := range current {
		if kept[r.id] {
			continue
		}
		if err := m.reg.UnregisterHotkey(r.id); err != nil {
			m.log.WithError(err).WithField("shortcut", r.trigger).Warn("Failed to release hotkey")
		}
	}

	m.active = next
	m.byID = make(map[int]Trigger, len(next))
	m.byTrigger = make(map[Trigger]Action, len(next))
	for action, r := range next {
		m.byID[r.id] = r.trigger
		m.byTrigger[r.trigger] = action
	}

	m.log.WithFields(logrus.Fields{"bound": len(next), "registered": len(staged)}).Info("Hotkeys updated")
	return nil
}

// Bindings returns the active trigger for each bound action.
func (m *Manager) Bindings() map[Action]Trigger {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(map[Action]Trigger, len(m.active))
	for action, r := range m.active {
		out[action] = r.trigger
	}
	return out
}

// Lookup returns the action bound to t.
func (m *Manager) Lookup(t Trigger) (Action, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.byTrigger[t]
	return a, ok
}

// Close releases every registration.
func (m *Manager) Close() error {
	return m.UpdateBindings(nil)
}

func (m *Manager) dispatch(id int) {
	m.mu.Lock()
	t, ok := m.byID[id]
	action := m.byTrigger[t]
	m.mu.Unlock()
	if !ok {
		return
	}
	m.log.WithFields(logrus.Fields{"action": action, "shortcut": t}).Debug("Hotkey pressed")
	if m.handler != nil {
		m.handler(action)
	}
}

func sortedActions[V any](m map[Action]V) []Action {
	out := make([]Action, 0, len(m))
	for a := range m {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
