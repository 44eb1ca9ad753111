// Package app wires the pinning engine, persistence, notifications and
// hotkeys together and exposes the commands the CLI and MCP server call.
package app

import (
	"context"
	"sync"

	"github.com/mj1618/pinit/internal/config"
	"github.com/mj1618/pinit/internal/events"
	"github.com/mj1618/pinit/internal/hotkey"
	"github.com/mj1618/pinit/internal/logging"
	"github.com/mj1618/pinit/internal/model"
	"github.com/mj1618/pinit/internal/notify"
	"github.com/mj1618/pinit/internal/persist"
	"github.com/mj1618/pinit/internal/pin"
	"github.com/mj1618/pinit/internal/platform"
	"github.com/sirupsen/logrus"
)

// Options selects which long-lived services Start brings up.
type Options struct {
	// Subscribe listens for window notifications to keep pins on top.
	Subscribe bool
	// Restore re-pins the windows saved by the previous session.
	Restore bool
	// SavePins writes the pinned windows back on Shutdown.
	SavePins bool
	// Hotkeys registers the configured global shortcuts.
	Hotkeys bool
	// Watch reloads settings when the state file is edited externally.
	Watch bool
}

// Resident returns the options for a process that keeps windows pinned
// until it exits.
func Resident(cfg *config.Config) Options {
	return Options{
		Subscribe: true,
		Restore:   cfg.Restore.OnStart,
		SavePins:  true,
		Hotkeys:   cfg.Hotkeys.Enabled,
		Watch:     cfg.Watch.State,
	}
}

// App owns every service for the lifetime of the process.
type App struct {
	cfg  *config.Config
	opts Options

	provider   *platform.Provider
	win        platform.Windows
	registry   *pin.Registry
	opacity    *pin.Transparency
	engine     *pin.Engine
	bus        *events.Bus
	subscriber *notify.Subscriber
	store      *persist.Store
	reconciler *persist.Reconciler
	hotkeys    *hotkey.Manager

	log *logrus.Entry

	mu        sync.Mutex
	state     model.SavedState
	started   bool
	stopWatch context.CancelFunc
	watchDone chan struct{}
}

// New constructs the services. Nothing touches the OS until Start.
func New(cfg *config.Config, provider *platform.Provider, opts Options) *App {
	win := provider.Windows
	registry := pin.NewRegistry(win)
	opacity := pin.NewTransparency(win, registry)
	engine := pin.NewEngine(win, registry, opacity, pin.WithExcludedProcesses(cfg.Pin.Exclude...))
	bus := events.NewBus()

	a := &App{
		cfg:        cfg,
		opts:       opts,
		provider:   provider,
		win:        win,
		registry:   registry,
		opacity:    opacity,
		engine:     engine,
		bus:        bus,
		store:      persist.NewStore(cfg.State.Path),
		reconciler: persist.NewReconciler(win, engine, opacity),
		log:        logging.NewLogger("app"),
		state:      model.NewSavedState(),
	}
	if provider.Events != nil {
		a.subscriber = notify.New(provider.Events, engine, bus)
	}
	if provider.Hotkeys != nil {
		a.hotkeys = hotkey.NewManager(provider.Hotkeys, a.onHotkey)
	}
	return a
}

// Events returns the bus that carries pin, opacity and error notifications.
func (a *App) Events() *events.Bus {
	return a.bus
}

// Start subscribes to notifications, adopts still-marked windows, restores
// the saved pins, binds hotkeys and starts watching the state file. Only
// failing to subscribe is fatal; everything else degrades with a warning.
func (a *App) Start(ctx context.Context) error {
	a.mu.Lock()
	if a.started {
		a.mu.Unlock()
		return nil
	}
	a.started = true
	a.mu.Unlock()

	if a.opts.Subscribe && a.subscriber != nil {
		if err := a.subscriber.Start(); err != nil {
			a.mu.Lock()
			a.started = false
			a.mu.Unlock()
			return err
		}
	}

	if _, err := a.engine.Adopt(); err != nil {
		a.log.WithError(err).Warn("Failed to adopt marked windows")
	}

	state, err := a.store.Load()
	if err != nil {
		a.log.WithError(err).Warn("Ignoring unreadable state file")
	}
	a.mu.Lock()
	a.state = state
	a.mu.Unlock()

	if a.opts.Restore {
		if _, err := a.reconciler.Restore(state); err != nil {
			a.log.WithError(err).Warn("Failed to restore saved pins")
		}
		a.logSummary()
	}

	if a.opts.Hotkeys && a.hotkeys != nil {
		if err := a.hotkeys.UpdateBindings(hotkey.FromShortcuts(state.Settings.Shortcuts)); err != nil {
			a.log.WithError(err).Warn("Failed to bind shortcuts")
			a.publishError(err)
		}
	}

	if a.opts.Watch {
		a.startWatch(ctx)
	}
	return nil
}

// Shutdown saves the pins, releases hotkeys and unsubscribes.
func (a *App) Shutdown() error {
	a.mu.Lock()
	if !a.started {
		a.mu.Unlock()
		return nil
	}
	a.started = false
	stopWatch, watchDone := a.stopWatch, a.watchDone
	a.stopWatch, a.watchDone = nil, nil
	a.mu.Unlock()

	if stopWatch != nil {
		stopWatch()
		<-watchDone
	}

	var firstErr error
	if a.opts.SavePins {
		if err := a.SaveState(); err != nil {
			a.log.WithError(err).Error("Failed to save state")
			firstErr = err
		}
	}
	if a.hotkeys != nil {
		if err := a.hotkeys.Close(); err != nil {
			a.log.WithError(err).Warn("Failed to release hotkeys")
		}
	}
	if a.subscriber != nil {
		if err := a.subscriber.Stop(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	a.bus.Close()
	return firstErr
}

// SaveState writes the current pins and settings.
func (a *App) SaveState() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.state = a.reconciler.Snapshot(a.state)
	return a.store.Save(a.state)
}

func (a *App) startWatch(ctx context.Context) {
	w, err := persist.NewWatcher(a.store.Path(), persist.DefaultDebounce, a.reloadSettings)
	if err != nil {
		a.log.WithError(err).Warn("State file watching disabled")
		return
	}
	watchCtx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	go func() {
		defer close(done)
		w.Run(watchCtx)
	}()

	a.mu.Lock()
	a.stopWatch, a.watchDone = cancel, done
	a.mu.Unlock()
}

// reloadSettings picks up settings edited outside the process. Pins in the
// file are left alone; they are only read at startup.
func (a *App) reloadSettings() {
	state, err := a.store.Load()
	if err != nil {
		a.log.WithError(err).Warn("Ignoring unreadable state file")
		return
	}

	a.mu.Lock()
	prev := a.state.Settings
	if prev == state.Settings {
		a.mu.Unlock()
		return
	}
	a.state.Settings = state.Settings
	a.mu.Unlock()

	a.log.Info("Settings reloaded")
	if prev.Shortcuts != state.Settings.Shortcuts {
		a.rebind(state.Settings.Shortcuts)
	}
}

func (a *App) rebind(s model.Shortcuts) {
	if !a.opts.Hotkeys || a.hotkeys == nil {
		return
	}
	if err := a.hotkeys.UpdateBindings(hotkey.FromShortcuts(s)); err != nil {
		a.log.WithError(err).Warn("Failed to rebind shortcuts")
		a.publishError(err)
	}
}
