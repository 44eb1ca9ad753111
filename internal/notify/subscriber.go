// Package notify turns OS window notifications into topmost re-enforcement
// and cleanup for pinned windows.
package notify

import (
	"sync"

	"github.com/mj1618/pinit/internal/events"
	"github.com/mj1618/pinit/internal/logging"
	"github.com/mj1618/pinit/internal/pin"
	"github.com/mj1618/pinit/internal/platform"
	"github.com/sirupsen/logrus"
)

// Subscriber is the single dispatch point for window notifications.
type Subscriber struct {
	source platform.EventSource
	engine *pin.Engine
	bus    *events.Bus
	log    *logrus.Entry

	mu     sync.Mutex
	active bool
}

// New returns a Subscriber. bus may be nil.
func New(source platform.EventSource, engine *pin.Engine, bus *events.Bus) *Subscriber {
	return &Subscriber{
		source: source,
		engine: engine,
		bus:    bus,
		log:    logging.NewLogger("notify"),
	}
}

// Start subscribes to the event source. Calling it while already active does
// nothing.
func (s *Subscriber) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.active {
		return nil
	}
	if err := s.source.Subscribe(s.Handle); err != nil {
		return err
	}
	s.active = true
	s.log.Debug("Subscribed to window notifications")
	return nil
}

// Stop removes the subscription. It is safe to call when not active.
func (s *Subscriber) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.active {
		return nil
	}
	s.active = false
	if err := s.source.Close(); err != nil {
		return err
	}
	s.log.Debug("Unsubscribed from window notifications")
	return nil
}

// Active reports whether Start has been called without a matching Stop.
func (s *Subscriber) Active() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.active
}

// Handle processes one notification. It runs on the event source's thread
// and only does short, non-blocking work.
func (s *Subscriber) Handle(e platform.Event) {
	if e.Object != platform.ObjectWindow {
		return
	}
	reg := s.engine.Registry()
	if !reg.IsPinned(e.Handle) {
		return
	}

	switch e.Kind {
	case platform.EventMinimizeEnd,
		platform.EventMoveSizeEnd,
		platform.EventForeground,
		platform.EventFocus:
		if s.engine.ReassertTopmost(e.Handle) == pin.ReassertDestroyed {
			s.bus.Publish(events.Event{Kind: events.WindowDestroyed, Handle: e.Handle})
		}

	case platform.EventDestroy:
		_, removed := reg.Remove(e.Handle)
		stale := reg.CleanupStale()
		if removed {
			s.log.WithField("handle", e.Handle).Info("Pinned window destroyed")
			s.bus.Publish(events.Event{Kind: events.WindowDestroyed, Handle: e.Handle})
		}
		for _, h := range stale {
			s.bus.Publish(events.Event{Kind: events.WindowDestroyed, Handle: h})
		}

	case platform.EventLocationChange, platform.EventMinimizeStart:
		// Nothing to do yet.
	}
}
