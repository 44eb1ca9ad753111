// Package events broadcasts pin state changes to interested listeners such
// as the MCP server and the command line's watch output.
package events

import (
	"sync"

	"github.com/mj1618/pinit/internal/model"
)

// Kind identifies what changed.
type Kind string

const (
	PinStateChanged Kind = "pin-state-changed"
	OpacityChanged  Kind = "opacity-changed"
	WindowDestroyed Kind = "window-destroyed"
	OperationError  Kind = "operation-error"
)

// Event is a single notification. Fields that do not apply to the kind are
// left zero.
type Event struct {
	Kind    Kind         `json:"kind" yaml:"kind"`
	Handle  model.Handle `json:"handle,omitempty" yaml:"handle,omitempty"`
	Pinned  bool         `json:"pinned,omitempty" yaml:"pinned,omitempty"`
	Title   string       `json:"title,omitempty" yaml:"title,omitempty"`
	Process string       `json:"process,omitempty" yaml:"process,omitempty"`
	Percent int          `json:"percent,omitempty" yaml:"percent,omitempty"`
	Message string       `json:"message,omitempty" yaml:"message,omitempty"`
}

const bufferSize = 64

// Bus fans events out to subscribers. Publishing never blocks: a subscriber
// whose buffer is full misses the event.
type Bus struct {
	mu          sync.RWMutex
	subscribers map[chan Event]struct{}
	closed      bool
}

func NewBus() *Bus {
	return &Bus{subscribers: make(map[chan Event]struct{})}
}

// Subscribe returns a channel of future events and a function that ends the
// subscription and closes the channel.
func (b *Bus) Subscribe() (<-chan Event, func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	ch := make(chan Event, bufferSize)
	if b.closed {
		close(ch)
		return ch, func() {}
	}
	b.subscribers[ch] = struct{}{}

	var once sync.Once
	return ch, func() {
		once.Do(func() { b.unsubscribe(ch) })
	}
}

func (b *Bus) unsubscribe(ch chan Event) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.subscribers[ch]; ok {
		delete(b.subscribers, ch)
		close(ch)
	}
}

// Publish delivers e to every subscriber.
func (b *Bus) Publish(e Event) {
	if b == nil {
		return
	}
	b.mu.RLock()
	defer b.mu.RUnlock()
	for ch := range b.subscribers {
		select {
		case ch <- e:
		default:
		}
	}
}

// Close ends every subscription. Later subscriptions receive a closed channel.
func (b *Bus) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	for ch := range b.subscribers {
		delete(b.subscribers, ch)
		close(ch)
	}
	b.closed = true
}

// Len returns the number of active subscribers.
func (b *Bus) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subscribers)
}
