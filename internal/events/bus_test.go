package events

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBus_PublishReachesSubscribers(t *testing.T) {
	bus := NewBus()
	a, cancelA := bus.Subscribe()
	b, cancelB := bus.Subscribe()
	defer cancelA()
	defer cancelB()

	bus.Publish(Event{Kind: PinStateChanged, Handle: 0x100, Pinned: true})

	for _, ch := range []<-chan Event{a, b} {
		e := <-ch
		assert.Equal(t, PinStateChanged, e.Kind)
		assert.True(t, e.Pinned)
	}
}

func TestBus_CancelClosesChannel(t *testing.T) {
	bus := NewBus()
	ch, cancel := bus.Subscribe()
	require.Equal(t, 1, bus.Len())

	cancel()
	cancel()
	assert.Equal(t, 0, bus.Len())
	_, ok := <-ch
	assert.False(t, ok)

	bus.Publish(Event{Kind: OpacityChanged})
}

func TestBus_FullSubscriberDoesNotBlock(t *testing.T) {
	bus := NewBus()
	ch, cancel := bus.Subscribe()
	defer cancel()

	for i := 0; i < bufferSize*2; i++ {
		bus.Publish(Event{Kind: OpacityChanged, Percent: i})
	}
	assert.Len(t, ch, bufferSize)
}

func TestBus_Close(t *testing.T) {
	bus := NewBus()
	ch, cancel := bus.Subscribe()
	bus.Close()
	cancel()

	_, ok := <-ch
	assert.False(t, ok)

	late, _ := bus.Subscribe()
	_, ok = <-late
	assert.False(t, ok)
}

func TestBus_NilPublish(t *testing.T) {
	var bus *Bus
	assert.NotPanics(t, func() { bus.Publish(Event{Kind: OperationError}) })
}
