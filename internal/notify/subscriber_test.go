package notify

import (
	"sync"
	"testing"

	"github.com/mj1618/pinit/internal/events"
	"github.com/mj1618/pinit/internal/model"
	"github.com/mj1618/pinit/internal/pin"
	"github.com/mj1618/pinit/internal/platform"
	"github.com/mj1618/pinit/internal/platform/fake"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	win    *fake.Windows
	engine *pin.Engine
	bus    *events.Bus
	sub    *Subscriber
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	win := fake.New()
	reg := pin.NewRegistry(win)
	engine := pin.NewEngine(win, reg, pin.NewTransparency(win, reg))
	bus := events.NewBus()
	sub := New(win, engine, bus)
	require.NoError(t, sub.Start())
	t.Cleanup(func() { _ = sub.Stop() })
	return &fixture{win: win, engine: engine, bus: bus, sub: sub}
}

func (f *fixture) pin(t *testing.T, process, title string) model.Handle {
	t.Helper()
	h := f.win.Open(process, title)
	_, err := f.engine.Pin(h)
	require.NoError(t, err)
	return h
}

func TestSubscriber_StartIsInitOnce(t *testing.T) {
	f := newFixture(t)

	require.NoError(t, f.sub.Start())
	assert.Equal(t, 1, f.win.Subscribes())
	assert.True(t, f.sub.Active())

	require.NoError(t, f.sub.Stop())
	require.NoError(t, f.sub.Stop())
	assert.Equal(t, 1, f.win.Closes())
	assert.False(t, f.sub.Active())
}

func TestSubscriber_ReassertsOnRestoreEvents(t *testing.T) {
	kinds := []platform.EventKind{
		platform.EventMinimizeEnd,
		platform.EventMoveSizeEnd,
		platform.EventForeground,
		platform.EventFocus,
	}
	for _, kind := range kinds {
		t.Run(kind.String(), func(t *testing.T) {
			f := newFixture(t)
			h := f.pin(t, "app.exe", "Doc1")

			f.win.StripTopmost(h)
			f.win.Emit(kind, h)
			assert.True(t, f.win.IsTopmost(h))
		})
	}
}

func TestSubscriber_IgnoresReservedEvents(t *testing.T) {
	f := newFixture(t)
	h := f.pin(t, "app.exe", "Doc1")
	f.win.StripTopmost(h)
	calls := f.win.SetTopmostCalls

	f.win.Emit(platform.EventLocationChange, h)
	f.win.Emit(platform.EventMinimizeStart, h)

	assert.False(t, f.win.IsTopmost(h))
	assert.Equal(t, calls, f.win.SetTopmostCalls)
}

func TestSubscriber_FiltersUntrackedAndChildObjects(t *testing.T) {
	f := newFixture(t)
	h := f.pin(t, "app.exe", "Doc1")
	other := f.win.Open("other.exe", "Other")
	calls := f.win.SetTopmostCalls

	f.win.StripTopmost(h)
	f.win.EmitObject(platform.EventFocus, h, 3)
	f.win.Emit(platform.EventFocus, other)
	f.win.Emit(platform.EventDestroy, other)

	assert.Equal(t, calls, f.win.SetTopmostCalls)
	assert.False(t, f.win.IsTopmost(other))
	assert.True(t, f.engine.Registry().IsPinned(h))
}

func TestSubscriber_DestroyRemovesRecord(t *testing.T) {
	f := newFixture(t)
	ch, cancel := f.bus.Subscribe()
	defer cancel()

	h := f.pin(t, "app.exe", "Doc1")
	gone := f.pin(t, "app.exe", "Doc2")
	keep := f.pin(t, "app.exe", "Doc3")

	// gone died without its own notification; the sweep catches it.
	f.win.Destroy(gone)
	f.win.Destroy(h)
	f.win.Emit(platform.EventDestroy, h)

	reg := f.engine.Registry()
	assert.False(t, reg.IsPinned(h))
	assert.False(t, reg.IsPinned(gone))
	assert.True(t, reg.IsPinned(keep))

	got := map[model.Handle]bool{}
	for i := 0; i < 2; i++ {
		e := <-ch
		assert.Equal(t, events.WindowDestroyed, e.Kind)
		got[e.Handle] = true
	}
	assert.Equal(t, map[model.Handle]bool{h: true, gone: true}, got)
}

func TestSubscriber_ReassertOnDeadHandlePublishesDestroy(t *testing.T) {
	f := newFixture(t)
	ch, cancel := f.bus.Subscribe()
	defer cancel()

	h := f.pin(t, "app.exe", "Doc1")
	f.win.Destroy(h)
	f.win.Emit(platform.EventForeground, h)

	assert.False(t, f.engine.Registry().IsPinned(h))
	e := <-ch
	assert.Equal(t, events.WindowDestroyed, e.Kind)
	assert.Equal(t, h, e.Handle)
}

func TestSubscriber_DestroyRacesUnpin(t *testing.T) {
	for i := 0; i < 50; i++ {
		f := newFixture(t)
		h := f.pin(t, "app.exe", "Doc1")

		var wg sync.WaitGroup
		var unpinErr error
		wg.Add(2)
		go func() {
			defer wg.Done()
			f.win.Emit(platform.EventDestroy, h)
		}()
		go func() {
			defer wg.Done()
			unpinErr = f.engine.Unpin(h)
		}()
		wg.Wait()

		assert.NoError(t, unpinErr)
		assert.False(t, f.engine.Registry().IsPinned(h))
	}
}
