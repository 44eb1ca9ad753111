package pin

import (
	"sync"
	"testing"

	pinerr "github.com/mj1618/pinit/internal/errors"
	"github.com/mj1618/pinit/internal/model"
	"github.com/mj1618/pinit/internal/platform/fake"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newEngine(t *testing.T, opts ...Option) (*fake.Windows, *Engine) {
	t.Helper()
	win := fake.New()
	reg := NewRegistry(win)
	return win, NewEngine(win, reg, NewTransparency(win, reg), opts...)
}

func TestEngine_PinRecordsWindow(t *testing.T) {
	t.Parallel()

	win, e := newEngine(t)
	h := win.Open("notepad.exe", "Doc1")

	rec, err := e.Pin(h)
	require.NoError(t, err)
	assert.Equal(t, h, rec.Handle)
	assert.Equal(t, "Doc1", rec.Title)
	assert.Equal(t, "notepad.exe", rec.Process)
	assert.Equal(t, model.OpaqueAlpha, rec.Opacity)

	assert.True(t, win.IsTopmost(h))
	assert.True(t, win.HasProp(h, PinnedProp))
	assert.True(t, e.Registry().IsPinned(h))
}

func TestEngine_PinFallsBackToUnknown(t *testing.T) {
	t.Parallel()

	win, e := newEngine(t)
	h := win.Open("", "")

	rec, err := e.Pin(h)
	require.NoError(t, err)
	assert.Equal(t, "Unknown", rec.Title)
	assert.Equal(t, "Unknown", rec.Process)
}

func TestEngine_PinTwiceKeepsRecord(t *testing.T) {
	t.Parallel()

	win, e := newEngine(t)
	h := win.Open("app.exe", "Doc1")

	_, err := e.Pin(h)
	require.NoError(t, err)
	_, err = e.opacity.SetOpacity(h, 50)
	require.NoError(t, err)
	win.SetTitle(h, "Doc1 - renamed")
	win.StripTopmost(h)

	rec, err := e.Pin(h)
	require.NoError(t, err)
	assert.Equal(t, "Doc1", rec.Title)
	assert.Equal(t, uint8(128), rec.Opacity)
	assert.True(t, win.IsTopmost(h), "topmost re-applied")
	assert.Equal(t, 1, e.Registry().Len())
}

func TestEngine_PinInvalidHandle(t *testing.T) {
	t.Parallel()

	_, e := newEngine(t)

	_, err := e.Pin(model.Handle(0xdead))
	require.Error(t, err)
	assert.True(t, pinerr.Is(err, pinerr.ErrCodeNoSuchWindow))
	assert.Equal(t, 0, e.Registry().Len())
}

func TestEngine_PinExcluded(t *testing.T) {
	t.Parallel()

	win, e := newEngine(t, WithExcludedProcesses(" KeePass.exe ", ""))

	marked := win.Open("app.exe", "Private")
	win.MarkProp(marked, ExcludedProp)

	desktop := win.Open("explorer.exe", "Program Manager")
	win.SetClass(desktop, "Progman")

	denied := win.Open("keepass.exe", "Vault")

	for _, h := range []model.Handle{marked, desktop, denied} {
		_, err := e.Pin(h)
		require.Error(t, err)
		assert.True(t, pinerr.Is(err, pinerr.ErrCodeWindowExcluded), "handle %s", h)
		assert.False(t, win.IsTopmost(h))
	}
	assert.Equal(t, 0, e.Registry().Len())
	assert.Equal(t, 0, win.SetTopmostCalls)
}

func TestEngine_PinFailureLeavesNoState(t *testing.T) {
	t.Parallel()

	win, e := newEngine(t)
	h := win.Open("taskmgr.exe", "Task Manager")
	win.DenyTopmost(h)

	_, err := e.Pin(h)
	require.Error(t, err)
	assert.True(t, pinerr.Is(err, pinerr.ErrCodeSetAttributeFailed))
	assert.False(t, e.Registry().IsPinned(h))
	assert.False(t, win.HasProp(h, PinnedProp))
}

func TestEngine_UnpinRestoresWindow(t *testing.T) {
	t.Parallel()

	win, e := newEngine(t)
	h := win.Open("app.exe", "Doc1")

	_, err := e.Pin(h)
	require.NoError(t, err)
	got, err := e.opacity.SetOpacity(h, 50)
	require.NoError(t, err)
	require.Equal(t, 50, got)
	alpha, ok := win.Alpha(h)
	require.True(t, ok)
	require.Equal(t, uint8(128), alpha)

	require.NoError(t, e.Unpin(h))

	assert.Equal(t, 0, e.Registry().Len())
	assert.False(t, win.IsTopmost(h))
	assert.False(t, win.IsLayered(h))
	assert.False(t, win.HasProp(h, PinnedProp))
	assert.Equal(t, 100, e.opacity.Percent(h))
}

func TestEngine_UnpinFailureKeepsRecord(t *testing.T) {
	t.Parallel()

	win, e := newEngine(t)
	h := win.Open("app.exe", "Doc1")
	_, err := e.Pin(h)
	require.NoError(t, err)

	win.DenyTopmost(h)
	err = e.Unpin(h)
	require.Error(t, err)
	assert.True(t, pinerr.Is(err, pinerr.ErrCodeSetAttributeFailed))
	assert.True(t, e.Registry().IsPinned(h))
}

func TestEngine_UnpinDestroyedWindow(t *testing.T) {
	t.Parallel()

	win, e := newEngine(t)
	h := win.Open("app.exe", "Doc1")
	_, err := e.Pin(h)
	require.NoError(t, err)

	win.Destroy(h)
	require.NoError(t, e.Unpin(h), "stale record is dropped")
	assert.Equal(t, 0, e.Registry().Len())

	err = e.Unpin(h)
	assert.True(t, pinerr.Is(err, pinerr.ErrCodeNoSuchWindow))
}

func TestEngine_Toggle(t *testing.T) {
	t.Parallel()

	win, e := newEngine(t)
	h := win.Open("notepad.exe", "Doc1")

	pinned, err := e.Toggle(h)
	require.NoError(t, err)
	assert.True(t, pinned)
	assert.True(t, e.Registry().IsPinned(h))
	assert.True(t, win.IsTopmost(h))

	pinned, err = e.Toggle(h)
	require.NoError(t, err)
	assert.False(t, pinned)
	assert.False(t, e.Registry().IsPinned(h))
	assert.False(t, win.IsTopmost(h))
}

func TestEngine_ToggleInvalidHandle(t *testing.T) {
	t.Parallel()

	win, e := newEngine(t)
	other := win.Open("app.exe", "Other")
	_, err := e.Pin(other)
	require.NoError(t, err)

	pinned, err := e.Toggle(model.Handle(0xdead))
	require.Error(t, err)
	assert.False(t, pinned)
	assert.True(t, pinerr.Is(err, pinerr.ErrCodeNoSuchWindow))
	assert.Equal(t, 1, e.Registry().Len())
}

func TestEngine_ToggleExternallyTopmostUnpins(t *testing.T) {
	t.Parallel()

	win, e := newEngine(t)
	h := win.Open("app.exe", "Always on top by itself")
	win.ForceTopmost(h)

	assert.True(t, e.IsPinned(h))
	pinned, err := e.Toggle(h)
	require.NoError(t, err)
	assert.False(t, pinned)
	assert.False(t, win.IsTopmost(h))
}

func TestEngine_ReassertAfterStrip(t *testing.T) {
	t.Parallel()

	win, e := newEngine(t)
	h := win.Open("notepad.exe", "Doc1")
	_, err := e.Pin(h)
	require.NoError(t, err)
	before := e.Registry().All()

	win.StripTopmost(h)
	assert.Equal(t, ReassertRestored, e.ReassertTopmost(h))
	assert.True(t, win.IsTopmost(h))
	assert.Equal(t, before, e.Registry().All())

	calls := win.SetTopmostCalls
	assert.Equal(t, ReassertNoop, e.ReassertTopmost(h))
	assert.Equal(t, ReassertNoop, e.ReassertTopmost(h))
	assert.Equal(t, calls, win.SetTopmostCalls, "no writes while still topmost")
}

func TestEngine_ReassertUntracked(t *testing.T) {
	t.Parallel()

	win, e := newEngine(t)
	h := win.Open("app.exe", "Doc1")

	assert.Equal(t, ReassertUntracked, e.ReassertTopmost(h))
	assert.False(t, win.IsTopmost(h))
	assert.Equal(t, 0, win.SetTopmostCalls)
}

func TestEngine_ReassertDestroyed(t *testing.T) {
	t.Parallel()

	win, e := newEngine(t)
	h := win.Open("app.exe", "Doc1")
	_, err := e.Pin(h)
	require.NoError(t, err)

	win.Destroy(h)
	assert.Equal(t, ReassertDestroyed, e.ReassertTopmost(h))
	assert.False(t, e.Registry().IsPinned(h))
}

func TestEngine_ReassertFailed(t *testing.T) {
	t.Parallel()

	win, e := newEngine(t)
	h := win.Open("app.exe", "Doc1")
	_, err := e.Pin(h)
	require.NoError(t, err)

	win.StripTopmost(h)
	win.DenyTopmost(h)
	assert.Equal(t, ReassertFailed, e.ReassertTopmost(h))
	assert.True(t, e.Registry().IsPinned(h), "record kept for the next event")
}

func TestReassertion_String(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "restored", ReassertRestored.String())
	assert.Equal(t, "unknown", Reassertion(42).String())
}

func TestEngine_ConcurrentReassertAndUnpin(t *testing.T) {
	t.Parallel()

	win, e := newEngine(t)
	h := win.Open("app.exe", "Doc1")
	_, err := e.Pin(h)
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				win.StripTopmost(h)
				e.ReassertTopmost(h)
			}
		}()
	}
	require.NoError(t, e.Unpin(h))
	wg.Wait()

	// Once unpinned, a final reassert must not resurrect the flag.
	win.StripTopmost(h)
	assert.Equal(t, ReassertUntracked, e.ReassertTopmost(h))
	assert.False(t, win.IsTopmost(h))
	assert.False(t, e.Registry().IsPinned(h))
}

// reassertOnClear runs a reassert from inside SetTopmost(h, false), the way a
// focus notification can arrive while an unpin is in flight.
type reassertOnClear struct {
	*fake.Windows
	engine *Engine
	result Reassertion
	fired  bool
}

func (w *reassertOnClear) SetTopmost(h model.Handle, on bool) error {
	if err := w.Windows.SetTopmost(h, on); err != nil {
		return err
	}
	if !on && !w.fired {
		w.fired = true
		w.result = w.engine.ReassertTopmost(h)
	}
	return nil
}

func TestEngine_UnpinConvergesWhenReassertInterleaves(t *testing.T) {
	t.Parallel()

	f := fake.New()
	win := &reassertOnClear{Windows: f}
	reg := NewRegistry(win)
	e := NewEngine(win, reg, NewTransparency(win, reg))
	win.engine = e

	h := f.Open("app.exe", "Doc1")
	_, err := e.Pin(h)
	require.NoError(t, err)

	require.NoError(t, e.Unpin(h))
	require.True(t, win.fired)
	assert.Equal(t, ReassertRestored, win.result, "reassert saw the pin before removal")
	assert.False(t, reg.IsPinned(h))
	assert.False(t, f.IsTopmost(h), "unpin clears the flag the reassert put back")
}

func TestEngine_AdoptMarkedWindows(t *testing.T) {
	t.Parallel()

	win, e := newEngine(t)
	marked := win.Open("app.exe", "Doc1")
	win.MarkProp(marked, PinnedProp)
	win.ForceTopmost(marked)
	require.NoError(t, win.SetLayered(marked, true))
	require.NoError(t, win.SetAlpha(marked, 128))

	plain := win.Open("app.exe", "Doc2")
	already := win.Open("app.exe", "Doc3")
	_, err := e.Pin(already)
	require.NoError(t, err)

	adopted, err := e.Adopt()
	require.NoError(t, err)
	require.Len(t, adopted, 1)
	assert.Equal(t, marked, adopted[0].Handle)
	assert.Equal(t, uint8(128), adopted[0].Opacity)

	assert.True(t, e.Registry().IsPinned(marked))
	assert.False(t, e.Registry().IsPinned(plain))
	assert.Equal(t, 2, e.Registry().Len())

	again, err := e.Adopt()
	require.NoError(t, err)
	assert.Empty(t, again)
}
