package pin

import (
	"testing"

	pinerr "github.com/mj1618/pinit/internal/errors"
	"github.com/mj1618/pinit/internal/model"
	"github.com/mj1618/pinit/internal/platform/fake"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTransparency(t *testing.T) (*fake.Windows, *Registry, *Transparency) {
	t.Helper()
	win := fake.New()
	reg := NewRegistry(win)
	return win, reg, NewTransparency(win, reg)
}

func TestPercentAlphaConversion(t *testing.T) {
	t.Parallel()

	tests := []struct {
		percent int
		alpha   uint8
	}{
		{100, 255},
		{50, 128},
		{20, 51},
		{0, 51},
		{255, 255},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.alpha, PercentToAlpha(tt.percent), "percent %d", tt.percent)
	}

	for p := MinOpacityPercent; p <= MaxOpacityPercent; p++ {
		assert.Equal(t, p, AlphaToPercent(PercentToAlpha(p)), "round trip of %d", p)
	}
}

func TestTransparency_SetOpacityClamps(t *testing.T) {
	t.Parallel()

	win, reg, tr := newTransparency(t)
	h := win.Open("app.exe", "Doc1")
	reg.Add(h, "Doc1", "app.exe")

	got, err := tr.SetOpacity(h, 0)
	require.NoError(t, err)
	assert.Equal(t, 20, got)
	assert.Equal(t, 20, tr.Percent(h))

	got, err = tr.SetOpacity(h, 255)
	require.NoError(t, err)
	assert.Equal(t, 100, got)
	assert.Equal(t, 100, tr.Percent(h))
}

func TestTransparency_SetOpacityRecordsAlpha(t *testing.T) {
	t.Parallel()

	win, reg, tr := newTransparency(t)
	h := win.Open("app.exe", "Doc1")
	reg.Add(h, "Doc1", "app.exe")

	_, err := tr.SetOpacity(h, 50)
	require.NoError(t, err)

	assert.True(t, win.IsLayered(h))
	alpha, ok := win.Alpha(h)
	require.True(t, ok)
	assert.Equal(t, uint8(128), alpha)

	rec, _ := reg.Get(h)
	assert.Equal(t, uint8(128), rec.Opacity)
}

func TestTransparency_PercentOfPlainWindowIs100(t *testing.T) {
	t.Parallel()

	win, _, tr := newTransparency(t)
	h := win.Open("app.exe", "Doc1")
	assert.Equal(t, 100, tr.Percent(h))
}

func TestTransparency_AdjustRoundTrip(t *testing.T) {
	t.Parallel()

	win, reg, tr := newTransparency(t)
	h := win.Open("app.exe", "Doc1")
	reg.Add(h, "Doc1", "app.exe")

	for _, start := range []int{20, 37, 50, 73, 95} {
		_, err := tr.SetOpacity(h, start)
		require.NoError(t, err)

		up, err := tr.AdjustOpacity(h, 5)
		require.NoError(t, err)
		assert.Equal(t, start+5, up)

		down, err := tr.AdjustOpacity(h, -5)
		require.NoError(t, err)
		assert.Equal(t, start, down)
	}
}

func TestTransparency_AdjustClampsAtEdges(t *testing.T) {
	t.Parallel()

	win, reg, tr := newTransparency(t)
	h := win.Open("app.exe", "Doc1")
	reg.Add(h, "Doc1", "app.exe")

	got, err := tr.AdjustOpacity(h, 10)
	require.NoError(t, err)
	assert.Equal(t, 100, got)

	_, err = tr.SetOpacity(h, 25)
	require.NoError(t, err)
	got, err = tr.AdjustOpacity(h, -10)
	require.NoError(t, err)
	assert.Equal(t, 20, got)
}

func TestTransparency_SetOpacityFailure(t *testing.T) {
	t.Parallel()

	win, reg, tr := newTransparency(t)
	h := win.Open("admin.exe", "Elevated")
	reg.Add(h, "Elevated", "admin.exe")
	win.DenyAlpha(h)

	_, err := tr.SetOpacity(h, 50)
	require.Error(t, err)
	assert.True(t, pinerr.Is(err, pinerr.ErrCodeTransparencyFailed))

	rec, _ := reg.Get(h)
	assert.Equal(t, model.OpaqueAlpha, rec.Opacity, "registry untouched on failure")
	assert.False(t, win.IsLayered(h), "layered style added by the call is rolled back")
	assert.Equal(t, 100, tr.Percent(h))
}

func TestTransparency_SetOpacityFailureKeepsExistingLayer(t *testing.T) {
	t.Parallel()

	win, reg, tr := newTransparency(t)
	h := win.Open("app.exe", "Doc1")
	reg.Add(h, "Doc1", "app.exe")
	_, err := tr.SetOpacity(h, 60)
	require.NoError(t, err)

	win.DenyAlpha(h)
	_, err = tr.SetOpacity(h, 30)
	require.Error(t, err)
	assert.True(t, win.IsLayered(h), "style set by an earlier call stays")
	assert.Equal(t, 60, tr.Percent(h))
}

func TestTransparency_Restore(t *testing.T) {
	t.Parallel()

	win, reg, tr := newTransparency(t)
	h := win.Open("app.exe", "Doc1")
	reg.Add(h, "Doc1", "app.exe")
	_, err := tr.SetOpacity(h, 40)
	require.NoError(t, err)

	require.NoError(t, tr.Restore(h))
	assert.False(t, win.IsLayered(h))
	assert.Equal(t, 100, tr.Percent(h))
	assert.Equal(t, 1, win.RedrawCalls)

	require.NoError(t, tr.Restore(h), "restoring a plain window is a no-op")
	assert.Equal(t, 1, win.RedrawCalls)
}
