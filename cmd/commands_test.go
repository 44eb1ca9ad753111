package cmd

import (
	"fmt"
	"testing"

	"github.com/mj1618/pinit/internal/app"
	"github.com/mj1618/pinit/internal/config"
	pinerr "github.com/mj1618/pinit/internal/errors"
	"github.com/mj1618/pinit/internal/model"
	"github.com/mj1618/pinit/internal/persist"
	"github.com/mj1618/pinit/internal/platform/fake"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func hexHandle(h model.Handle) string {
	return fmt.Sprintf("0x%x", uintptr(h))
}

func TestPinCommands_AcrossInvocations(t *testing.T) {
	win := fake.New()
	h := win.Open("notepad.exe", "todo.txt")

	require.NoError(t, execute(t, win, "pin", hexHandle(h)))
	assert.True(t, win.IsTopmost(h))

	// A later invocation adopts the marked window, so unpin restores it.
	require.NoError(t, execute(t, win, "unpin", hexHandle(h)))
	assert.False(t, win.IsTopmost(h))
}

func TestToggleCommand_DefaultsToForeground(t *testing.T) {
	win := fake.New()
	h := win.Open("app.exe", "Doc1")

	err := execute(t, win, "toggle")
	assert.True(t, pinerr.Is(err, pinerr.ErrCodeNoForegroundWindow), "got %v", err)

	win.SetForeground(h)
	require.NoError(t, execute(t, win, "toggle"))
	assert.True(t, win.IsTopmost(h))
	require.NoError(t, execute(t, win, "toggle"))
	assert.False(t, win.IsTopmost(h))
}

func TestPinCommand_InvalidHandle(t *testing.T) {
	win := fake.New()
	require.Error(t, execute(t, win, "pin", "not-a-handle"))

	err := execute(t, win, "pin", "0x9999")
	assert.True(t, pinerr.Is(err, pinerr.ErrCodeNoSuchWindow), "got %v", err)
}

func TestParseOpacityArg(t *testing.T) {
	tests := []struct {
		in   string
		want opacityChange
	}{
		{"60", opacityChange{value: 60}},
		{"60%", opacityChange{value: 60}},
		{"+10", opacityChange{value: 10, relative: true}},
		{"-10", opacityChange{value: -10, relative: true}},
		{"up", opacityChange{value: app.OpacityStep, relative: true}},
		{"DOWN", opacityChange{value: -app.OpacityStep, relative: true}},
	}
	for _, tt := range tests {
		got, err := parseOpacityArg(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}

	_, err := parseOpacityArg("half")
	assert.Error(t, err)
}

func TestOpacityCommand(t *testing.T) {
	win := fake.New()
	h := win.Open("app.exe", "Doc1")

	require.NoError(t, execute(t, win, "opacity", "60", "--handle", hexHandle(h)))
	alpha, ok := win.Alpha(h)
	require.True(t, ok)
	assert.Equal(t, uint8(153), alpha)

	err := execute(t, win, "opacity", "up", "--handle", hexHandle(h))
	assert.True(t, pinerr.Is(err, pinerr.ErrCodeNotPinned), "got %v", err)

	require.NoError(t, execute(t, win, "pin", hexHandle(h)))
	require.NoError(t, execute(t, win, "opacity", "up", "--handle", hexHandle(h)))
	alpha, _ = win.Alpha(h)
	assert.Equal(t, uint8(179), alpha)
}

func TestFocusCommand(t *testing.T) {
	win := fake.New()
	h := win.Open("app.exe", "Doc1")
	win.Minimize(h)

	require.NoError(t, execute(t, win, "focus", hexHandle(h)))
	assert.False(t, win.IsMinimized(h))
	assert.Equal(t, h, win.Foreground())
}

func TestConfigSetCommand(t *testing.T) {
	win := fake.New()
	require.NoError(t, execute(t, win, "config", "set", "sound", "false"))

	saved, err := persist.NewStore(config.DefaultStatePath()).Load()
	require.NoError(t, err)
	assert.False(t, saved.Settings.SoundEnabled)
}

func TestSettingSetter(t *testing.T) {
	var s model.Settings

	set, err := settingSetter("shortcut.toggle_pin", "Ctrl+Alt+P")
	require.NoError(t, err)
	set(&s)
	assert.Equal(t, "Ctrl+Alt+P", s.Shortcuts.TogglePin)

	set, err = settingSetter("tray-notice", "true")
	require.NoError(t, err)
	set(&s)
	assert.True(t, s.HasSeenTrayNotice)

	_, err = settingSetter("sound", "loud")
	assert.Error(t, err)
	_, err = settingSetter("volume", "11")
	assert.Error(t, err)
}

func TestAutostartCommand(t *testing.T) {
	win := fake.New()
	require.NoError(t, execute(t, win, "autostart", "on"))
	on, err := win.Enabled()
	require.NoError(t, err)
	assert.True(t, on)

	require.NoError(t, execute(t, win, "autostart", "off"))
	on, _ = win.Enabled()
	assert.False(t, on)

	assert.Error(t, execute(t, win, "autostart", "maybe"))
}
