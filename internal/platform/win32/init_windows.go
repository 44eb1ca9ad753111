//go:build windows

package win32

import "github.com/mj1618/pinit/internal/platform"

func init() {
	platform.NewProviderFunc = newProvider
}

func newProvider() (*platform.Provider, error) {
	hotkeys := &Hotkeys{}
	l, err := startLoop(hotkeys.dispatch)
	if err != nil {
		return nil, err
	}
	hotkeys.loop = l
	events := &Events{loop: l}

	return &platform.Provider{
		Windows:   newWindows(),
		Events:    events,
		Hotkeys:   hotkeys,
		AutoStart: AutoStart{},
		Release: func() {
			_ = events.Close()
			l.stop()
		},
	}, nil
}

var (
	_ platform.Windows         = (*Windows)(nil)
	_ platform.EventSource     = (*Events)(nil)
	_ platform.HotkeyRegistrar = (*Hotkeys)(nil)
	_ platform.AutoStarter     = AutoStart{}
)
