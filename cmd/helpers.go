package cmd

import (
	"context"

	"github.com/mj1618/pinit/internal/app"
	"github.com/mj1618/pinit/internal/model"
	"github.com/mj1618/pinit/internal/platform"
)

// openApp starts an app for the lifetime of one command. The returned
// function shuts it down and releases the provider.
func openApp(ctx context.Context, opts app.Options) (*app.App, func(), error) {
	provider, err := newProvider()
	if err != nil {
		return nil, nil, err
	}
	a := app.New(cfg, provider, opts)
	if err := a.Start(ctx); err != nil {
		provider.Close()
		return nil, nil, err
	}
	return a, func() {
		_ = a.Shutdown()
		provider.Close()
	}, nil
}

// targetHandle parses the optional handle argument, falling back to the
// foreground window.
func targetHandle(a *app.App, args []string) (model.Handle, error) {
	if len(args) == 0 || args[0] == "" {
		return a.Foreground()
	}
	return platform.ParseHandle(args[0])
}
