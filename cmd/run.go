package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/mj1618/pinit/internal/app"
	"github.com/mj1618/pinit/internal/events"
	"github.com/mj1618/pinit/internal/logging"
	"github.com/spf13/cobra"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Keep pinned windows on top until interrupted",
	Long: `Run the resident process: restore the pins saved by the previous session,
keep pinned windows on top when the OS drops them, listen for the global
shortcuts, and save the pins on exit.

Default shortcuts:
  Win+Ctrl+T   toggle pin on the foreground window
  Win+Ctrl+=   raise the opacity of the foreground window
  Win+Ctrl+-   lower the opacity of the foreground window`,
	Args: cobra.NoArgs,
	RunE: runRun,
}

func init() {
	rootCmd.AddCommand(runCmd)
	runCmd.Flags().Bool("no-restore", false, "Do not re-pin the windows saved by the previous session")
	runCmd.Flags().Bool("no-hotkeys", false, "Do not register the global shortcuts")
}

func runRun(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	opts := app.Resident(cfg)
	if noRestore, _ := cmd.Flags().GetBool("no-restore"); noRestore {
		opts.Restore = false
	}
	if noHotkeys, _ := cmd.Flags().GetBool("no-hotkeys"); noHotkeys {
		opts.Hotkeys = false
	}

	a, done, err := openApp(ctx, opts)
	if err != nil {
		return err
	}
	defer done()

	log := logging.NewLogger("run")
	go logEvents(ctx, a.Events())

	log.WithField("pinned", a.PinnedCount()).Info("pinit running")
	<-ctx.Done()
	log.Info("Shutting down")
	return nil
}

// logEvents mirrors bus events to the log until ctx ends or the bus closes.
func logEvents(ctx context.Context, bus *events.Bus) {
	ch, cancel := bus.Subscribe()
	defer cancel()

	log := logging.NewLogger("events")
	for {
		select {
		case <-ctx.Done():
			return
		case e, ok := <-ch:
			if !ok {
				return
			}
			entry := log.WithField("kind", e.Kind)
			if e.Handle != 0 {
				entry = entry.WithField("handle", e.Handle.String())
			}
			switch e.Kind {
			case events.PinStateChanged:
				entry.WithField("pinned", e.Pinned).WithField("title", e.Title).Debug("Pin state changed")
			case events.OpacityChanged:
				entry.WithField("percent", e.Percent).Debug("Opacity changed")
			case events.OperationError:
				entry.Warn(e.Message)
			default:
				entry.Debug("Window event")
			}
		}
	}
}
