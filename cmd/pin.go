package cmd

import (
	"github.com/mj1618/pinit/internal/app"
	"github.com/mj1618/pinit/internal/output"
	"github.com/spf13/cobra"
)

var pinCmd = &cobra.Command{
	Use:   "pin [handle]",
	Short: "Keep a window on top",
	Long: `Pin a window so it stays above all non-topmost windows. Without a handle
the foreground window is pinned. Handles are printed by "pinit list".`,
	Args: cobra.MaximumNArgs(1),
	RunE: runPin,
}

var unpinCmd = &cobra.Command{
	Use:   "unpin [handle]",
	Short: "Release a pinned window",
	Long:  "Unpin a window and restore the opacity it had before it was pinned.",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runUnpin,
}

var toggleCmd = &cobra.Command{
	Use:   "toggle [handle]",
	Short: "Pin a window, or unpin it if it is already pinned",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runToggle,
}

func init() {
	rootCmd.AddCommand(pinCmd)
	rootCmd.AddCommand(unpinCmd)
	rootCmd.AddCommand(toggleCmd)
}

func runPin(cmd *cobra.Command, args []string) error {
	a, done, err := openApp(cmd.Context(), app.Options{})
	if err != nil {
		return err
	}
	defer done()

	h, err := targetHandle(a, args)
	if err != nil {
		return err
	}
	rec, err := a.Pin(h)
	if err != nil {
		return err
	}
	return output.Print(output.ActionResult{
		OK:      true,
		Action:  "pin",
		Handle:  h,
		Title:   rec.Title,
		Process: rec.Process,
		Pinned:  output.Bool(true),
	})
}

func runUnpin(cmd *cobra.Command, args []string) error {
	a, done, err := openApp(cmd.Context(), app.Options{})
	if err != nil {
		return err
	}
	defer done()

	h, err := targetHandle(a, args)
	if err != nil {
		return err
	}
	title, process := a.Describe(h)
	if err := a.Unpin(h); err != nil {
		return err
	}
	return output.Print(output.ActionResult{
		OK:      true,
		Action:  "unpin",
		Handle:  h,
		Title:   title,
		Process: process,
		Pinned:  output.Bool(false),
	})
}

func runToggle(cmd *cobra.Command, args []string) error {
	a, done, err := openApp(cmd.Context(), app.Options{})
	if err != nil {
		return err
	}
	defer done()

	h, err := targetHandle(a, args)
	if err != nil {
		return err
	}
	title, process := a.Describe(h)
	pinned, err := a.Toggle(h)
	if err != nil {
		return err
	}
	return output.Print(output.ActionResult{
		OK:      true,
		Action:  "toggle",
		Handle:  h,
		Title:   title,
		Process: process,
		Pinned:  output.Bool(pinned),
	})
}
