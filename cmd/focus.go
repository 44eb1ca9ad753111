package cmd

import (
	"github.com/mj1618/pinit/internal/app"
	"github.com/mj1618/pinit/internal/output"
	"github.com/mj1618/pinit/internal/platform"
	"github.com/spf13/cobra"
)

var focusCmd = &cobra.Command{
	Use:   "focus <handle>",
	Short: "Bring a window to the foreground",
	Long:  "Restore a window if it is minimized and bring it to the front. Its pin state is not changed.",
	Args:  cobra.ExactArgs(1),
	RunE:  runFocus,
}

func init() {
	rootCmd.AddCommand(focusCmd)
}

func runFocus(cmd *cobra.Command, args []string) error {
	h, err := platform.ParseHandle(args[0])
	if err != nil {
		return err
	}

	a, done, err := openApp(cmd.Context(), app.Options{})
	if err != nil {
		return err
	}
	defer done()

	if err := a.Focus(h); err != nil {
		return err
	}
	title, process := a.Describe(h)
	return output.Print(output.ActionResult{
		OK:      true,
		Action:  "focus",
		Handle:  h,
		Title:   title,
		Process: process,
	})
}
