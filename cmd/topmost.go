package cmd

import (
	"github.com/mj1618/pinit/internal/app"
	"github.com/mj1618/pinit/internal/output"
	"github.com/spf13/cobra"
)

var topmostCmd = &cobra.Command{
	Use:   "topmost [handle]",
	Short: "Report whether a window has the topmost flag",
	Long: `Report the OS topmost flag of a window, independent of whether pinit
pinned it. Without a handle the foreground window is checked.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runTopmost,
}

func init() {
	rootCmd.AddCommand(topmostCmd)
}

func runTopmost(cmd *cobra.Command, args []string) error {
	a, done, err := openApp(cmd.Context(), app.Options{})
	if err != nil {
		return err
	}
	defer done()

	h, err := targetHandle(a, args)
	if err != nil {
		return err
	}
	on, err := a.IsTopmost(h)
	if err != nil {
		return err
	}
	title, process := a.Describe(h)
	return output.Print(output.ActionResult{
		OK:      true,
		Action:  "topmost",
		Handle:  h,
		Title:   title,
		Process: process,
		Topmost: output.Bool(on),
		Pinned:  output.Bool(a.IsPinned(h)),
	})
}
