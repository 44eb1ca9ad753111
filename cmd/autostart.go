package cmd

import (
	"fmt"

	"github.com/mj1618/pinit/internal/app"
	"github.com/mj1618/pinit/internal/output"
	"github.com/spf13/cobra"
)

var autostartCmd = &cobra.Command{
	Use:       "autostart [on|off]",
	Short:     "Show or change whether pinit starts at login",
	Long:      `Without an argument, report whether "pinit run" starts with the user session.`,
	Args:      cobra.MatchAll(cobra.MaximumNArgs(1), cobra.OnlyValidArgs),
	ValidArgs: []string{"on", "off"},
	RunE:      runAutostart,
}

func init() {
	rootCmd.AddCommand(autostartCmd)
}

func runAutostart(cmd *cobra.Command, args []string) error {
	a, done, err := openApp(cmd.Context(), app.Options{})
	if err != nil {
		return err
	}
	defer done()

	if len(args) == 1 {
		var on bool
		switch args[0] {
		case "on":
			on = true
		case "off":
		default:
			return fmt.Errorf("expected on or off, got %q", args[0])
		}
		if err := a.SetAutoStart(on); err != nil {
			return err
		}
	}

	on, err := a.AutoStart()
	if err != nil {
		return err
	}
	return output.Print(output.ActionResult{OK: true, Action: "autostart", Enabled: output.Bool(on)})
}
