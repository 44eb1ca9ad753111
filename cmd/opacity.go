package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/mj1618/pinit/internal/app"
	"github.com/mj1618/pinit/internal/model"
	"github.com/mj1618/pinit/internal/output"
	"github.com/mj1618/pinit/internal/platform"
	"github.com/spf13/cobra"
)

var opacityCmd = &cobra.Command{
	Use:   "opacity [value]",
	Short: "Show or change the opacity of a window",
	Long: `Show or change the opacity of a window in percent.

  pinit opacity            print the current opacity
  pinit opacity 60         set the opacity to 60%
  pinit opacity +10        make a pinned window 10% more opaque
  pinit opacity -- -10     make a pinned window 10% more transparent
  pinit opacity up|down    step a pinned window by 10%

Opacity is kept between 20% and 100%. Relative changes only apply to pinned
windows. Without --handle the foreground window is used.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runOpacity,
}

func init() {
	rootCmd.AddCommand(opacityCmd)
	opacityCmd.Flags().String("handle", "", "Window handle (default: foreground window)")
}

// opacityChange is a parsed opacity argument.
type opacityChange struct {
	value    int
	relative bool
}

func parseOpacityArg(s string) (opacityChange, error) {
	switch strings.ToLower(s) {
	case "up":
		return opacityChange{value: app.OpacityStep, relative: true}, nil
	case "down":
		return opacityChange{value: -app.OpacityStep, relative: true}, nil
	}
	relative := strings.HasPrefix(s, "+") || strings.HasPrefix(s, "-")
	v, err := strconv.Atoi(strings.TrimSuffix(s, "%"))
	if err != nil {
		return opacityChange{}, fmt.Errorf("invalid opacity %q: use a percentage, +N, -N, up or down", s)
	}
	return opacityChange{value: v, relative: relative}, nil
}

func runOpacity(cmd *cobra.Command, args []string) error {
	var change *opacityChange
	if len(args) == 1 {
		c, err := parseOpacityArg(args[0])
		if err != nil {
			return err
		}
		change = &c
	}

	a, done, err := openApp(cmd.Context(), app.Options{})
	if err != nil {
		return err
	}
	defer done()

	var h model.Handle
	if raw, _ := cmd.Flags().GetString("handle"); raw != "" {
		h, err = platform.ParseHandle(raw)
	} else {
		h, err = a.Foreground()
	}
	if err != nil {
		return err
	}

	result := output.ActionResult{OK: true, Handle: h}
	result.Title, result.Process = a.Describe(h)
	switch {
	case change == nil:
		result.Action = "opacity"
		result.Opacity, err = a.Opacity(h)
	case change.relative:
		result.Action = "adjust_opacity"
		result.Opacity, err = a.AdjustOpacity(h, change.value)
	default:
		result.Action = "set_opacity"
		result.Opacity, err = a.SetOpacity(h, change.value)
	}
	if err != nil {
		return err
	}
	return output.Print(result)
}
