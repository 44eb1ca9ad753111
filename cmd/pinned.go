package cmd

import (
	"github.com/mj1618/pinit/internal/app"
	"github.com/mj1618/pinit/internal/model"
	"github.com/mj1618/pinit/internal/output"
	"github.com/spf13/cobra"
)

var pinnedCmd = &cobra.Command{
	Use:   "pinned",
	Short: "List pinned windows",
	Args:  cobra.NoArgs,
	RunE:  runPinned,
}

func init() {
	rootCmd.AddCommand(pinnedCmd)
	pinnedCmd.Flags().Bool("count", false, "Only print the count and summary")
}

func runPinned(cmd *cobra.Command, args []string) error {
	a, done, err := openApp(cmd.Context(), app.Options{})
	if err != nil {
		return err
	}
	defer done()

	result := output.PinnedList{Summary: a.Summary()}
	pinned := a.ListPinned()
	result.Count = len(pinned)
	if countOnly, _ := cmd.Flags().GetBool("count"); !countOnly {
		if pinned == nil {
			pinned = []model.PinnedWindow{}
		}
		result.Pinned = pinned
	}
	return output.Print(result)
}
