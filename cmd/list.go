package cmd

import (
	"strings"
	"time"

	"github.com/mj1618/pinit/internal/app"
	"github.com/mj1618/pinit/internal/model"
	"github.com/mj1618/pinit/internal/output"
	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List visible windows",
	Long:  "List visible top-level windows with their handle, process, title, topmost flag, pin state and opacity.",
	Args:  cobra.NoArgs,
	RunE:  runList,
}

func init() {
	rootCmd.AddCommand(listCmd)
	listCmd.Flags().String("process", "", "Filter by process name (case-insensitive)")
	listCmd.Flags().String("title", "", "Filter by title substring (case-insensitive)")
	listCmd.Flags().Bool("topmost", false, "Only list topmost windows")
	listCmd.Flags().Bool("pinned", false, "Only list pinned windows")
}

func runList(cmd *cobra.Command, args []string) error {
	a, done, err := openApp(cmd.Context(), app.Options{})
	if err != nil {
		return err
	}
	defer done()

	windows, err := a.ListWindows()
	if err != nil {
		return err
	}

	process, _ := cmd.Flags().GetString("process")
	title, _ := cmd.Flags().GetString("title")
	topmost, _ := cmd.Flags().GetBool("topmost")
	pinned, _ := cmd.Flags().GetBool("pinned")

	filtered := make([]model.Window, 0, len(windows))
	for _, w := range windows {
		if process != "" && !strings.EqualFold(w.Process, process) {
			continue
		}
		if title != "" && !strings.Contains(strings.ToLower(w.Title), strings.ToLower(title)) {
			continue
		}
		if topmost && !w.Topmost {
			continue
		}
		if pinned && !w.Pinned {
			continue
		}
		filtered = append(filtered, w)
	}

	return output.Print(output.WindowList{TS: time.Now().Unix(), Windows: filtered})
}
