package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/mj1618/pinit/internal/app"
	"github.com/mj1618/pinit/internal/config"
	"github.com/mj1618/pinit/internal/model"
	"github.com/mj1618/pinit/internal/output"
	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show or change the persisted settings",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the persisted settings",
	Args:  cobra.NoArgs,
	RunE:  runConfigShow,
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the config, state and log locations",
	Args:  cobra.NoArgs,
	RunE:  runConfigPath,
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Change one setting",
	Long: `Change one persisted setting. Keys:

  sound                  true or false
  tray-notice            true or false
  shortcut.toggle_pin    e.g. Win+Ctrl+T
  shortcut.opacity_up    e.g. Win+Ctrl+=
  shortcut.opacity_down  e.g. Win+Ctrl+-

Shortcuts are validated before anything is saved. A running "pinit run"
picks up the change from the state file.`,
	Args: cobra.ExactArgs(2),
	RunE: runConfigSet,
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configPathCmd)
	configCmd.AddCommand(configSetCmd)
}

// pathsResult is the output of `config path`.
type pathsResult struct {
	ConfigDir string `yaml:"config_dir" json:"config_dir"`
	State     string `yaml:"state"      json:"state"`
	LogDir    string `yaml:"log_dir"    json:"log_dir"`
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	a, done, err := openApp(cmd.Context(), app.Options{})
	if err != nil {
		return err
	}
	defer done()
	return output.Print(a.Settings())
}

func runConfigPath(cmd *cobra.Command, args []string) error {
	return output.Print(pathsResult{
		ConfigDir: config.ConfigDir(),
		State:     cfg.State.Path,
		LogDir:    cfg.Log.Dir,
	})
}

// settingSetter returns a function applying value to key.
func settingSetter(key, value string) (func(*model.Settings), error) {
	parseBool := func() (bool, error) {
		b, err := strconv.ParseBool(value)
		if err != nil {
			return false, fmt.Errorf("%s expects true or false, got %q", key, value)
		}
		return b, nil
	}

	switch strings.ToLower(key) {
	case "sound", "sound_enabled":
		b, err := parseBool()
		if err != nil {
			return nil, err
		}
		return func(s *model.Settings) { s.SoundEnabled = b }, nil
	case "tray-notice", "has_seen_tray_notice":
		b, err := parseBool()
		if err != nil {
			return nil, err
		}
		return func(s *model.Settings) { s.HasSeenTrayNotice = b }, nil
	case "shortcut.toggle_pin":
		return func(s *model.Settings) { s.Shortcuts.TogglePin = value }, nil
	case "shortcut.opacity_up":
		return func(s *model.Settings) { s.Shortcuts.OpacityUp = value }, nil
	case "shortcut.opacity_down":
		return func(s *model.Settings) { s.Shortcuts.OpacityDown = value }, nil
	}
	return nil, fmt.Errorf("unknown setting %q", key)
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	set, err := settingSetter(args[0], args[1])
	if err != nil {
		return err
	}

	a, done, err := openApp(cmd.Context(), app.Options{})
	if err != nil {
		return err
	}
	defer done()

	settings, err := a.UpdateSettings(set)
	if err != nil {
		return err
	}
	return output.Print(settings)
}
