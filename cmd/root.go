package cmd

import (
	"fmt"
	"os"

	"github.com/mj1618/pinit/internal/config"
	"github.com/mj1618/pinit/internal/logging"
	"github.com/mj1618/pinit/internal/output"
	"github.com/mj1618/pinit/internal/platform"
	"github.com/mj1618/pinit/internal/version"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var rootCmd = &cobra.Command{
	Use:   "pinit",
	Short: "Keep windows always on top",
	Long: `Pin windows so they stay above every other window, adjust their opacity,
and restore the pins the next time you log in.

Run "pinit run" to keep a resident process that enforces pins and listens
for the global shortcuts. The other commands act on windows directly.`,
	SilenceUsage: true,
}

var (
	// cfg is the configuration resolved by the root command before any
	// subcommand runs.
	cfg *config.Config

	// newProvider is replaced in tests.
	newProvider = platform.NewProvider
)

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.Version = fmt.Sprintf("%s (commit: %s, built: %s)", version.Version, version.Commit, version.BuildDate)
	rootCmd.PersistentFlags().String("format", "yaml", "Output format: yaml, json")
	rootCmd.PersistentFlags().Bool("pretty", false, "Pretty-print JSON output")
	rootCmd.PersistentFlags().String("config", "", "Config file (default: config.toml in the config directory)")
	rootCmd.PersistentFlags().String("log-level", "", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().String("state", "", "Pinned windows file (default: pinned.toml in the data directory)")

	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		format, _ := rootCmd.PersistentFlags().GetString("format")
		f, err := output.ParseFormat(format)
		if err != nil {
			return err
		}
		output.OutputFormat = f
		output.PrettyOutput, _ = rootCmd.PersistentFlags().GetBool("pretty")

		v := viper.New()
		if path, _ := rootCmd.PersistentFlags().GetString("config"); path != "" {
			v.SetConfigFile(path)
		}
		if err := v.BindPFlag("log.level", rootCmd.PersistentFlags().Lookup("log-level")); err != nil {
			return err
		}
		if state, _ := rootCmd.PersistentFlags().GetString("state"); state != "" {
			v.Set("state.path", state)
		}
		loaded, err := config.Load(v)
		if err != nil {
			return err
		}
		cfg = loaded
		logging.Configure(cfg.Log)
		return nil
	}
}
