package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mj1618/pinit/internal/app"
	"github.com/mj1618/pinit/internal/server"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start an MCP server exposing pinit tools",
	Long: `Start a Model Context Protocol (MCP) server that exposes the pinit
commands as tools, so agents can pin windows and change their opacity
without shell overhead.

Pins made through the server are kept on top while it runs. With
--resident the server also restores saved pins, registers the global
shortcuts and saves the pins on exit, replacing "pinit run".

Supported transports:
  stdio   Standard I/O (default, for MCP clients)
  http    Streamable HTTP transport (for remote agents)

Examples:
  pinit serve
  pinit serve --transport http --port 8080
  pinit serve --cache-ttl 0`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().String("transport", "", "Transport: stdio, http (default from config)")
	serveCmd.Flags().Int("port", 0, "HTTP port for the http transport (default from config)")
	serveCmd.Flags().Int("cache-ttl", -1, "Window list cache TTL in milliseconds (0 to disable, default from config)")
	serveCmd.Flags().Bool("resident", false, "Also restore, save and hotkey-enable pins like `pinit run`")
}

func runServe(cmd *cobra.Command, args []string) error {
	serverCfg := cfg.Server
	if transport, _ := cmd.Flags().GetString("transport"); transport != "" {
		serverCfg.Transport = transport
	}
	if port, _ := cmd.Flags().GetInt("port"); port != 0 {
		serverCfg.Port = port
	}
	if ttl, _ := cmd.Flags().GetInt("cache-ttl"); ttl >= 0 {
		serverCfg.CacheTTL = time.Duration(ttl) * time.Millisecond
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	opts := app.Options{Subscribe: true, Watch: cfg.Watch.State}
	if resident, _ := cmd.Flags().GetBool("resident"); resident {
		opts = app.Resident(cfg)
	}

	a, done, err := openApp(ctx, opts)
	if err != nil {
		return fmt.Errorf("failed to start pinit: %w", err)
	}
	defer done()

	srv := server.New(a, serverCfg)
	defer srv.Close()
	return srv.Serve(ctx)
}
