// Package server exposes the pin commands as Model Context Protocol tools.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"
	"github.com/mj1618/pinit/internal/app"
	"github.com/mj1618/pinit/internal/config"
	"github.com/mj1618/pinit/internal/logging"
	"github.com/mj1618/pinit/internal/version"
	"github.com/sirupsen/logrus"
)

// Server wraps the MCP server with the app and the window list cache.
type Server struct {
	app   *app.App
	cfg   config.ServerConfig
	cache *WindowCache
	mcp   *mcpserver.MCPServer
	log   *logrus.Entry

	// Serializes write tools so a toggle and an opacity change on the same
	// window from two sessions do not interleave.
	writeMu sync.Mutex

	closeOnce sync.Once
	unsub     func()
	done      chan struct{}
}

// New creates a server with every tool registered. Pin and opacity changes
// made outside the tools (hotkeys, notifications) invalidate the cache too.
func New(a *app.App, cfg config.ServerConfig) *Server {
	s := &Server{
		app:   a,
		cfg:   cfg,
		cache: NewWindowCache(cfg.CacheTTL),
		log:   logging.NewLogger("server"),
		done:  make(chan struct{}),
	}

	s.mcp = mcpserver.NewMCPServer(
		"pinit",
		version.Version,
		mcpserver.WithToolCapabilities(false),
		mcpserver.WithRecovery(),
	)
	s.registerTools()

	ch, unsub := a.Events().Subscribe()
	s.unsub = unsub
	go func() {
		defer close(s.done)
		for range ch {
			s.cache.Invalidate()
		}
	}()
	return s
}

// MCP returns the underlying MCP server.
func (s *Server) MCP() *mcpserver.MCPServer {
	return s.mcp
}

// Serve runs the configured transport until ctx is cancelled.
func (s *Server) Serve(ctx context.Context) error {
	switch s.cfg.Transport {
	case config.TransportStdio:
		s.log.Info("Serving MCP on stdio")
		err := mcpserver.NewStdioServer(s.mcp).Listen(ctx, os.Stdin, os.Stdout)
		if err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		return nil
	case config.TransportHTTP:
		addr := fmt.Sprintf(":%d", s.cfg.Port)
		httpServer := mcpserver.NewStreamableHTTPServer(s.mcp)
		go func() {
			<-ctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = httpServer.Shutdown(shutdownCtx)
		}()
		s.log.WithField("addr", addr).Info("Serving MCP over streamable HTTP")
		if err := httpServer.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	default:
		return fmt.Errorf("unsupported transport: %s (use %s or %s)", s.cfg.Transport, config.TransportStdio, config.TransportHTTP)
	}
}

// Close stops listening for app events.
func (s *Server) Close() {
	s.closeOnce.Do(func() {
		s.unsub()
		<-s.done
	})
}

func (s *Server) registerTools() {
	handle := mcp.WithString("handle", mcp.Required(),
		mcp.Description("Window handle, decimal or 0x-prefixed hex, as reported by list_windows"))
	optionalHandle := mcp.WithString("handle",
		mcp.Description("Window handle, decimal or 0x-prefixed hex. Defaults to the foreground window"))

	// Read-only tools
	s.mcp.AddTool(
		mcp.NewTool("list_windows",
			mcp.WithDescription("List visible top-level windows with their topmost, pin and opacity state"),
			mcp.WithReadOnlyHintAnnotation(true),
		),
		s.handleListWindows,
	)
	s.mcp.AddTool(
		mcp.NewTool("list_pinned",
			mcp.WithDescription("List the pinned windows"),
			mcp.WithReadOnlyHintAnnotation(true),
		),
		s.handleListPinned,
	)
	s.mcp.AddTool(
		mcp.NewTool("pinned_count",
			mcp.WithDescription("Number of pinned windows and a one-line summary"),
			mcp.WithReadOnlyHintAnnotation(true),
		),
		s.handlePinnedCount,
	)
	s.mcp.AddTool(
		mcp.NewTool("is_topmost",
			mcp.WithDescription("Report whether a window currently has the OS topmost flag"),
			mcp.WithReadOnlyHintAnnotation(true),
			optionalHandle,
		),
		s.handleIsTopmost,
	)
	s.mcp.AddTool(
		mcp.NewTool("get_opacity",
			mcp.WithDescription("Report the opacity of a window in percent"),
			mcp.WithReadOnlyHintAnnotation(true),
			optionalHandle,
		),
		s.handleGetOpacity,
	)
	s.mcp.AddTool(
		mcp.NewTool("get_settings",
			mcp.WithDescription("Show the persisted settings: sound, tray notice and shortcuts"),
			mcp.WithReadOnlyHintAnnotation(true),
		),
		s.handleGetSettings,
	)
	s.mcp.AddTool(
		mcp.NewTool("get_auto_start",
			mcp.WithDescription("Report whether pinit starts with the user session"),
			mcp.WithReadOnlyHintAnnotation(true),
		),
		s.handleGetAutoStart,
	)

	// Write tools
	s.mcp.AddTool(
		mcp.NewTool("pin",
			mcp.WithDescription("Keep a window above all non-topmost windows"),
			optionalHandle,
		),
		s.handlePin,
	)
	s.mcp.AddTool(
		mcp.NewTool("unpin",
			mcp.WithDescription("Release a pinned window and restore its original opacity"),
			optionalHandle,
		),
		s.handleUnpin,
	)
	s.mcp.AddTool(
		mcp.NewTool("toggle",
			mcp.WithDescription("Pin the window if it is not pinned, otherwise unpin it"),
			optionalHandle,
		),
		s.handleToggle,
	)
	s.mcp.AddTool(
		mcp.NewTool("set_opacity",
			mcp.WithDescription("Set the opacity of a window in percent (20-100)"),
			optionalHandle,
			mcp.WithNumber("percent", mcp.Required(), mcp.Min(0), mcp.Max(100),
				mcp.Description("Opacity in percent; values below 20 are raised to 20")),
		),
		s.handleSetOpacity,
	)
	s.mcp.AddTool(
		mcp.NewTool("adjust_opacity",
			mcp.WithDescription("Change the opacity of a pinned window by a signed number of percent"),
			optionalHandle,
			mcp.WithNumber("delta", mcp.Required(), mcp.Description("Percent to add, negative to make the window more transparent")),
		),
		s.handleAdjustOpacity,
	)
	s.mcp.AddTool(
		mcp.NewTool("focus",
			mcp.WithDescription("Restore a window if minimized and bring it to the front"),
			handle,
		),
		s.handleFocus,
	)
	s.mcp.AddTool(
		mcp.NewTool("set_settings",
			mcp.WithDescription("Update settings; omitted fields keep their value. Shortcuts are validated before anything is saved"),
			mcp.WithBoolean("sound_enabled", mcp.Description("Play a sound on pin and unpin")),
			mcp.WithBoolean("has_seen_tray_notice", mcp.Description("Whether the tray notice was shown")),
			mcp.WithString("toggle_pin", mcp.Description("Shortcut for toggling the foreground window, e.g. Win+Ctrl+T")),
			mcp.WithString("opacity_up", mcp.Description("Shortcut for raising opacity")),
			mcp.WithString("opacity_down", mcp.Description("Shortcut for lowering opacity")),
		),
		s.handleSetSettings,
	)
	s.mcp.AddTool(
		mcp.NewTool("set_auto_start",
			mcp.WithDescription("Enable or disable starting pinit with the user session"),
			mcp.WithBoolean("enabled", mcp.Required()),
		),
		s.handleSetAutoStart,
	)
}
