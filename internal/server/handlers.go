package server

import (
	"context"
	"fmt"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	pinerr "github.com/mj1618/pinit/internal/errors"
	"github.com/mj1618/pinit/internal/model"
	"github.com/mj1618/pinit/internal/output"
	"github.com/mj1618/pinit/internal/platform"
)

// errorResult is the YAML body of a failed tool call.
type errorResult struct {
	OK     bool             `yaml:"ok"`
	Action string           `yaml:"action"`
	Code   pinerr.ErrorCode `yaml:"code,omitempty"`
	Error  string           `yaml:"error"`
}

// textResult serializes v to YAML for the MCP response.
func textResult(v interface{}) *mcp.CallToolResult {
	text, err := output.Marshal(v)
	if err != nil {
		return mcp.NewToolResultError(err.Error())
	}
	return mcp.NewToolResultText(text)
}

func errResult(action string, err error) *mcp.CallToolResult {
	text, merr := output.Marshal(errorResult{
		Action: action,
		Code:   pinerr.GetCode(err),
		Error:  err.Error(),
	})
	if merr != nil {
		text = fmt.Sprintf("ok: false\naction: %s\nerror: %s", action, err)
	}
	return mcp.NewToolResultError(text)
}

// handleParam resolves the "handle" argument, falling back to the
// foreground window when it is omitted.
func (s *Server) handleParam(request mcp.CallToolRequest) (model.Handle, error) {
	raw := request.GetString("handle", "")
	if raw == "" {
		return s.app.Foreground()
	}
	h, err := platform.ParseHandle(raw)
	if err != nil {
		return 0, pinerr.Wrap(err, pinerr.ErrCodeNoSuchWindow, "bad window handle")
	}
	return h, nil
}

// writeActionHandler resolves the target window, runs fn with write tools
// serialized and invalidates the window cache.
func (s *Server) writeActionHandler(
	request mcp.CallToolRequest,
	action string,
	fn func(h model.Handle, result *output.ActionResult) error,
) (*mcp.CallToolResult, error) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	h, err := s.handleParam(request)
	if err != nil {
		return errResult(action, err), nil
	}

	result := output.ActionResult{Action: action, Handle: h}
	err = fn(h, &result)
	s.cache.Invalidate()
	if err != nil {
		s.log.WithError(err).WithField("action", action).Debug("Tool failed")
		return errResult(action, err), nil
	}
	result.OK = true
	if result.Title == "" && result.Process == "" {
		result.Title, result.Process = s.app.Describe(h)
	}
	return textResult(result), nil
}

func (s *Server) handleListWindows(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	windows, err := s.cache.List(s.app.ListWindows)
	if err != nil {
		return errResult("list_windows", err), nil
	}
	if windows == nil {
		windows = []model.Window{}
	}
	return textResult(output.WindowList{TS: time.Now().Unix(), Windows: windows}), nil
}

func (s *Server) handleListPinned(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	pinned := s.app.ListPinned()
	if pinned == nil {
		pinned = []model.PinnedWindow{}
	}
	return textResult(output.PinnedList{
		Count:   len(pinned),
		Summary: s.app.Summary(),
		Pinned:  pinned,
	}), nil
}

func (s *Server) handlePinnedCount(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return textResult(output.PinnedList{
		Count:   s.app.PinnedCount(),
		Summary: s.app.Summary(),
	}), nil
}

func (s *Server) handleIsTopmost(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	h, err := s.handleParam(request)
	if err != nil {
		return errResult("is_topmost", err), nil
	}
	on, err := s.app.IsTopmost(h)
	if err != nil {
		return errResult("is_topmost", err), nil
	}
	title, process := s.app.Describe(h)
	return textResult(output.ActionResult{
		OK:      true,
		Action:  "is_topmost",
		Handle:  h,
		Title:   title,
		Process: process,
		Topmost: output.Bool(on),
	}), nil
}

func (s *Server) handleGetOpacity(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	h, err := s.handleParam(request)
	if err != nil {
		return errResult("get_opacity", err), nil
	}
	percent, err := s.app.Opacity(h)
	if err != nil {
		return errResult("get_opacity", err), nil
	}
	return textResult(output.ActionResult{OK: true, Action: "get_opacity", Handle: h, Opacity: percent}), nil
}

func (s *Server) handleGetSettings(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return textResult(s.app.Settings()), nil
}

func (s *Server) handleGetAutoStart(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	on, err := s.app.AutoStart()
	if err != nil {
		return errResult("get_auto_start", err), nil
	}
	return textResult(output.ActionResult{OK: true, Action: "get_auto_start", Enabled: output.Bool(on)}), nil
}

func (s *Server) handlePin(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return s.writeActionHandler(request, "pin", func(h model.Handle, r *output.ActionResult) error {
		rec, err := s.app.Pin(h)
		if err != nil {
			return err
		}
		r.Title, r.Process, r.Pinned = rec.Title, rec.Process, output.Bool(true)
		return nil
	})
}

func (s *Server) handleUnpin(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return s.writeActionHandler(request, "unpin", func(h model.Handle, r *output.ActionResult) error {
		r.Title, r.Process = s.app.Describe(h)
		if err := s.app.Unpin(h); err != nil {
			return err
		}
		r.Pinned = output.Bool(false)
		return nil
	})
}

func (s *Server) handleToggle(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return s.writeActionHandler(request, "toggle", func(h model.Handle, r *output.ActionResult) error {
		r.Title, r.Process = s.app.Describe(h)
		pinned, err := s.app.Toggle(h)
		if err != nil {
			return err
		}
		r.Pinned = output.Bool(pinned)
		return nil
	})
}

func (s *Server) handleSetOpacity(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	percent, err := request.RequireInt("percent")
	if err != nil {
		return errResult("set_opacity", err), nil
	}
	return s.writeActionHandler(request, "set_opacity", func(h model.Handle, r *output.ActionResult) error {
		got, err := s.app.SetOpacity(h, percent)
		if err != nil {
			return err
		}
		r.Opacity = got
		return nil
	})
}

func (s *Server) handleAdjustOpacity(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	delta, err := request.RequireInt("delta")
	if err != nil {
		return errResult("adjust_opacity", err), nil
	}
	return s.writeActionHandler(request, "adjust_opacity", func(h model.Handle, r *output.ActionResult) error {
		got, err := s.app.AdjustOpacity(h, delta)
		if err != nil {
			return err
		}
		r.Opacity = got
		return nil
	})
}

func (s *Server) handleFocus(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if request.GetString("handle", "") == "" {
		return errResult("focus", fmt.Errorf("handle is required")), nil
	}
	return s.writeActionHandler(request, "focus", func(h model.Handle, _ *output.ActionResult) error {
		return s.app.Focus(h)
	})
}

func (s *Server) handleSetSettings(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	settings, err := s.app.UpdateSettings(func(st *model.Settings) {
		if _, ok := args["sound_enabled"]; ok {
			st.SoundEnabled = request.GetBool("sound_enabled", st.SoundEnabled)
		}
		if _, ok := args["has_seen_tray_notice"]; ok {
			st.HasSeenTrayNotice = request.GetBool("has_seen_tray_notice", st.HasSeenTrayNotice)
		}
		st.Shortcuts.TogglePin = request.GetString("toggle_pin", st.Shortcuts.TogglePin)
		st.Shortcuts.OpacityUp = request.GetString("opacity_up", st.Shortcuts.OpacityUp)
		st.Shortcuts.OpacityDown = request.GetString("opacity_down", st.Shortcuts.OpacityDown)
	})
	if err != nil {
		return errResult("set_settings", err), nil
	}
	return textResult(settings), nil
}

func (s *Server) handleSetAutoStart(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	on, err := request.RequireBool("enabled")
	if err != nil {
		return errResult("set_auto_start", err), nil
	}
	if err := s.app.SetAutoStart(on); err != nil {
		return errResult("set_auto_start", err), nil
	}
	return textResult(output.ActionResult{OK: true, Action: "set_auto_start", Enabled: output.Bool(on)}), nil
}
