//go:build windows

package win32

import (
	"fmt"
	"strings"
	"sync"
	"unsafe"

	"github.com/mj1618/pinit/internal/logging"
	"github.com/mj1618/pinit/internal/model"
	"github.com/shirou/gopsutil/v4/process"
	"github.com/sirupsen/logrus"
	"golang.org/x/sys/windows"
)

// Windows implements platform.Windows with direct user32 calls. None of its
// methods need the message loop thread.
type Windows struct {
	log *logrus.Entry
}

func newWindows() *Windows {
	return &Windows{log: logging.NewLogger("win32")}
}

func hwnd(h model.Handle) windows.HWND {
	return windows.HWND(h)
}

func (w *Windows) IsWindow(h model.Handle) bool {
	return h != 0 && windows.IsWindow(hwnd(h))
}

func (w *Windows) Foreground() model.Handle {
	return model.Handle(windows.GetForegroundWindow())
}

func (w *Windows) Title(h model.Handle) string {
	n, _, _ := procGetWindowTextLengthW.Call(uintptr(h))
	if n == 0 {
		return ""
	}
	buf := make([]uint16, n+1)
	procGetWindowTextW.Call(uintptr(h), uintptr(unsafe.Pointer(&buf[0])), uintptr(len(buf)))
	return windows.UTF16ToString(buf)
}

func (w *Windows) pid(h model.Handle) uint32 {
	var pid uint32
	if _, err := windows.GetWindowThreadProcessId(hwnd(h), &pid); err != nil {
		return 0
	}
	return pid
}

func (w *Windows) ProcessName(h model.Handle) string {
	pid := w.pid(h)
	if pid == 0 {
		return ""
	}
	return processName(pid)
}

func processName(pid uint32) string {
	p, err := process.NewProcess(int32(pid))
	if err != nil {
		return ""
	}
	name, err := p.Name()
	if err != nil {
		return ""
	}
	return name
}

func (w *Windows) ClassName(h model.Handle) string {
	buf := make([]uint16, 256)
	n, err := windows.GetClassName(hwnd(h), &buf[0], int32(len(buf)))
	if err != nil || n == 0 {
		return ""
	}
	return windows.UTF16ToString(buf[:n])
}

func (w *Windows) exStyle(h model.Handle) uint32 {
	r, _, _ := procGetWindowLongW.Call(uintptr(h), uintptr(gwlExStyle))
	return uint32(r)
}

func (w *Windows) setExStyle(h model.Handle, style uint32) error {
	procSetLastError.Call(0)
	r, _, err := procSetWindowLongW.Call(uintptr(h), uintptr(gwlExStyle), uintptr(style))
	if r == 0 && err != windows.ERROR_SUCCESS {
		return fmt.Errorf("SetWindowLongW: %w", err)
	}
	return nil
}

func (w *Windows) IsTopmost(h model.Handle) bool {
	return w.exStyle(h)&wsExTopmost != 0
}

func (w *Windows) SetTopmost(h model.Handle, on bool) error {
	after := hwndNoTopmost
	if on {
		after = hwndTopmost
	}
	r, _, err := procSetWindowPos.Call(uintptr(h), after, 0, 0, 0, 0, swpNoMove|swpNoSize|swpNoActivate)
	if r == 0 {
		return fmt.Errorf("SetWindowPos: %w", err)
	}
	return nil
}

func (w *Windows) HasProp(h model.Handle, name string) bool {
	p, err := windows.UTF16PtrFromString(name)
	if err != nil {
		return false
	}
	r, _, _ := procGetPropW.Call(uintptr(h), uintptr(unsafe.Pointer(p)))
	return r != 0
}

func (w *Windows) SetProp(h model.Handle, name string) error {
	p, err := windows.UTF16PtrFromString(name)
	if err != nil {
		return err
	}
	r, _, err := procSetPropW.Call(uintptr(h), uintptr(unsafe.Pointer(p)), 1)
	if r == 0 {
		return fmt.Errorf("SetPropW: %w", err)
	}
	return nil
}

func (w *Windows) RemoveProp(h model.Handle, name string) error {
	p, err := windows.UTF16PtrFromString(name)
	if err != nil {
		return err
	}
	procRemovePropW.Call(uintptr(h), uintptr(unsafe.Pointer(p)))
	return nil
}

func (w *Windows) IsLayered(h model.Handle) bool {
	return w.exStyle(h)&wsExLayered != 0
}

func (w *Windows) SetLayered(h model.Handle, on bool) error {
	style := w.exStyle(h)
	if on {
		style |= wsExLayered
	} else {
		style &^= wsExLayered
	}
	return w.setExStyle(h, style)
}

func (w *Windows) Alpha(h model.Handle) (uint8, bool) {
	if !w.IsLayered(h) {
		return 0, false
	}
	var (
		key   uint32
		alpha uint8
		flags uint32
	)
	r, _, _ := procGetLayeredWindowAttributes.Call(
		uintptr(h),
		uintptr(unsafe.Pointer(&key)),
		uintptr(unsafe.Pointer(&alpha)),
		uintptr(unsafe.Pointer(&flags)),
	)
	if r == 0 || flags&lwaAlpha == 0 {
		return 0, false
	}
	return alpha, true
}

func (w *Windows) SetAlpha(h model.Handle, alpha uint8) error {
	r, _, err := procSetLayeredWindowAttributes.Call(uintptr(h), 0, uintptr(alpha), lwaAlpha)
	if r == 0 {
		return fmt.Errorf("SetLayeredWindowAttributes: %w", err)
	}
	return nil
}

func (w *Windows) Redraw(h model.Handle) error {
	r, _, err := procSetWindowPos.Call(uintptr(h), 0, 0, 0, 0, 0,
		swpNoMove|swpNoSize|swpNoZOrder|swpNoActivate|swpFrameChanged)
	if r == 0 {
		return fmt.Errorf("SetWindowPos: %w", err)
	}
	return nil
}

func (w *Windows) Focus(h model.Handle) error {
	if r, _, _ := procIsIconic.Call(uintptr(h)); r != 0 {
		procShowWindow.Call(uintptr(h), swRestore)
	}
	procBringWindowToTop.Call(uintptr(h))
	if r, _, err := procSetForegroundWindow.Call(uintptr(h)); r == 0 {
		return fmt.Errorf("SetForegroundWindow: %w", err)
	}
	return nil
}

// EnumWindows cannot carry a Go closure through its callback, so the
// collected handles go through a package-level slice guarded by enumMu.
var (
	enumMu       sync.Mutex
	enumHandles  []windows.HWND
	enumCallback = windows.NewCallback(func(h windows.HWND, _ uintptr) uintptr {
		enumHandles = append(enumHandles, h)
		return 1
	})
)

func topLevelHandles() ([]windows.HWND, error) {
	enumMu.Lock()
	defer enumMu.Unlock()

	enumHandles = nil
	if err := windows.EnumWindows(enumCallback, nil); err != nil {
		return nil, fmt.Errorf("EnumWindows: %w", err)
	}
	out := enumHandles
	enumHandles = nil
	return out, nil
}

func (w *Windows) List() ([]model.Window, error) {
	handles, err := topLevelHandles()
	if err != nil {
		return nil, err
	}

	names := make(map[uint32]string)
	var out []model.Window
	for _, hw := range handles {
		h := model.Handle(hw)
		if !windows.IsWindowVisible(hw) {
			continue
		}
		style := w.exStyle(h)
		if style&wsExToolWindow != 0 {
			continue
		}
		if owner, _, _ := procGetWindow.Call(uintptr(h), gwOwner); owner != 0 {
			continue
		}
		title := w.Title(h)
		if strings.TrimSpace(title) == "" {
			continue
		}

		pid := w.pid(h)
		name, ok := names[pid]
		if !ok {
			name = processName(pid)
			names[pid] = name
		}

		out = append(out, model.Window{
			Handle:  h,
			PID:     int(pid),
			Process: name,
			Title:   title,
			Class:   w.ClassName(h),
			Topmost: style&wsExTopmost != 0,
		})
	}
	w.log.WithField("count", len(out)).Debug("Enumerated windows")
	return out, nil
}
