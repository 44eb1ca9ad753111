//go:build windows

package win32

import (
	"errors"
	"runtime"
	"unsafe"

	"github.com/mj1618/pinit/internal/logging"
	"github.com/sirupsen/logrus"
	"golang.org/x/sys/windows"
)

var errLoopStopped = errors.New("message loop stopped")

type point struct {
	x, y int32
}

type msg struct {
	hwnd    windows.HWND
	message uint32
	wParam  uintptr
	lParam  uintptr
	time    uint32
	pt      point
}

// loop owns the OS thread that holds event hooks and hotkey registrations.
// Both are bound to the thread that created them and are delivered through
// its message queue.
type loop struct {
	tid      uint32
	calls    chan func()
	done     chan struct{}
	onHotkey func(id int)
	log      *logrus.Entry
}

func startLoop(onHotkey func(id int)) (*loop, error) {
	l := &loop{
		calls:    make(chan func(), 16),
		done:     make(chan struct{}),
		onHotkey: onHotkey,
		log:      logging.NewLogger("win32"),
	}
	ready := make(chan struct{})
	go l.run(ready)
	select {
	case <-ready:
		return l, nil
	case <-l.done:
		return nil, errLoopStopped
	}
}

func (l *loop) run(ready chan<- struct{}) {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()
	defer close(l.done)

	l.tid = windows.GetCurrentThreadId()

	// The queue only exists after the thread's first message call.
	var m msg
	procPeekMessageW.Call(uintptr(unsafe.Pointer(&m)), 0, 0, 0, pmNoRemove)
	close(ready)
	l.log.WithField("thread", l.tid).Debug("Message loop started")

	for {
		r, _, err := procGetMessageW.Call(uintptr(unsafe.Pointer(&m)), 0, 0, 0)
		switch int32(r) {
		case 0:
			l.log.Debug("Message loop stopped")
			return
		case -1:
			l.log.WithError(err).Error("GetMessageW failed")
			return
		}

		switch m.message {
		case wmApp:
			l.drain()
		case wmHotkey:
			if l.onHotkey != nil {
				// Handlers may call back into the loop, so they must not
				// run on it.
				go l.onHotkey(int(m.wParam))
			}
		default:
			procTranslateMessage.Call(uintptr(unsafe.Pointer(&m)))
			procDispatchMessageW.Call(uintptr(unsafe.Pointer(&m)))
		}
	}
}

func (l *loop) drain() {
	for {
		select {
		case fn := <-l.calls:
			fn()
		default:
			return
		}
	}
}

// do runs fn on the loop thread and waits for it.
func (l *loop) do(fn func() error) error {
	if windows.GetCurrentThreadId() == l.tid {
		return fn()
	}

	res := make(chan error, 1)
	select {
	case l.calls <- func() { res <- fn() }:
	case <-l.done:
		return errLoopStopped
	}
	if r, _, err := procPostThreadMessageW.Call(uintptr(l.tid), wmApp, 0, 0); r == 0 {
		return err
	}

	select {
	case err := <-res:
		return err
	case <-l.done:
		return errLoopStopped
	}
}

func (l *loop) stop() {
	select {
	case <-l.done:
		return
	default:
	}
	procPostThreadMessageW.Call(uintptr(l.tid), wmQuit, 0, 0)
	<-l.done
}
