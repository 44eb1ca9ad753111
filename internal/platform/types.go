package platform

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/mj1618/pinit/internal/model"
)

// ParseHandle converts a decimal or 0x-prefixed hex string to a Handle.
func ParseHandle(s string) (model.Handle, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("empty window handle")
	}
	v, err := strconv.ParseUint(s, 0, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid window handle %q: %w", s, err)
	}
	if v == 0 {
		return 0, fmt.Errorf("invalid window handle %q: must be non-zero", s)
	}
	return model.Handle(uintptr(v)), nil
}

// EventKind is the kind of a window notification.
type EventKind int

const (
	EventLocationChange EventKind = iota
	EventMinimizeStart
	EventMinimizeEnd
	EventMoveSizeEnd
	EventForeground
	EventFocus
	EventDestroy
)

var eventKindNames = map[EventKind]string{
	EventLocationChange: "location-change",
	EventMinimizeStart:  "minimize-start",
	EventMinimizeEnd:    "minimize-end",
	EventMoveSizeEnd:    "move-size-end",
	EventForeground:     "foreground",
	EventFocus:          "focus",
	EventDestroy:        "destroy",
}

func (k EventKind) String() string {
	if name, ok := eventKindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("event(%d)", int(k))
}

// ObjectWindow is the object id of notifications about the window itself
// rather than one of its child objects (caret, scrollbars, ...).
const ObjectWindow int32 = 0

// Event is a raw window notification.
type Event struct {
	Kind   EventKind
	Handle model.Handle
	Object int32
}
