package model

import "fmt"

// Handle is the platform-assigned identifier of a top-level window.
// It is only ever interpreted by the platform adapter.
type Handle uintptr

func (h Handle) String() string {
	return fmt.Sprintf("0x%X", uintptr(h))
}

// Window represents a visible top-level window.
type Window struct {
	Handle  Handle `yaml:"handle"            json:"handle"`
	PID     int    `yaml:"pid"               json:"pid"`
	Process string `yaml:"process"           json:"process"`
	Title   string `yaml:"title"             json:"title"`
	Class   string `yaml:"class,omitempty"   json:"class,omitempty"`
	Topmost bool   `yaml:"topmost"           json:"topmost"`
	Pinned  bool   `yaml:"pinned"            json:"pinned"`
	Opacity int    `yaml:"opacity,omitempty" json:"opacity,omitempty"`
}
