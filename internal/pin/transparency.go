package pin

import (
	"math"

	pinerr "github.com/mj1618/pinit/internal/errors"
	"github.com/mj1618/pinit/internal/logging"
	"github.com/mj1618/pinit/internal/model"
	"github.com/mj1618/pinit/internal/platform"
	"github.com/sirupsen/logrus"
)

const (
	// MinOpacityPercent keeps windows visible enough to interact with.
	MinOpacityPercent = 20
	MaxOpacityPercent = 100
)

// ClampPercent bounds p to [MinOpacityPercent, MaxOpacityPercent].
func ClampPercent(p int) int {
	if p < MinOpacityPercent {
		return MinOpacityPercent
	}
	if p > MaxOpacityPercent {
		return MaxOpacityPercent
	}
	return p
}

// PercentToAlpha converts a clamped percentage to a 0-255 alpha.
func PercentToAlpha(p int) uint8 {
	return uint8(math.Round(255 * float64(ClampPercent(p)) / 100))
}

// AlphaToPercent converts an alpha back to a percentage.
func AlphaToPercent(a uint8) int {
	return int(math.Round(float64(a) * 100 / 255))
}

// Transparency applies per-window opacity and records it in the registry.
type Transparency struct {
	win platform.Windows
	reg *Registry
	log *logrus.Entry
}

func NewTransparency(win platform.Windows, reg *Registry) *Transparency {
	return &Transparency{
		win: win,
		reg: reg,
		log: logging.NewLogger("transparency"),
	}
}

// SetOpacity clamps percent, applies it and returns the applied percent.
func (t *Transparency) SetOpacity(h model.Handle, percent int) (int, error) {
	percent = ClampPercent(percent)
	alpha := PercentToAlpha(percent)

	added := !t.win.IsLayered(h)
	if added {
		if err := t.win.SetLayered(h, true); err != nil {
			return 0, pinerr.TransparencyFailed(h, err)
		}
	}
	if err := t.win.SetAlpha(h, alpha); err != nil {
		// A layered window without attributes is not drawn at all.
		if added {
			_ = t.win.SetLayered(h, false)
		}
		return 0, pinerr.TransparencyFailed(h, err)
	}

	t.reg.SetOpacity(h, alpha)
	t.log.WithFields(logrus.Fields{"handle": h, "percent": percent, "alpha": alpha}).Debug("Opacity applied")
	return percent, nil
}

// Percent returns the effective opacity. Windows that were never made
// translucent report 100.
func (t *Transparency) Percent(h model.Handle) int {
	if !t.win.IsLayered(h) {
		return MaxOpacityPercent
	}
	alpha, ok := t.win.Alpha(h)
	if !ok {
		return MaxOpacityPercent
	}
	return AlphaToPercent(alpha)
}

// AdjustOpacity shifts the effective opacity by delta percent.
func (t *Transparency) AdjustOpacity(h model.Handle, delta int) (int, error) {
	return t.SetOpacity(h, ClampPercent(t.Percent(h)+delta))
}

// Restore makes the window fully opaque and drops the layered style.
func (t *Transparency) Restore(h model.Handle) error {
	if !t.win.IsLayered(h) {
		return nil
	}
	if err := t.win.SetAlpha(h, model.OpaqueAlpha); err != nil {
		return pinerr.TransparencyFailed(h, err)
	}
	if err := t.win.SetLayered(h, false); err != nil {
		return pinerr.TransparencyFailed(h, err)
	}
	if err := t.win.Redraw(h); err != nil {
		t.log.WithError(err).WithField("handle", h).Debug("Redraw after restore failed")
	}
	return nil
}
