package persist

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/mj1618/pinit/internal/logging"
	"github.com/mj1618/pinit/internal/model"
	"github.com/mj1618/pinit/internal/pin"
	"github.com/mj1618/pinit/internal/platform"
	"github.com/sirupsen/logrus"
)

// Reconciler converts between the registry and the durable pin list.
type Reconciler struct {
	win     platform.Windows
	engine  *pin.Engine
	opacity *pin.Transparency
	log     *logrus.Entry
}

func NewReconciler(win platform.Windows, engine *pin.Engine, opacity *pin.Transparency) *Reconciler {
	return &Reconciler{
		win:     win,
		engine:  engine,
		opacity: opacity,
		log:     logging.NewLogger("persist"),
	}
}

// Match records which window a saved pin was re-attached to.
type Match struct {
	Key    string       `yaml:"key" json:"key"`
	Handle model.Handle `yaml:"handle" json:"handle"`
	Title  string       `yaml:"title" json:"title"`
	Exact  bool         `yaml:"exact" json:"exact"`
}

// Report summarises a Restore pass.
type Report struct {
	Restored  []Match  `yaml:"restored" json:"restored"`
	Unmatched []string `yaml:"unmatched,omitempty" json:"unmatched,omitempty"`
	Failed    []string `yaml:"failed,omitempty" json:"failed,omitempty"`
}

// Key returns the saved-pin key for the n-th (1-based) pinned window of a
// process.
func Key(process string, n int) string {
	return process + "#" + strconv.Itoa(n)
}

// Snapshot projects the registry into a saved document. Settings are taken
// from prev; its pins are replaced.
func (r *Reconciler) Snapshot(prev model.SavedState) model.SavedState {
	out := model.SavedState{
		Pins:     make(map[string]model.SavedPin),
		Settings: prev.Settings,
	}

	seq := make(map[string]int)
	for _, rec := range r.engine.Registry().All() {
		seq[rec.Process]++
		out.Pins[Key(rec.Process, seq[rec.Process])] = model.SavedPin{
			Process: rec.Process,
			Title:   rec.Title,
			Opacity: rec.Opacity,
		}
	}
	out.Normalize()
	return out
}

type candidate struct {
	handle  model.Handle
	title   string
	claimed bool
}

type pending struct {
	key   string
	saved model.SavedPin
	match *candidate
	exact bool
}

// Restore re-pins the saved windows it can find among the open ones.
// Each saved pin first looks for a window of the same process with an
// identical title; pins left over then take the first unclaimed window of
// their process. No window is claimed twice. Pins whose application is not
// running are dropped.
func (r *Reconciler) Restore(saved model.SavedState) (Report, error) {
	var report Report
	if len(saved.Pins) == 0 {
		return report, nil
	}

	windows, err := r.win.List()
	if err != nil {
		return report, fmt.Errorf("enumerate windows: %w", err)
	}

	byProcess := make(map[string][]*candidate)
	for _, w := range windows {
		name := strings.ToLower(w.Process)
		byProcess[name] = append(byProcess[name], &candidate{handle: w.Handle, title: w.Title})
	}

	work := make([]*pending, 0, len(saved.Pins))
	for _, key := range sortedKeys(saved.Pins) {
		work = append(work, &pending{key: key, saved: saved.Pins[key]})
	}

	for _, p := range work {
		for _, c := range byProcess[strings.ToLower(p.saved.Process)] {
			if !c.claimed && c.title == p.saved.Title {
				c.claimed = true
				p.match, p.exact = c, true
				break
			}
		}
	}
	for _, p := range work {
		if p.match != nil {
			continue
		}
		for _, c := range byProcess[strings.ToLower(p.saved.Process)] {
			if !c.claimed {
				c.claimed = true
				p.match = c
				break
			}
		}
	}

	for _, p := range work {
		if p.match == nil {
			report.Unmatched = append(report.Unmatched, p.key)
			continue
		}
		h := p.match.handle
		if _, err := r.engine.Pin(h); err != nil {
			r.log.WithError(err).WithFields(logrus.Fields{"key": p.key, "handle": h}).Warn("Failed to restore pin")
			report.Failed = append(report.Failed, p.key)
			continue
		}
		if p.saved.Opacity != 0 && p.saved.Opacity != model.OpaqueAlpha {
			if _, err := r.opacity.SetOpacity(h, pin.AlphaToPercent(p.saved.Opacity)); err != nil {
				r.log.WithError(err).WithField("handle", h).Warn("Failed to restore opacity")
			}
		}
		report.Restored = append(report.Restored, Match{Key: p.key, Handle: h, Title: p.match.title, Exact: p.exact})
	}

	r.log.WithFields(logrus.Fields{
		"restored":  len(report.Restored),
		"unmatched": len(report.Unmatched),
		"failed":    len(report.Failed),
	}).Info("Restored saved pins")
	return report, nil
}

// sortedKeys orders keys by process, then by sequence number, so that
// "app.exe#2" precedes "app.exe#10".
func sortedKeys(pins map[string]model.SavedPin) []string {
	keys := make([]string, 0, len(pins))
	for k := range pins {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		pi, ni := splitKey(keys[i])
		pj, nj := splitKey(keys[j])
		if pi != pj {
			return pi < pj
		}
		if ni != nj {
			return ni < nj
		}
		return keys[i] < keys[j]
	})
	return keys
}

func splitKey(key string) (string, int) {
	i := strings.LastIndexByte(key, '#')
	if i < 0 {
		return key, 0
	}
	n, err := strconv.Atoi(key[i+1:])
	if err != nil {
		return key, 0
	}
	return key[:i], n
}
