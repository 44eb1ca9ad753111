// Package hotkey parses shortcut strings and keeps the global hotkey
// registrations in sync with the configured shortcuts.
package hotkey

import (
	"fmt"
	"strconv"
	"strings"
)

// Modifier bits, as understood by RegisterHotKey.
const (
	ModAlt   uint32 = 0x1
	ModCtrl  uint32 = 0x2
	ModShift uint32 = 0x4
	ModWin   uint32 = 0x8
)

// Virtual key codes for the non-alphanumeric keys we accept.
const (
	keyTab   uint32 = 0x09
	keyEnter uint32 = 0x0D
	keySpace uint32 = 0x20
	keyPlus  uint32 = 0xBB
	keyMinus uint32 = 0xBD
	keyF1    uint32 = 0x70
)

// Trigger is a parsed key combination.
type Trigger struct {
	Mods uint32
	Key  uint32
}

var modifierNames = map[string]uint32{
	"win":     ModWin,
	"super":   ModWin,
	"meta":    ModWin,
	"ctrl":    ModCtrl,
	"control": ModCtrl,
	"alt":     ModAlt,
	"shift":   ModShift,
}

var namedKeys = map[string]uint32{
	"=":     keyPlus,
	"plus":  keyPlus,
	"-":     keyMinus,
	"minus": keyMinus,
	"space": keySpace,
	"tab":   keyTab,
	"enter": keyEnter,
}

// Parse reads a shortcut such as "Win+Ctrl+T". Modifier and key names are
// case-insensitive. At least one modifier and exactly one key are required.
func Parse(s string) (Trigger, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Trigger{}, fmt.Errorf("empty shortcut")
	}

	// "Ctrl++" names the plus key.
	var parts []string
	if strings.HasSuffix(s, "++") {
		parts = append(strings.Split(strings.TrimSuffix(s, "++"), "+"), "plus")
	} else {
		parts = strings.Split(s, "+")
	}

	var t Trigger
	haveKey := false
	for _, raw := range parts {
		part := strings.ToLower(strings.TrimSpace(raw))
		if part == "" {
			return Trigger{}, fmt.Errorf("shortcut %q has an empty part", s)
		}
		if mod, ok := modifierNames[part]; ok {
			t.Mods |= mod
			continue
		}
		key, ok := keyCode(part)
		if !ok {
			return Trigger{}, fmt.Errorf("shortcut %q: unknown key %q", s, raw)
		}
		if haveKey {
			return Trigger{}, fmt.Errorf("shortcut %q has more than one key", s)
		}
		t.Key, haveKey = key, true
	}

	if !haveKey {
		return Trigger{}, fmt.Errorf("shortcut %q has no key", s)
	}
	if t.Mods == 0 {
		return Trigger{}, fmt.Errorf("shortcut %q needs at least one modifier", s)
	}
	return t, nil
}

func keyCode(name string) (uint32, bool) {
	if k, ok := namedKeys[name]; ok {
		return k, true
	}
	if len(name) == 1 {
		c := name[0]
		switch {
		case c >= 'a' && c <= 'z':
			return uint32(c - 'a' + 'A'), true
		case c >= '0' && c <= '9':
			return uint32(c), true
		}
	}
	if name[0] == 'f' {
		n, err := strconv.Atoi(name[1:])
		if err == nil && n >= 1 && n <= 24 {
			return keyF1 + uint32(n-1), true
		}
	}
	return 0, false
}

func keyName(k uint32) string {
	switch {
	case k >= 'A' && k <= 'Z', k >= '0' && k <= '9':
		return string(rune(k))
	case k >= keyF1 && k < keyF1+24:
		return "F" + strconv.Itoa(int(k-keyF1+1))
	}
	switch k {
	case keyPlus:
		return "="
	case keyMinus:
		return "-"
	case keySpace:
		return "Space"
	case keyTab:
		return "Tab"
	case keyEnter:
		return "Enter"
	}
	return fmt.Sprintf("0x%02X", k)
}

// String returns the canonical form, e.g. "Win+Ctrl+T".
func (t Trigger) String() string {
	var parts []string
	if t.Mods&ModWin != 0 {
		parts = append(parts, "Win")
	}
	if t.Mods&ModCtrl != 0 {
		parts = append(parts, "Ctrl")
	}
	if t.Mods&ModAlt != 0 {
		parts = append(parts, "Alt")
	}
	if t.Mods&ModShift != 0 {
		parts = append(parts, "Shift")
	}
	return strings.Join(append(parts, keyName(t.Key)), "+")
}
