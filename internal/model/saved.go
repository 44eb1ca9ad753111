package model

// SavedPin is the durable form of a pin. Handles do not survive a restart,
// so only the matching hints and the opacity are kept.
type SavedPin struct {
	Process string `toml:"process_name" yaml:"process_name" json:"process_name"`
	Title   string `toml:"title"        yaml:"title"        json:"title"`
	Opacity uint8  `toml:"opacity"      yaml:"opacity"      json:"opacity"`
}

// Shortcuts holds the user-configurable hotkey strings.
type Shortcuts struct {
	TogglePin   string `toml:"toggle_pin"   yaml:"toggle_pin"   json:"toggle_pin"`
	OpacityUp   string `toml:"opacity_up"   yaml:"opacity_up"   json:"opacity_up"`
	OpacityDown string `toml:"opacity_down" yaml:"opacity_down" json:"opacity_down"`
}

// Settings is the non-pin part of the persisted document.
type Settings struct {
	SoundEnabled      bool      `toml:"sound_enabled"        yaml:"sound_enabled"        json:"sound_enabled"`
	HasSeenTrayNotice bool      `toml:"has_seen_tray_notice" yaml:"has_seen_tray_notice" json:"has_seen_tray_notice"`
	Shortcuts         Shortcuts `toml:"shortcuts"            yaml:"shortcuts"            json:"shortcuts"`
}

// SavedState is the whole persisted document.
type SavedState struct {
	Pins     map[string]SavedPin `toml:"pins"     yaml:"pins"     json:"pins"`
	Settings Settings            `toml:"settings" yaml:"settings" json:"settings"`
}

// DefaultShortcuts returns the shipped hotkey set.
func DefaultShortcuts() Shortcuts {
	return Shortcuts{
		TogglePin:   "Win+Ctrl+T",
		OpacityUp:   "Win+Ctrl+=",
		OpacityDown: "Win+Ctrl+-",
	}
}

// DefaultSettings returns the settings used when nothing is persisted.
func DefaultSettings() Settings {
	return Settings{
		SoundEnabled: true,
		Shortcuts:    DefaultShortcuts(),
	}
}

// NewSavedState returns an empty document with default settings.
func NewSavedState() SavedState {
	return SavedState{
		Pins:     make(map[string]SavedPin),
		Settings: DefaultSettings(),
	}
}

// Normalize fills zero-valued parts of a decoded document with defaults.
func (s *SavedState) Normalize() {
	if s.Pins == nil {
		s.Pins = make(map[string]SavedPin)
	}
	def := DefaultShortcuts()
	if s.Settings.Shortcuts.TogglePin == "" {
		s.Settings.Shortcuts.TogglePin = def.TogglePin
	}
	if s.Settings.Shortcuts.OpacityUp == "" {
		s.Settings.Shortcuts.OpacityUp = def.OpacityUp
	}
	if s.Settings.Shortcuts.OpacityDown == "" {
		s.Settings.Shortcuts.OpacityDown = def.OpacityDown
	}
}
