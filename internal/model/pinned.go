package model

// OpaqueAlpha is the alpha value of a fully opaque window.
const OpaqueAlpha uint8 = 255

// PinnedWindow is the registry record for a window kept on top.
// Title and Process are captured at pin time and never refreshed.
type PinnedWindow struct {
	Handle          Handle `yaml:"handle"                     json:"handle"`
	Title           string `yaml:"title"                      json:"title"`
	Process         string `yaml:"process"                    json:"process"`
	Opacity         uint8  `yaml:"opacity"                    json:"opacity"`
	OriginalOpacity *uint8 `yaml:"original_opacity,omitempty" json:"original_opacity,omitempty"`
}
