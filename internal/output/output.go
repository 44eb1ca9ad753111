package output

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/mj1618/pinit/internal/model"
	"gopkg.in/yaml.v3"
)

// Format represents the output format.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

// OutputFormat is the current output format, set by the root command's --format flag.
var OutputFormat Format = FormatYAML

// PrettyOutput enables pretty-printing for JSON output.
var PrettyOutput bool

// ParseFormat validates a --format value.
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case FormatYAML, FormatJSON:
		return Format(s), nil
	}
	return "", fmt.Errorf("unsupported output format: %s (use yaml or json)", s)
}

// WindowList is the output of the `list` command.
type WindowList struct {
	TS      int64          `yaml:"ts"      json:"ts"`
	Windows []model.Window `yaml:"windows" json:"windows"`
}

// PinnedList is the output of the `pinned` command.
type PinnedList struct {
	Count   int                  `yaml:"count"   json:"count"`
	Summary string               `yaml:"summary" json:"summary"`
	Pinned  []model.PinnedWindow `yaml:"pinned"  json:"pinned"`
}

// ActionResult reports the outcome of a command that changed a window.
type ActionResult struct {
	OK      bool         `yaml:"ok"                json:"ok"`
	Action  string       `yaml:"action"            json:"action"`
	Handle  model.Handle `yaml:"handle,omitempty"  json:"handle,omitempty"`
	Title   string       `yaml:"title,omitempty"   json:"title,omitempty"`
	Process string       `yaml:"process,omitempty" json:"process,omitempty"`
	Pinned  *bool        `yaml:"pinned,omitempty"  json:"pinned,omitempty"`
	Topmost *bool        `yaml:"topmost,omitempty" json:"topmost,omitempty"`
	Opacity int          `yaml:"opacity,omitempty" json:"opacity,omitempty"`
	Enabled *bool        `yaml:"enabled,omitempty" json:"enabled,omitempty"`
}

// Bool returns a pointer to b for the optional ActionResult fields.
func Bool(b bool) *bool {
	return &b
}

// Print serializes v to stdout in the current output format.
func Print(v interface{}) error {
	switch OutputFormat {
	case FormatJSON:
		if PrettyOutput {
			return PrintPrettyJSON(v)
		}
		return PrintJSON(v)
	case FormatYAML:
		return PrintYAML(v)
	default:
		return fmt.Errorf("unsupported output format: %s", OutputFormat)
	}
}

// PrintJSON serializes v to stdout as compact single-line JSON.
func PrintJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}

// PrintPrettyJSON serializes v to stdout as indented JSON.
func PrintPrettyJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}

// PrintYAML serializes v to stdout as YAML.
func PrintYAML(v interface{}) error {
	enc := yaml.NewEncoder(os.Stdout)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("yaml encode: %w", err)
	}
	return enc.Close()
}

// Marshal encodes v as YAML, for tool results that are returned as text.
func Marshal(v interface{}) (string, error) {
	data, err := yaml.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("yaml encode: %w", err)
	}
	return string(data), nil
}
