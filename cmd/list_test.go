package cmd

import (
	"testing"

	"github.com/mj1618/pinit/internal/output"
	"github.com/mj1618/pinit/internal/platform/fake"
	"gopkg.in/yaml.v3"
)

func TestListCommand_Flags(t *testing.T) {
	flags := listCmd.Flags()

	tests := []struct {
		name     string
		flagType string
	}{
		{"process", "string"},
		{"title", "string"},
		{"topmost", "bool"},
		{"pinned", "bool"},
	}

	for _, tt := range tests {
		f := flags.Lookup(tt.name)
		if f == nil {
			t.Errorf("expected flag %q not found", tt.name)
			continue
		}
		if f.Value.Type() != tt.flagType {
			t.Errorf("flag %q: expected type %q, got %q", tt.name, tt.flagType, f.Value.Type())
		}
	}
}

func TestListCommand_IsRegistered(t *testing.T) {
	for _, c := range rootCmd.Commands() {
		if c.Name() == "list" {
			return
		}
	}
	t.Error("list command not registered on root")
}

func TestListCommand_FiltersWindows(t *testing.T) {
	win := fake.New()
	a := win.Open("notepad.exe", "todo.txt")
	win.Open("Code.exe", "main.go")
	win.OpenTool("notepad.exe", "find")
	win.ForceTopmost(a)

	out, err := captureStdout(t, func() error {
		return execute(t, win, "list", "--process", "NOTEPAD.EXE")
	})
	if err != nil {
		t.Fatal(err)
	}

	var got output.WindowList
	if err := yaml.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("bad yaml %q: %v", out, err)
	}
	if len(got.Windows) != 1 {
		t.Fatalf("expected 1 window, got %d: %s", len(got.Windows), out)
	}
	w := got.Windows[0]
	if w.Handle != a || w.Title != "todo.txt" || !w.Topmost || w.Pinned {
		t.Errorf("unexpected window %+v", w)
	}
	if w.Opacity != 100 {
		t.Errorf("opacity: expected 100, got %d", w.Opacity)
	}
	listCmd.Flags().Set("process", "")
}
