package hotkey

import "testing"

func TestParse(t *testing.T) {
	tests := []struct {
		in   string
		want Trigger
		str  string
	}{
		{"Win+Ctrl+T", Trigger{ModWin | ModCtrl, 'T'}, "Win+Ctrl+T"},
		{"ctrl+win+t", Trigger{ModWin | ModCtrl, 'T'}, "Win+Ctrl+T"},
		{"Super + Control + =", Trigger{ModWin | ModCtrl, keyPlus}, "Win+Ctrl+="},
		{"Win+Ctrl+-", Trigger{ModWin | ModCtrl, keyMinus}, "Win+Ctrl+-"},
		{"Ctrl++", Trigger{ModCtrl, keyPlus}, "Ctrl+="},
		{"Alt+Shift+Minus", Trigger{ModAlt | ModShift, keyMinus}, "Alt+Shift+-"},
		{"Meta+F12", Trigger{ModWin, keyF1 + 11}, "Win+F12"},
		{"Alt+f1", Trigger{ModAlt, keyF1}, "Alt+F1"},
		{"Shift+7", Trigger{ModShift, '7'}, "Shift+7"},
		{"Ctrl+Space", Trigger{ModCtrl, keySpace}, "Ctrl+Space"},
		{"Ctrl+Enter", Trigger{ModCtrl, keyEnter}, "Ctrl+Enter"},
		{"Alt+Tab", Trigger{ModAlt, keyTab}, "Alt+Tab"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := Parse(tt.in)
			if err != nil {
				t.Fatalf("Parse(%q) error: %v", tt.in, err)
			}
			if got != tt.want {
				t.Errorf("Parse(%q) = %+v, want %+v", tt.in, got, tt.want)
			}
			if got.String() != tt.str {
				t.Errorf("String() = %q, want %q", got.String(), tt.str)
			}
		})
	}
}

func TestParse_Errors(t *testing.T) {
	for _, in := range []string{
		"",
		"T",
		"Win+Ctrl",
		"Win+Ctrl+T+Y",
		"Win++T",
		"Hyper+T",
		"Ctrl+F25",
		"Ctrl+F0",
		"Ctrl+Esc",
	} {
		if _, err := Parse(in); err == nil {
			t.Errorf("Parse(%q) expected error", in)
		}
	}
}

func TestParse_StringRoundTrip(t *testing.T) {
	for _, in := range []string{"Win+Ctrl+T", "Win+Ctrl+=", "Win+Ctrl+-", "Ctrl+Alt+Shift+F24"} {
		first, err := Parse(in)
		if err != nil {
			t.Fatalf("Parse(%q): %v", in, err)
		}
		second, err := Parse(first.String())
		if err != nil {
			t.Fatalf("Parse(%q): %v", first.String(), err)
		}
		if first != second {
			t.Errorf("round trip of %q changed %+v to %+v", in, first, second)
		}
	}
}
