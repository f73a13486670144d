package tui

import "testing"

func TestParsePaletteEntry(t *testing.T) {
	tests := []struct {
		input    string
		wantName string
		wantHex  string
		wantOK   bool
	}{
		{"rose #FCA5A5", "rose", "#FCA5A5", true},
		{"pale blue #BFDBFE", "pale blue", "#BFDBFE", true},
		{"rose", "", "", false},
		{"rose FCA5A5", "", "", false},
		{" #FCA5A5", "", "", false},
	}

	for _, tt := range tests {
		name, hex, ok := parsePaletteEntry(tt.input)
		if name != tt.wantName || hex != tt.wantHex || ok != tt.wantOK {
			t.Errorf("parsePaletteEntry(%q) = %q, %q, %v; want %q, %q, %v",
				tt.input, name, hex, ok, tt.wantName, tt.wantHex, tt.wantOK)
		}
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("short", 10); got != "short" {
		t.Errorf("truncate() = %q, want unchanged", got)
	}
	if got := truncate("a very long task description", 10); got != "a very ..." {
		t.Errorf("truncate() = %q", got)
	}
}
