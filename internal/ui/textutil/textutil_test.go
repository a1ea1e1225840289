package textutil

import "testing"

func TestTruncate(t *testing.T) {
	tests := []struct {
		in    string
		width int
		want  string
	}{
		{"terminal", 20, "terminal"},
		{"terminal", 5, "term…"},
		{"terminal", 0, ""},
		{"日本語テキスト", 5, "日本…"},
	}
	for _, tt := range tests {
		if got := Truncate(tt.in, tt.width); got != tt.want {
			t.Errorf("Truncate(%q, %d): expected %q, got %q", tt.in, tt.width, tt.want, got)
		}
		if got := VisualWidth(Truncate(tt.in, tt.width)); got > tt.width {
			t.Errorf("Truncate(%q, %d): width %d exceeds limit", tt.in, tt.width, got)
		}
	}
}

func TestPadRightVisual(t *testing.T) {
	if got := PadRightVisual("ab", 4); got != "ab  " {
		t.Errorf("PadRightVisual(ab, 4): expected %q, got %q", "ab  ", got)
	}
	if got := PadRightVisual("abcdef", 4); got != "abc…" {
		t.Errorf("PadRightVisual(abcdef, 4): expected %q, got %q", "abc…", got)
	}
}
