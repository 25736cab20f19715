package cli

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
)

func TestRenderTable(t *testing.T) {
	s := NewStyles(DefaultTheme)
	out := s.RenderTable(Table{
		Title:   "stream",
		Headers: []string{"SEQ", "SIZE"},
		Rows: [][]string{
			{"0", "58"},
			{"1", "3.4 KiB"},
			{"2"},
		},
		Footer: "3 pages",
	})

	lines := strings.Split(out, "\n")
	// title, top, header, separator, 3 rows, bottom, footer
	if len(lines) != 9 {
		t.Fatalf("got %d lines:\n%s", len(lines), out)
	}
	width := lipgloss.Width(lines[1])
	for i, l := range lines[1:8] {
		if w := lipgloss.Width(l); w != width {
			t.Errorf("line %d width %d, want %d: %q", i+1, w, width, l)
		}
	}
	for _, want := range []string{"stream", "SEQ", "3.4 KiB", "3 pages"} {
		if !strings.Contains(out, want) {
			t.Errorf("table missing %q", want)
		}
	}
}

func TestRenderTableTruncate(t *testing.T) {
	s := NewStyles(DefaultTheme)
	out := s.RenderTable(Table{
		Headers:  []string{"COMMENT"},
		Rows:     [][]string{{"ENCODER=pcm_to_ogg_plugin"}},
		MaxWidth: 10,
	})
	if !strings.Contains(out, "ENCODER=p…") {
		t.Errorf("cell not truncated:\n%s", out)
	}
}

func TestRenderTableEmpty(t *testing.T) {
	if out := NewStyles(DefaultTheme).RenderTable(Table{}); !strings.Contains(out, "(empty)") {
		t.Errorf("empty table = %q", out)
	}
}

func TestKeyValues(t *testing.T) {
	tbl := KeyValues("summary", [2]string{"pages", "4"}, [2]string{"bytes", "5 KiB"})
	if len(tbl.Rows) != 2 || tbl.Rows[1][1] != "5 KiB" || tbl.Title != "summary" {
		t.Errorf("KeyValues = %+v", tbl)
	}
}

func TestTruncateString(t *testing.T) {
	tests := []struct {
		in    string
		width int
		want  string
	}{
		{"hello", 10, "hello"},
		{"hello", 3, "hel"},
		{"hello", 0, ""},
		{"你好世界", 4, "你好"},
	}
	for _, tt := range tests {
		if got := truncateString(tt.in, tt.width); got != tt.want {
			t.Errorf("truncateString(%q, %d) = %q, want %q", tt.in, tt.width, got, tt.want)
		}
	}
}
