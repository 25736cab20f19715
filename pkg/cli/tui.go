package cli

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Theme defines the color scheme for terminal output.
type Theme struct {
	Primary lipgloss.Color // Main accent color
	Dim     lipgloss.Color // Dimmed/help text color
}

// DefaultTheme is the default bright green theme.
var DefaultTheme = Theme{
	Primary: lipgloss.Color("#00ff9f"),
	Dim:     lipgloss.Color("#6e7681"),
}

// Styles holds all styles derived from a theme.
type Styles struct {
	Title  lipgloss.Style
	Label  lipgloss.Style
	Border lipgloss.Style
	Help   lipgloss.Style
}

// NewStyles creates styles from a theme.
func NewStyles(t Theme) Styles {
	return Styles{
		Title:  lipgloss.NewStyle().Bold(true).Foreground(t.Primary).Padding(0, 1),
		Label:  lipgloss.NewStyle().Bold(true).Foreground(t.Primary),
		Border: lipgloss.NewStyle().Foreground(t.Primary),
		Help:   lipgloss.NewStyle().Foreground(t.Dim),
	}
}

// Table is tabular output with an optional title and footer.
type Table struct {
	Title   string
	Headers []string
	Rows    [][]string
	Footer  string

	// MaxWidth truncates cells wider than this (0 for no limit).
	MaxWidth int
}

// Tabler is implemented by results that can render as a table.
type Tabler interface {
	Table() Table
}

// KeyValues builds a two-column table from ordered pairs.
func KeyValues(title string, pairs ...[2]string) Table {
	t := Table{Title: title, Headers: []string{"FIELD", "VALUE"}}
	for _, p := range pairs {
		t.Rows = append(t.Rows, []string{p[0], p[1]})
	}
	return t
}

// RenderTable renders t with box borders.
func (s Styles) RenderTable(t Table) string {
	cols := len(t.Headers)
	for _, row := range t.Rows {
		cols = max(cols, len(row))
	}
	if cols == 0 {
		return s.Help.Render("(empty)")
	}

	cell := func(row []string, i int) string {
		if i >= len(row) {
			return ""
		}
		text := row[i]
		if t.MaxWidth > 1 && lipgloss.Width(text) > t.MaxWidth {
			text = truncateString(text, t.MaxWidth-1) + "…"
		}
		return text
	}

	widths := make([]int, cols)
	for i := range cols {
		widths[i] = lipgloss.Width(cell(t.Headers, i))
		for _, row := range t.Rows {
			widths[i] = max(widths[i], lipgloss.Width(cell(row, i)))
		}
	}

	bc := s.Border
	rule := func(left, mid, right string) string {
		parts := make([]string, cols)
		for i, w := range widths {
			parts[i] = strings.Repeat("─", w+2)
		}
		return bc.Render(left + strings.Join(parts, mid) + right)
	}
	line := func(row []string, style *lipgloss.Style) string {
		var b strings.Builder
		b.WriteString(bc.Render("│"))
		for i, w := range widths {
			text := cell(row, i)
			pad := strings.Repeat(" ", max(0, w-lipgloss.Width(text)))
			if style != nil {
				text = style.Render(text)
			}
			b.WriteString(" " + text + pad + " ")
			b.WriteString(bc.Render("│"))
		}
		return b.String()
	}

	var lines []string
	if t.Title != "" {
		lines = append(lines, s.Title.Render(t.Title))
	}
	lines = append(lines, rule("╭", "┬", "╮"))
	if len(t.Headers) > 0 {
		lines = append(lines, line(t.Headers, &s.Label))
		lines = append(lines, rule("├", "┼", "┤"))
	}
	for _, row := range t.Rows {
		lines = append(lines, line(row, nil))
	}
	lines = append(lines, rule("╰", "┴", "╯"))
	if t.Footer != "" {
		lines = append(lines, s.Help.Render(t.Footer))
	}
	return strings.Join(lines, "\n")
}

// truncateString safely truncates a string to the given width,
// handling multi-byte characters correctly.
func truncateString(s string, width int) string {
	if width <= 0 {
		return ""
	}
	runes := []rune(s)
	currentWidth := 0
	for i, r := range runes {
		w := lipgloss.Width(string(r))
		if currentWidth+w > width {
			return string(runes[:i])
		}
		currentWidth += w
	}
	return s
}
