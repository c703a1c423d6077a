package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dhzdhd/curlr/internal/tui"
	"github.com/mattn/go-runewidth"
)

// TextField is an editable, line-structured text buffer with a title and a cursor.
// There is always at least one line.
type TextField struct {
	title       string
	lines       [][]rune
	row         int
	col         int
	highlighter LineHighlighter
}

// NewTextField creates an empty text field.
func NewTextField(title string) *TextField {
	return &TextField{
		title: title,
		lines: [][]rune{{}},
	}
}

// Title returns the field title.
func (f *TextField) Title() string {
	return f.title
}

// SetHighlighter styles lines other than the cursor line when rendering.
// A nil highlighter renders plain text.
func (f *TextField) SetHighlighter(h LineHighlighter) {
	f.highlighter = h
}

// InsertChar inserts r at the cursor and advances the cursor.
// A newline is treated as a line break.
func (f *TextField) InsertChar(r rune) {
	if r == '\n' {
		f.InsertLineBreak()
		return
	}

	line := f.lines[f.row]
	line = append(line, 0)
	copy(line[f.col+1:], line[f.col:])
	line[f.col] = r
	f.lines[f.row] = line
	f.col++
}

// DeleteBeforeCursor removes the character before the cursor. At the start of
// a line it joins the line onto the previous one; at the start of the buffer
// it does nothing.
func (f *TextField) DeleteBeforeCursor() {
	if f.col > 0 {
		line := f.lines[f.row]
		f.lines[f.row] = append(line[:f.col-1], line[f.col:]...)
		f.col--
		return
	}
	if f.row == 0 {
		return
	}

	prev := f.lines[f.row-1]
	f.col = len(prev)
	f.lines[f.row-1] = append(prev, f.lines[f.row]...)
	f.lines = append(f.lines[:f.row], f.lines[f.row+1:]...)
	f.row--
}

// InsertLineBreak splits the current line at the cursor.
func (f *TextField) InsertLineBreak() {
	line := f.lines[f.row]
	tail := make([]rune, len(line)-f.col)
	copy(tail, line[f.col:])
	f.lines[f.row] = line[:f.col:f.col]

	f.lines = append(f.lines, nil)
	copy(f.lines[f.row+2:], f.lines[f.row+1:])
	f.lines[f.row+1] = tail

	f.row++
	f.col = 0
}

// SetText replaces the content and puts the cursor at the end.
func (f *TextField) SetText(text string) {
	parts := strings.Split(text, "\n")
	f.lines = make([][]rune, len(parts))
	for i, p := range parts {
		f.lines[i] = []rune(p)
	}
	f.row = len(f.lines) - 1
	f.col = len(f.lines[f.row])
}

// Lines returns the content line by line.
func (f *TextField) Lines() []string {
	out := make([]string, len(f.lines))
	for i, l := range f.lines {
		out[i] = string(l)
	}
	return out
}

// Text returns the content with lines joined by newlines.
func (f *TextField) Text() string {
	return strings.Join(f.Lines(), "\n")
}

// IsEmpty reports whether the field holds no characters.
func (f *TextField) IsEmpty() bool {
	return len(f.lines) == 1 && len(f.lines[0]) == 0
}

// Cursor returns the cursor row and column, counted in runes.
func (f *TextField) Cursor() (row, col int) {
	return f.row, f.col
}

var cursorStyle = lipgloss.NewStyle().Reverse(true)

// Render draws the field in a bordered box of the given outer size. The title
// takes the first inner line. The view scrolls to keep the cursor visible.
func (f *TextField) Render(width, height int, border lipgloss.Color, showCursor bool) string {
	innerW := width - 2
	if innerW < 1 {
		innerW = 1
	}
	visible := height - 3 // border + title
	if visible < 1 {
		visible = 1
	}

	start := 0
	if f.row >= visible {
		start = f.row - visible + 1
	}

	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(border)
	out := []string{titleStyle.Render(tui.Truncate(f.title, innerW))}
	for i := start; i < len(f.lines) && i < start+visible; i++ {
		if showCursor && i == f.row {
			out = append(out, f.renderCursorLine(innerW))
			continue
		}
		line := runewidth.Truncate(string(f.lines[i]), innerW, "")
		if f.highlighter != nil {
			line = f.highlighter.HighlightLine(line)
		}
		out = append(out, line)
	}

	return tui.RenderBorder(strings.Join(out, "\n"), width, height, border)
}

// renderCursorLine renders the cursor row, dropping leading cells when the
// cursor would fall past the right edge.
func (f *TextField) renderCursorLine(width int) string {
	line := f.lines[f.row]
	before := line[:f.col]
	for len(before) > 0 && runewidth.StringWidth(string(before))+1 > width {
		before = before[1:]
	}

	under := " "
	var after string
	if f.col < len(line) {
		under = string(line[f.col])
		after = string(line[f.col+1:])
	}

	used := runewidth.StringWidth(string(before)) + runewidth.StringWidth(under)
	after = runewidth.Truncate(after, width-used, "")
	return string(before) + cursorStyle.Render(under) + after
}
