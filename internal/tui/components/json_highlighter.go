package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// LineHighlighter styles a single line of field content for display.
type LineHighlighter interface {
	HighlightLine(line string) string
}

// JSONHighlighter colours JSON tokens one line at a time. It never rejects
// input: anything it does not recognise is passed through unstyled, so a
// half-typed body still renders.
type JSONHighlighter struct {
	keyStyle     lipgloss.Style
	stringStyle  lipgloss.Style
	numberStyle  lipgloss.Style
	boolStyle    lipgloss.Style
	nullStyle    lipgloss.Style
	bracketStyle lipgloss.Style
	colonStyle   lipgloss.Style
}

// NewJSONHighlighter creates a new JSON highlighter with default styles.
func NewJSONHighlighter() *JSONHighlighter {
	return &JSONHighlighter{
		keyStyle:     lipgloss.NewStyle().Foreground(lipgloss.Color("141")), // Purple
		stringStyle:  lipgloss.NewStyle().Foreground(lipgloss.Color("34")),  // Green
		numberStyle:  lipgloss.NewStyle().Foreground(lipgloss.Color("214")), // Orange
		boolStyle:    lipgloss.NewStyle().Foreground(lipgloss.Color("33")),  // Blue
		nullStyle:    lipgloss.NewStyle().Foreground(lipgloss.Color("245")), // Gray
		bracketStyle: lipgloss.NewStyle().Foreground(lipgloss.Color("252")), // Light gray
		colonStyle:   lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
	}
}

// HighlightLine styles one line. Strings are scanned to the closing quote on
// the same line; an unterminated string runs to the end of the line.
func (h *JSONHighlighter) HighlightLine(line string) string {
	chars := []rune(line)
	var sb strings.Builder

	for i := 0; i < len(chars); {
		ch := chars[i]

		switch {
		case ch == '"':
			end := scanString(chars, i)
			str := string(chars[i:end])
			if isKey(chars, end) {
				sb.WriteString(h.keyStyle.Render(str))
			} else {
				sb.WriteString(h.stringStyle.Render(str))
			}
			i = end

		case ch == ':':
			sb.WriteString(h.colonStyle.Render(":"))
			i++

		case ch == '{' || ch == '}' || ch == '[' || ch == ']':
			sb.WriteString(h.bracketStyle.Render(string(ch)))
			i++

		case ch == '-' || (ch >= '0' && ch <= '9'):
			end := scanNumber(chars, i)
			if end == i+1 && ch == '-' {
				sb.WriteRune(ch)
			} else {
				sb.WriteString(h.numberStyle.Render(string(chars[i:end])))
			}
			i = end

		case isLetter(ch):
			end := scanWord(chars, i)
			word := string(chars[i:end])
			switch word {
			case "true", "false":
				sb.WriteString(h.boolStyle.Render(word))
			case "null":
				sb.WriteString(h.nullStyle.Render(word))
			default:
				sb.WriteString(word)
			}
			i = end

		default:
			sb.WriteRune(ch)
			i++
		}
	}

	return sb.String()
}

// scanString returns the index just past the string starting at start.
func scanString(chars []rune, start int) int {
	i := start + 1
	for i < len(chars) {
		switch chars[i] {
		case '\\':
			i += 2
			continue
		case '"':
			return i + 1
		}
		i++
	}
	return len(chars)
}

// isKey reports whether the next non-blank rune from i is a colon.
func isKey(chars []rune, i int) bool {
	for i < len(chars) && (chars[i] == ' ' || chars[i] == '\t') {
		i++
	}
	return i < len(chars) && chars[i] == ':'
}

func scanNumber(chars []rune, start int) int {
	i := start
	if chars[i] == '-' {
		i++
	}
	digits := func() {
		for i < len(chars) && chars[i] >= '0' && chars[i] <= '9' {
			i++
		}
	}
	digits()
	if i < len(chars) && chars[i] == '.' {
		i++
		digits()
	}
	if i < len(chars) && (chars[i] == 'e' || chars[i] == 'E') {
		i++
		if i < len(chars) && (chars[i] == '+' || chars[i] == '-') {
			i++
		}
		digits()
	}
	return i
}

func scanWord(chars []rune, start int) int {
	i := start
	for i < len(chars) && isLetter(chars[i]) {
		i++
	}
	return i
}

func isLetter(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}
