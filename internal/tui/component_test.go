package tui

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
)

func TestTruncate(t *testing.T) {
	t.Run("keeps short strings", func(t *testing.T) {
		assert.Equal(t, "hello", Truncate("hello", 10))
	})

	t.Run("adds ellipsis when cut", func(t *testing.T) {
		assert.Equal(t, "hello...", Truncate("hello world", 8))
	})

	t.Run("cuts without ellipsis when very narrow", func(t *testing.T) {
		assert.Equal(t, "hel", Truncate("hello", 3))
	})

	t.Run("returns empty for non-positive width", func(t *testing.T) {
		assert.Equal(t, "", Truncate("hello", 0))
	})

	t.Run("counts wide runes as two cells", func(t *testing.T) {
		assert.Equal(t, "日...", Truncate("日本語", 5))
	})
}

func TestRenderBorder(t *testing.T) {
	t.Run("wraps content in a border of the outer size", func(t *testing.T) {
		out := RenderBorder("hi", 10, 4, ColorActive)
		lines := strings.Split(out, "\n")
		assert.Len(t, lines, 4)
		assert.Equal(t, 10, lipgloss.Width(lines[0]))
		assert.Contains(t, out, "hi")
	})
}
