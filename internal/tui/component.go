package tui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dhzdhd/curlr/internal/core"
	"github.com/mattn/go-runewidth"
)

// Component is the interface for all TUI components.
type Component interface {
	// Init initializes the component.
	Init() tea.Cmd

	// Update handles messages and returns the updated component.
	Update(msg tea.Msg) (Component, tea.Cmd)

	// View renders the component.
	View() string

	// Title returns the component title.
	Title() string

	// SetSize sets the component dimensions.
	SetSize(width, height int)

	// Width returns the component width.
	Width() int

	// Height returns the component height.
	Height() int
}

// Messages

// ResponseReceivedMsg is sent when a submitted request gets a response.
type ResponseReceivedMsg struct {
	Request  *core.Request
	Response *core.Response
}

// RequestErrorMsg is sent when a submit is rejected or the transport fails.
type RequestErrorMsg struct {
	Request *core.Request
	Error   error
}

// ClearNotificationMsg clears the status bar notification if it is still the
// one numbered Seq.
type ClearNotificationMsg struct {
	Seq int
}

// Colors shared by the composer widgets.
const (
	ColorActive   = lipgloss.Color("51")  // cyan
	ColorInactive = lipgloss.Color("255") // white
	ColorInvalid  = lipgloss.Color("196") // red
	ColorAccent   = lipgloss.Color("226") // yellow
	ColorLabel    = lipgloss.Color("46")  // green
	ColorSelected = lipgloss.Color("21")  // blue
)

// RenderBorder renders content inside a rounded border of the given color.
// width and height are the outer dimensions.
func RenderBorder(content string, width, height int, color lipgloss.Color) string {
	style := lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(color)

	if width > 2 {
		style = style.Width(width - 2)
	}
	if height > 2 {
		style = style.Height(height - 2)
	}

	return style.Render(content)
}

// Truncate truncates a string to fit within a number of terminal cells.
func Truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	if runewidth.StringWidth(s) <= width {
		return s
	}
	if width <= 3 {
		return runewidth.Truncate(s, width, "")
	}
	return runewidth.Truncate(s, width, "...")
}
