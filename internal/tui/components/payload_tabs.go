package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dhzdhd/curlr/internal/core"
	"github.com/dhzdhd/curlr/internal/tui"
)

// PayloadTabs tracks the active payload tab. The tab list is fixed at construction.
type PayloadTabs struct {
	slots []core.Slot
	index int
}

// NewPayloadTabs creates tabs over slots in the given order. With no slots the
// default Headers, Body order is used.
func NewPayloadTabs(slots ...core.Slot) *PayloadTabs {
	if len(slots) == 0 {
		slots = core.PayloadSlots
	}
	owned := make([]core.Slot, len(slots))
	copy(owned, slots)
	return &PayloadTabs{slots: owned}
}

// Next activates the following tab, wrapping to the first.
func (t *PayloadTabs) Next() {
	t.index = (t.index + 1) % len(t.slots)
}

// Previous activates the preceding tab, wrapping to the last.
func (t *PayloadTabs) Previous() {
	t.index = (t.index - 1 + len(t.slots)) % len(t.slots)
}

// Active returns the slot of the active tab.
func (t *PayloadTabs) Active() core.Slot {
	return t.slots[t.index]
}

// Index returns the position of the active tab.
func (t *PayloadTabs) Index() int {
	return t.index
}

// Len returns the number of tabs.
func (t *PayloadTabs) Len() int {
	return len(t.slots)
}

// Slots returns the tab slots in order.
func (t *PayloadTabs) Slots() []core.Slot {
	out := make([]core.Slot, len(t.slots))
	copy(out, t.slots)
	return out
}

// Names returns the tab titles in order.
func (t *PayloadTabs) Names() []string {
	names := make([]string, len(t.slots))
	for i, s := range t.slots {
		names[i] = s.Title()
	}
	return names
}

// Render draws the tab bar in a bordered box of the given outer width.
func (t *PayloadTabs) Render(width int, border lipgloss.Color) string {
	first := lipgloss.NewStyle().Foreground(tui.ColorAccent)
	rest := lipgloss.NewStyle().Foreground(tui.ColorLabel)
	selected := lipgloss.NewStyle().Bold(true).Background(tui.ColorSelected)

	var tabs []string
	for i, name := range t.Names() {
		label := first.Render(name[:1]) + rest.Render(name[1:])
		if i == t.index {
			label = selected.Render(name[:1]) + selected.Inherit(rest).Render(name[1:])
		}
		tabs = append(tabs, " "+label+" ")
	}

	sep := lipgloss.NewStyle().Foreground(border).Render("│")
	return tui.RenderBorder(strings.Join(tabs, sep), width, 3, border)
}
