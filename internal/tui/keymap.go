package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/dhzdhd/curlr/internal/tui/focus"
)

// KeyMap centralizes all key bindings of the composer.
type KeyMap struct {
	NextMode  key.Binding
	PrevMode  key.Binding
	NextTab   key.Binding
	PrevTab   key.Binding
	Backspace key.Binding
	NewLine   key.Binding
	Submit    key.Binding
	Copy      key.Binding
	Quit      key.Binding
	ForceQuit key.Binding
}

// DefaultKeyMap returns the default bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		NextMode:  key.NewBinding(key.WithKeys("shift+down"), key.WithHelp("shift+↓", "next mode")),
		PrevMode:  key.NewBinding(key.WithKeys("shift+up"), key.WithHelp("shift+↑", "prev mode")),
		NextTab:   key.NewBinding(key.WithKeys("right"), key.WithHelp("→", "next tab")),
		PrevTab:   key.NewBinding(key.WithKeys("left"), key.WithHelp("←", "prev tab")),
		Backspace: key.NewBinding(key.WithKeys("backspace", "ctrl+h"), key.WithHelp("⌫", "delete")),
		NewLine:   key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "new line")),
		Submit:    key.NewBinding(key.WithKeys("ctrl+s"), key.WithHelp("ctrl+s", "send")),
		Copy:      key.NewBinding(key.WithKeys("ctrl+y"), key.WithHelp("ctrl+y", "copy as curl")),
		Quit:      key.NewBinding(key.WithKeys("alt+q"), key.WithHelp("alt+q", "quit")),
		ForceQuit: key.NewBinding(key.WithKeys("ctrl+c")),
	}
}

// HelpFor returns the bindings honoured in mode, in display order.
func (k KeyMap) HelpFor(mode focus.Mode) []key.Binding {
	var bindings []key.Binding
	switch mode {
	case focus.ModeNormal:
		bindings = append(bindings, k.PrevTab, k.NextTab)
	case focus.ModeURIEditing:
		bindings = append(bindings, k.Backspace)
	case focus.ModePayloadEditing:
		bindings = append(bindings, k.Backspace, k.NewLine)
	}
	return append(bindings, k.NextMode, k.PrevMode, k.Submit, k.Copy, k.Quit)
}

// IsText reports whether msg carries characters to insert. Alt combinations
// never count as text.
func IsText(msg tea.KeyMsg) bool {
	if msg.Alt {
		return false
	}
	return msg.Type == tea.KeyRunes || msg.Type == tea.KeySpace
}

// TextRunes returns the characters carried by a text key message.
func TextRunes(msg tea.KeyMsg) []rune {
	if msg.Type == tea.KeySpace {
		return []rune{' '}
	}
	return msg.Runes
}
