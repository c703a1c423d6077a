package harness

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/dhzdhd/curlr/internal/app"
	"github.com/dhzdhd/curlr/internal/core"
	httpclient "github.com/dhzdhd/curlr/internal/protocol/http"
	"github.com/dhzdhd/curlr/internal/tui/focus"
	"github.com/dhzdhd/curlr/internal/tui/views"
)

// TUIRunner provides TUI testing capabilities.
type TUIRunner struct {
	harness *E2EHarness
}

// TUISession drives a ComposerView directly, without a running program.
type TUISession struct {
	runner    *TUIRunner
	model     *views.ComposerView
	t         *testing.T
	clipboard []string
	quit      bool
}

// Start starts a new TUI session wired to a real HTTP client.
func (r *TUIRunner) Start(t *testing.T, opts ...views.ComposerOption) *TUISession {
	return r.StartWithSize(t, 120, 40, opts...)
}

// StartWithSize starts a TUI session with custom dimensions.
func (r *TUIRunner) StartWithSize(t *testing.T, width, height int, opts ...views.ComposerOption) *TUISession {
	t.Helper()

	client := httpclient.NewClient(httpclient.WithTimeout(r.harness.Timeout()))
	application := app.New(app.WithTransport(client, client.Schemes()...))

	s := &TUISession{runner: r, t: t}
	base := []views.ComposerOption{
		views.WithSubmitter(application),
		views.WithClipboard(func(text string) error {
			s.clipboard = append(s.clipboard, text)
			return nil
		}),
	}
	s.model = views.NewComposerView(append(base, opts...)...)
	s.model.SetSize(width, height)
	return s
}

// SendKey sends a key press. Only the submit and quit commands are run:
// the copy command is a timer that would only clear the notification.
func (s *TUISession) SendKey(key string) *TUISession {
	s.t.Helper()

	updated, cmd := s.model.Update(parseKeyMsg(key))
	s.model = updated.(*views.ComposerView)
	if cmd == nil {
		return s
	}

	switch strings.ToLower(key) {
	case "ctrl+s":
		s.deliver(cmd())
	case "alt+q", "ctrl+c":
		if _, ok := cmd().(tea.QuitMsg); ok {
			s.quit = true
		}
	}
	return s
}

func (s *TUISession) deliver(msg tea.Msg) {
	if msg == nil {
		return
	}
	updated, _ := s.model.Update(msg)
	s.model = updated.(*views.ComposerView)
}

// SendKeys sends multiple key presses.
func (s *TUISession) SendKeys(keys ...string) *TUISession {
	for _, key := range keys {
		s.SendKey(key)
	}
	return s
}

// Type sends a sequence of rune keys.
func (s *TUISession) Type(text string) *TUISession {
	for _, r := range text {
		updated, _ := s.model.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
		s.model = updated.(*views.ComposerView)
	}
	return s
}

// Paste delivers text as a single bracketed paste.
func (s *TUISession) Paste(text string) *TUISession {
	updated, _ := s.model.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(text), Paste: true})
	s.model = updated.(*views.ComposerView)
	return s
}

// GoTo presses Shift+Down until the session is in mode.
func (s *TUISession) GoTo(mode focus.Mode) *TUISession {
	for i := 0; i < 3 && s.model.Mode() != mode; i++ {
		s.SendKey("shift+down")
	}
	return s
}

// Output returns the current TUI output.
func (s *TUISession) Output() string {
	return s.model.View()
}

// Model returns the underlying ComposerView for direct assertions.
func (s *TUISession) Model() *views.ComposerView {
	return s.model
}

// Text returns the content of a field.
func (s *TUISession) Text(slot core.Slot) string {
	return s.model.Text(slot)
}

// Clipboard returns everything copied during the session, oldest first.
func (s *TUISession) Clipboard() []string {
	return s.clipboard
}

// Quitted reports whether a quit key ended the session.
func (s *TUISession) Quitted() bool {
	return s.quit
}

// parseKeyMsg converts key string to tea.KeyMsg.
func parseKeyMsg(key string) tea.KeyMsg {
	switch strings.ToLower(key) {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc", "escape":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "ctrl+c":
		return tea.KeyMsg{Type: tea.KeyCtrlC}
	case "ctrl+s":
		return tea.KeyMsg{Type: tea.KeyCtrlS}
	case "ctrl+y":
		return tea.KeyMsg{Type: tea.KeyCtrlY}
	case "alt+q":
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}, Alt: true}
	case "shift+down":
		return tea.KeyMsg{Type: tea.KeyShiftDown}
	case "shift+up":
		return tea.KeyMsg{Type: tea.KeyShiftUp}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "left":
		return tea.KeyMsg{Type: tea.KeyLeft}
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	case "backspace":
		return tea.KeyMsg{Type: tea.KeyBackspace}
	case "space":
		return tea.KeyMsg{Type: tea.KeySpace}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(key)}
	}
}
