package views

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dhzdhd/curlr/internal/core"
	"github.com/dhzdhd/curlr/internal/exporter"
	"github.com/dhzdhd/curlr/internal/tui"
	"github.com/dhzdhd/curlr/internal/tui/components"
	"github.com/dhzdhd/curlr/internal/tui/focus"
	"github.com/dhzdhd/curlr/internal/validate"
)

// Submitter sends an assembled request and returns its response.
type Submitter interface {
	Submit(ctx context.Context, req *core.Request) (*core.Response, error)
}

const (
	uriBoxHeight = 4
	tabBarHeight = 3
	barsHeight   = 2
	copyNotice   = 2 * time.Second
)

// ComposerView is the request composer: a URI field, a tab bar and the active
// payload field. Every key press is routed by the current focus mode.
type ComposerView struct {
	focus     *focus.Controller
	tabs      *components.PayloadTabs
	fields    map[core.Slot]*components.TextField
	keys      tui.KeyMap
	help      help.Model
	assembler *core.Assembler
	submitter Submitter
	curl      exporter.Exporter
	copy      func(string) error
	logger    *slog.Logger

	seed         core.Fields
	notification string
	notifySeq    int
	sending      bool
	width        int
	height       int
}

// ComposerOption configures a ComposerView.
type ComposerOption func(*ComposerView)

// WithPayloadSlots sets the payload tabs in display order.
func WithPayloadSlots(slots ...core.Slot) ComposerOption {
	return func(v *ComposerView) {
		v.tabs = components.NewPayloadTabs(slots...)
	}
}

// WithAssembler sets the request assembler.
func WithAssembler(a *core.Assembler) ComposerOption {
	return func(v *ComposerView) {
		v.assembler = a
	}
}

// WithSubmitter sets where Ctrl+S sends the assembled request.
func WithSubmitter(s Submitter) ComposerOption {
	return func(v *ComposerView) {
		v.submitter = s
	}
}

// WithClipboard replaces the system clipboard writer.
func WithClipboard(write func(string) error) ComposerOption {
	return func(v *ComposerView) {
		v.copy = write
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) ComposerOption {
	return func(v *ComposerView) {
		if logger != nil {
			v.logger = logger
		}
	}
}

// WithURI seeds the URI field.
func WithURI(uri string) ComposerOption {
	return WithFields(core.Fields{core.SlotURI: uri})
}

// WithFields seeds field contents. Later options win per slot.
func WithFields(fields core.Fields) ComposerOption {
	return func(v *ComposerView) {
		if v.seed == nil {
			v.seed = core.Fields{}
		}
		for slot, text := range fields {
			v.seed[slot] = text
		}
	}
}

// NewComposerView creates a composer in URI editing mode with the Headers tab active.
func NewComposerView(opts ...ComposerOption) *ComposerView {
	v := &ComposerView{
		focus:     focus.NewController(),
		tabs:      components.NewPayloadTabs(),
		keys:      tui.DefaultKeyMap(),
		help:      help.New(),
		assembler: core.NewAssembler(core.MethodAuto),
		curl:      exporter.NewCurlExporter(),
		copy:      clipboard.WriteAll,
		logger:    slog.New(slog.DiscardHandler),
	}

	for _, opt := range opts {
		opt(v)
	}

	v.fields = map[core.Slot]*components.TextField{
		core.SlotURI: components.NewTextField(core.SlotURI.Title()),
	}
	for _, slot := range v.tabs.Slots() {
		v.fields[slot] = components.NewTextField(slot.Title())
	}
	if body, ok := v.fields[core.SlotBody]; ok {
		body.SetHighlighter(components.NewJSONHighlighter())
	}
	for slot, text := range v.seed {
		f, ok := v.fields[slot]
		if !ok {
			v.logger.Warn("no tab for seeded field", "slot", slot)
			continue
		}
		f.SetText(text)
	}

	return v
}

// Init initializes the view.
func (v *ComposerView) Init() tea.Cmd {
	return nil
}

// Update handles messages.
func (v *ComposerView) Update(msg tea.Msg) (tui.Component, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetSize(msg.Width, msg.Height)
		return v, nil

	case tea.KeyMsg:
		return v.handleKeyMsg(msg)

	case tui.ResponseReceivedMsg:
		v.sending = false
		v.notify(formatResponse(msg.Response))
		return v, nil

	case tui.RequestErrorMsg:
		v.sending = false
		v.notify("✗ " + msg.Error.Error())
		return v, nil

	case tui.ClearNotificationMsg:
		if msg.Seq == v.notifySeq {
			v.notification = ""
		}
		return v, nil
	}

	return v, nil
}

func (v *ComposerView) handleKeyMsg(msg tea.KeyMsg) (tui.Component, tea.Cmd) {
	switch {
	case key.Matches(msg, v.keys.Quit, v.keys.ForceQuit):
		return v, tea.Quit
	case key.Matches(msg, v.keys.NextMode):
		v.focus.Advance()
		v.logger.Debug("mode changed", "from", v.focus.Previous(), "to", v.focus.Current())
		return v, nil
	case key.Matches(msg, v.keys.PrevMode):
		v.focus.Retreat()
		v.logger.Debug("mode changed", "from", v.focus.Previous(), "to", v.focus.Current())
		return v, nil
	case key.Matches(msg, v.keys.Submit):
		return v, v.submit()
	case key.Matches(msg, v.keys.Copy):
		return v, v.copyAsCurl()
	}

	if v.focus.Is(focus.ModeNormal) {
		switch {
		case key.Matches(msg, v.keys.NextTab):
			v.tabs.Next()
			v.logger.Debug("tab changed", "tab", v.tabs.Active())
		case key.Matches(msg, v.keys.PrevTab):
			v.tabs.Previous()
			v.logger.Debug("tab changed", "tab", v.tabs.Active())
		}
		return v, nil
	}

	slot, ok := targetSlot(v.focus.Current(), v.tabs.Active())
	if !ok {
		return v, nil
	}
	field := v.fields[slot]

	switch {
	case tui.IsText(msg):
		for _, r := range tui.TextRunes(msg) {
			switch r {
			case '\r':
			case '\n':
				if slot.IsPayload() {
					field.InsertLineBreak()
				}
			default:
				field.InsertChar(r)
			}
		}
	case key.Matches(msg, v.keys.Backspace):
		field.DeleteBeforeCursor()
	case key.Matches(msg, v.keys.NewLine):
		if slot.IsPayload() {
			field.InsertLineBreak()
		}
	}

	return v, nil
}

// targetSlot returns the field that receives text in mode. Normal mode edits nothing.
func targetSlot(mode focus.Mode, active core.Slot) (core.Slot, bool) {
	switch mode {
	case focus.ModeURIEditing:
		return core.SlotURI, true
	case focus.ModePayloadEditing:
		return active, true
	}
	return 0, false
}

// Text returns the content of the field for slot, or "" when there is none.
func (v *ComposerView) Text(slot core.Slot) string {
	if f, ok := v.fields[slot]; ok {
		return f.Text()
	}
	return ""
}

// Assemble builds a request from the current field contents.
func (v *ComposerView) Assemble() *core.Request {
	return v.assembler.Assemble(v)
}

func (v *ComposerView) submit() tea.Cmd {
	if v.sending {
		return nil
	}
	req := v.Assemble()
	if v.submitter == nil {
		v.notify("✗ no transport configured")
		return nil
	}

	v.sending = true
	v.notify(fmt.Sprintf("… %s %s", req.Method(), req.URI()))

	submitter := v.submitter
	return func() tea.Msg {
		resp, err := submitter.Submit(context.Background(), req)
		if err != nil {
			return tui.RequestErrorMsg{Request: req, Error: err}
		}
		return tui.ResponseReceivedMsg{Request: req, Response: resp}
	}
}

func (v *ComposerView) copyAsCurl() tea.Cmd {
	out, err := v.curl.Export(context.Background(), v.Assemble())
	if err == nil {
		err = v.copy(string(out))
	}
	if err != nil {
		v.logger.Warn("copy failed", "error", err)
		v.notify("✗ Copy failed: " + err.Error())
	} else {
		v.notify("✓ Copied curl command")
	}

	seq := v.notifySeq
	return tea.Tick(copyNotice, func(t time.Time) tea.Msg {
		return tui.ClearNotificationMsg{Seq: seq}
	})
}

func (v *ComposerView) notify(text string) {
	v.notifySeq++
	v.notification = text
}

func formatResponse(resp *core.Response) string {
	status := resp.Status()
	text := status.Text()
	code := strconv.Itoa(status.Code())
	if !strings.HasPrefix(text, code) {
		text = strings.TrimSpace(code + " " + text)
	}

	mark := "✓"
	if status.IsError() {
		mark = "✗"
	}

	return fmt.Sprintf("%s %s · %s · %dms", mark, text, formatSize(resp.Size()), resp.Timing().Total.Milliseconds())
}

func formatSize(n int) string {
	if n > 1024 {
		return fmt.Sprintf("%.1fKB", float64(n)/1024)
	}
	return fmt.Sprintf("%dB", n)
}

// View renders the view.
func (v *ComposerView) View() string {
	if v.width == 0 || v.height == 0 {
		return ""
	}

	mode := v.focus.Current()
	uri := v.fields[core.SlotURI]
	payload := v.fields[v.tabs.Active()]

	uriColor := tui.ColorInactive
	if mode == focus.ModeURIEditing {
		uriColor = tui.ColorActive
		if !uri.IsEmpty() && !validate.URI(uri.Text()) {
			uriColor = tui.ColorInvalid
		}
	}

	tabColor := tui.ColorInactive
	if mode == focus.ModeNormal {
		tabColor = tui.ColorActive
	}

	payloadColor := tui.ColorInactive
	if mode == focus.ModePayloadEditing {
		payloadColor = tui.ColorActive
		if !payloadValid(v.tabs.Active(), payload.Text()) {
			payloadColor = tui.ColorInvalid
		}
	}

	payloadHeight := v.height - uriBoxHeight - tabBarHeight - barsHeight
	if payloadHeight < 3 {
		payloadHeight = 3
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		uri.Render(v.width, uriBoxHeight, uriColor, mode == focus.ModeURIEditing),
		v.tabs.Render(v.width, tabColor),
		payload.Render(v.width, payloadHeight, payloadColor, mode == focus.ModePayloadEditing),
		v.renderHelpBar(),
		v.renderStatusBar(),
	)
}

// payloadValid reports whether text is acceptable for slot. A body must be
// JSON; headers may be a JSON object or "Name: value" lines.
func payloadValid(slot core.Slot, text string) bool {
	if strings.TrimSpace(text) == "" {
		return true
	}
	if slot == core.SlotHeaders {
		_, err := core.ParseHeaders(text)
		return err == nil
	}
	return validate.JSON(text)
}

func (v *ComposerView) renderHelpBar() string {
	v.help.Width = v.width - 2
	barStyle := lipgloss.NewStyle().
		Width(v.width).
		Background(lipgloss.Color("235")).
		Padding(0, 1)

	return barStyle.Render(v.help.ShortHelpView(v.keys.HelpFor(v.focus.Current())))
}

func (v *ComposerView) renderStatusBar() string {
	var items []string

	modeStyle := lipgloss.NewStyle().
		Bold(true).
		Padding(0, 1)
	if v.focus.Current().IsEditing() {
		modeStyle = modeStyle.
			Background(lipgloss.Color("214")).
			Foreground(lipgloss.Color("0"))
	} else {
		modeStyle = modeStyle.
			Background(lipgloss.Color("34")).
			Foreground(lipgloss.Color("255"))
	}
	items = append(items, modeStyle.Render(v.focus.Current().String()))

	methodStyle := lipgloss.NewStyle().
		Background(lipgloss.Color("62")).
		Foreground(lipgloss.Color("229")).
		Padding(0, 1).
		Bold(true)
	items = append(items, methodStyle.Render(v.PreviewMethod()))

	tabStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("252")).
		Padding(0, 1)
	items = append(items, tabStyle.Render(v.tabs.Active().Title()))

	if v.notification != "" {
		notifyStyle := lipgloss.NewStyle().
			Foreground(lipgloss.Color("34")).
			Bold(true).
			Padding(0, 1)
		if strings.HasPrefix(v.notification, "✗") {
			notifyStyle = notifyStyle.Foreground(lipgloss.Color("160"))
		}
		items = append(items, notifyStyle.Render(v.notification))
	}

	barStyle := lipgloss.NewStyle().
		Width(v.width).
		MaxWidth(v.width).
		Background(lipgloss.Color("236"))

	return barStyle.Render(strings.Join(items, " "))
}

// PreviewMethod returns the method Ctrl+S would send with right now.
func (v *ComposerView) PreviewMethod() string {
	hasBody := v.Text(core.SlotBody) != ""
	return v.assembler.Policy().Resolve(hasBody)
}

// Title returns the view title.
func (v *ComposerView) Title() string {
	return "curlr"
}

// SetSize sets the view dimensions.
func (v *ComposerView) SetSize(width, height int) {
	v.width = width
	v.height = height
}

func (v *ComposerView) Width() int {
	return v.width
}

func (v *ComposerView) Height() int {
	return v.height
}

// Mode returns the current focus mode.
func (v *ComposerView) Mode() focus.Mode {
	return v.focus.Current()
}

// Tabs returns the payload tabs.
func (v *ComposerView) Tabs() *components.PayloadTabs {
	return v.tabs
}

// Field returns the text field for slot.
func (v *ComposerView) Field(slot core.Slot) (*components.TextField, bool) {
	f, ok := v.fields[slot]
	return f, ok
}

// Notification returns the current notification message.
func (v *ComposerView) Notification() string {
	return v.notification
}

// Sending reports whether a submit is in flight.
func (v *ComposerView) Sending() bool {
	return v.sending
}

var _ tui.Component = (*ComposerView)(nil)
var _ core.FieldReader = (*ComposerView)(nil)
