package cli

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/dhzdhd/curlr/internal/app"
	"github.com/dhzdhd/curlr/internal/core"
	"github.com/dhzdhd/curlr/internal/importer"
	httpclient "github.com/dhzdhd/curlr/internal/protocol/http"
	"github.com/dhzdhd/curlr/internal/tui/views"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// ErrNotTerminal is returned when the TUI is started without an interactive terminal.
var ErrNotTerminal = errors.New("curlr needs an interactive terminal; use 'curlr send' for scripts")

// configFlags holds the flags shared by every command. They override the
// CURLR_* environment only when set explicitly.
type configFlags struct {
	method          string
	tabs            []string
	timeout         time.Duration
	logFile         string
	logLevel        string
	allowInvalidURI bool
	requireJSONBody bool
	noRedirects     bool
}

func (f *configFlags) register(cmd *cobra.Command) {
	defaults := app.DefaultConfig()
	fs := cmd.PersistentFlags()
	fs.StringVar(&f.method, "method", defaults.Method, "HTTP method, or 'auto' for POST with a body and GET without")
	fs.StringSliceVar(&f.tabs, "tabs", defaults.Tabs, "Payload tabs in order (headers, body)")
	fs.DurationVar(&f.timeout, "timeout", defaults.Timeout, "Request timeout")
	fs.StringVar(&f.logFile, "log-file", "", "Write logs to this file")
	fs.StringVar(&f.logLevel, "log-level", defaults.LogLevel, "Log level (debug, info, warn, error)")
	fs.BoolVar(&f.allowInvalidURI, "allow-invalid-uri", false, "Submit even when the URI fails validation")
	fs.BoolVar(&f.requireJSONBody, "require-json-body", false, "Refuse to submit a body that is not valid JSON")
	fs.BoolVar(&f.noRedirects, "no-redirects", false, "Do not follow redirects")
}

// resolve loads the environment configuration and applies explicitly set flags.
func (f *configFlags) resolve(cmd *cobra.Command) (app.Config, error) {
	cfg, err := app.LoadConfig()
	if err != nil {
		return app.Config{}, err
	}

	changed := cmd.Flags().Changed
	if changed("method") {
		cfg.Method = f.method
	}
	if changed("tabs") {
		cfg.Tabs = f.tabs
	}
	if changed("timeout") {
		cfg.Timeout = f.timeout
	}
	if changed("log-file") {
		cfg.LogFile = f.logFile
	}
	if changed("log-level") {
		cfg.LogLevel = f.logLevel
	}
	if changed("allow-invalid-uri") {
		cfg.RequireValidURI = !f.allowInvalidURI
	}
	if changed("require-json-body") {
		cfg.RequireJSONBody = f.requireJSONBody
	}
	if changed("no-redirects") {
		cfg.FollowRedirects = !f.noRedirects
	}

	if err := cfg.Validate(); err != nil {
		return app.Config{}, err
	}
	return cfg, nil
}

// NewRootCommand creates the root command.
func NewRootCommand(version string) *cobra.Command {
	flags := &configFlags{}
	var uri, curlCmd string

	cmd := &cobra.Command{
		Use:   "curlr",
		Short: "curlr - a modal terminal request composer",
		Long: `curlr composes HTTP requests in the terminal.

Shift+Down / Shift+Up cycle between editing the URI, choosing a payload tab,
and editing the active payload. Ctrl+S sends, Ctrl+Y copies the request as a
curl command, Alt+Q quits.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := flags.resolve(cmd)
			if err != nil {
				return err
			}
			fields := core.Fields{}
			if curlCmd != "" {
				if fields, err = importCurl(cmd, &cfg, curlCmd); err != nil {
					return err
				}
			}
			if uri != "" {
				fields[core.SlotURI] = uri
			}
			return runTUI(cfg, fields)
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVar(&uri, "uri", "", "Initial URI")
	cmd.Flags().StringVar(&curlCmd, "curl", "", "Seed the fields from a curl command")

	// Add subcommands
	cmd.AddCommand(NewSendCommand(flags))

	return cmd
}

// importCurl reads a curl command into field contents. A method the command
// forces replaces the configured one unless --method was given.
func importCurl(cmd *cobra.Command, cfg *app.Config, command string) (core.Fields, error) {
	im, err := importer.ParseCurl(command)
	if err != nil {
		return nil, fmt.Errorf("reading --curl: %w", err)
	}
	if im.Method != "" && !cmd.Flags().Changed("method") {
		cfg.Method = im.Method
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
	}
	return im.Fields, nil
}

// newApp wires the HTTP client into an App for cfg.
func newApp(cfg app.Config, logger *slog.Logger) *app.App {
	opts := []httpclient.Option{
		httpclient.WithTimeout(cfg.Timeout),
		httpclient.WithLogger(logger),
	}
	if !cfg.FollowRedirects {
		opts = append(opts, httpclient.WithNoRedirects())
	}
	client := httpclient.NewClient(opts...)

	return app.New(
		app.WithConfig(cfg),
		app.WithLogger(logger),
		app.WithTransport(client, client.Schemes()...),
	)
}

// newAssembler builds the assembler for the configured method policy.
func newAssembler(cfg app.Config) (*core.Assembler, error) {
	policy, err := cfg.MethodPolicy()
	if err != nil {
		return nil, err
	}
	return core.NewAssembler(policy), nil
}

// newComposer builds the composer view for cfg with the fields seeded.
func newComposer(cfg app.Config, application *app.App, fields core.Fields) (*views.ComposerView, error) {
	slots, err := cfg.PayloadSlots()
	if err != nil {
		return nil, err
	}
	assembler, err := newAssembler(cfg)
	if err != nil {
		return nil, err
	}

	return views.NewComposerView(
		views.WithPayloadSlots(slots...),
		views.WithAssembler(assembler),
		views.WithSubmitter(application),
		views.WithLogger(application.Logger()),
		views.WithFields(fields),
	), nil
}

// tuiModel wraps the ComposerView for bubbletea
type tuiModel struct {
	view *views.ComposerView
}

func (m tuiModel) Init() tea.Cmd {
	return m.view.Init()
}

func (m tuiModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	updated, cmd := m.view.Update(msg)
	m.view = updated.(*views.ComposerView)
	return m, cmd
}

func (m tuiModel) View() string {
	return m.view.View()
}

// runTUI starts the TUI application
func runTUI(cfg app.Config, fields core.Fields) error {
	if !term.IsTerminal(int(os.Stdin.Fd())) || !term.IsTerminal(int(os.Stdout.Fd())) {
		return ErrNotTerminal
	}

	logger, closer, err := app.NewLogger(cfg)
	if err != nil {
		return err
	}
	defer closer.Close()

	view, err := newComposer(cfg, newApp(cfg, logger), fields)
	if err != nil {
		return err
	}

	logger.Info("starting", "tabs", cfg.Tabs, "method", cfg.Method)
	p := tea.NewProgram(tuiModel{view: view}, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running TUI: %w", err)
	}
	return nil
}
