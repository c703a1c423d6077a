package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"

	"github.com/dhzdhd/curlr/internal/core"
	"github.com/dhzdhd/curlr/internal/validate"
)

// ErrNoTransport is returned when no transport serves the request's URI scheme.
var ErrNoTransport = errors.New("no transport for scheme")

// Transport sends an assembled request and returns the response.
type Transport interface {
	Send(ctx context.Context, req *core.Request) (*core.Response, error)
}

// ValidationError reports field content rejected by the submit policy.
type ValidationError struct {
	Slot   core.Slot
	Reason string
	Err    error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Slot, e.Reason)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// TransportError wraps a failure returned by a transport.
type TransportError struct {
	Scheme string
	Err    error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s: %v", e.Scheme, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// App is the main application container with dependency injection.
type App struct {
	config     Config
	transports map[string]Transport
	logger     *slog.Logger
}

// Option is a function that configures the App.
type Option func(*App)

// New creates a new App with the given options.
func New(opts ...Option) *App {
	app := &App{
		config:     DefaultConfig(),
		transports: make(map[string]Transport),
		logger:     slog.New(slog.DiscardHandler),
	}

	for _, opt := range opts {
		opt(app)
	}

	return app
}

// WithTransport registers a transport for each of the given URI schemes.
func WithTransport(t Transport, schemes ...string) Option {
	return func(a *App) {
		for _, s := range schemes {
			a.transports[s] = t
		}
	}
}

// WithConfig sets the application configuration.
func WithConfig(cfg Config) Option {
	return func(a *App) {
		a.config = cfg
	}
}

// WithLogger sets the application logger.
func WithLogger(logger *slog.Logger) Option {
	return func(a *App) {
		if logger != nil {
			a.logger = logger
		}
	}
}

// Config returns the application configuration.
func (a *App) Config() Config {
	return a.config
}

// Logger returns the application logger.
func (a *App) Logger() *slog.Logger {
	return a.logger
}

// Transport returns the transport registered for scheme.
func (a *App) Transport(scheme string) (Transport, bool) {
	t, ok := a.transports[scheme]
	return t, ok
}

// Schemes returns all registered scheme names, sorted.
func (a *App) Schemes() []string {
	schemes := make([]string, 0, len(a.transports))
	for s := range a.transports {
		schemes = append(schemes, s)
	}
	sort.Strings(schemes)
	return schemes
}

// Check applies the submit policy to req. Header text that cannot be parsed
// is always rejected.
func (a *App) Check(req *core.Request) error {
	if a.config.RequireValidURI && !validate.URI(req.URI()) {
		return &ValidationError{Slot: core.SlotURI, Reason: "expected an http, https or ftp URI"}
	}

	if _, err := req.ParsedHeaders(); err != nil {
		return &ValidationError{Slot: core.SlotHeaders, Reason: err.Error(), Err: err}
	}

	if body, ok := req.Body(); ok && a.config.RequireJSONBody {
		if err := validate.JSONError(body); err != nil {
			return &ValidationError{Slot: core.SlotBody, Reason: "not valid JSON: " + err.Error(), Err: err}
		}
	}

	return nil
}

// Submit checks req against the policy and sends it with the transport for its
// URI scheme, bounded by the configured timeout.
func (a *App) Submit(ctx context.Context, req *core.Request) (*core.Response, error) {
	log := a.logger.With("id", req.ID(), "method", req.Method(), "uri", req.URI())

	if err := a.Check(req); err != nil {
		log.Warn("request rejected", "error", err)
		return nil, err
	}

	scheme := req.Scheme()
	transport, ok := a.transports[scheme]
	if !ok {
		err := fmt.Errorf("%w: %q", ErrNoTransport, scheme)
		log.Warn("request rejected", "error", err)
		return nil, err
	}

	if a.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.config.Timeout)
		defer cancel()
	}

	log.Info("submitting request")
	resp, err := transport.Send(ctx, req)
	if err != nil {
		log.Warn("transport failed", "error", err)
		return nil, &TransportError{Scheme: scheme, Err: err}
	}

	log.Info("response received", "status", resp.StatusCode(), "bytes", resp.Size())
	return resp, nil
}
