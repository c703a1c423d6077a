// Package harness provides E2E testing utilities for curlr.
package harness

import (
	"net/http"
	"testing"
	"time"

	"github.com/dhzdhd/curlr/e2e/testserver"
)

// E2EHarness is the main test orchestrator.
type E2EHarness struct {
	server  *testserver.Server
	timeout time.Duration
}

// Config configures the harness.
type Config struct {
	ServerHandlers map[string]http.HandlerFunc
	Timeout        time.Duration // Default: 5 seconds
}

// New creates a new E2E harness.
func New(t *testing.T, cfg Config) *E2EHarness {
	t.Helper()

	if cfg.Timeout == 0 {
		cfg.Timeout = 5 * time.Second
	}

	h := &E2EHarness{
		timeout: cfg.Timeout,
	}

	if len(cfg.ServerHandlers) > 0 {
		h.server = testserver.New(cfg.ServerHandlers)
		t.Cleanup(h.server.Close)
	}

	return h
}

// ServerURL returns the test server URL.
func (h *E2EHarness) ServerURL() string {
	if h.server == nil {
		return ""
	}
	return h.server.URL
}

// Server returns the recording test server, or nil when no handlers were given.
func (h *E2EHarness) Server() *testserver.Server {
	return h.server
}

// Timeout bounds each CLI run and each request sent from a TUI session.
func (h *E2EHarness) Timeout() time.Duration {
	return h.timeout
}

// CLI returns a CLI runner for this harness.
func (h *E2EHarness) CLI() *CLIRunner {
	return &CLIRunner{harness: h}
}

// TUI returns a TUI runner for this harness.
func (h *E2EHarness) TUI() *TUIRunner {
	return &TUIRunner{harness: h}
}
