package http

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/dhzdhd/curlr/internal/core"
	"github.com/dhzdhd/curlr/internal/validate"
)

// Content types used when the headers do not name one.
const (
	ContentTypeJSON = "application/json"
	ContentTypeText = "text/plain; charset=utf-8"
)

// Client sends assembled requests over HTTP and HTTPS.
type Client struct {
	httpClient *http.Client
	config     Config
	logger     *slog.Logger
}

// Config holds HTTP client configuration.
type Config struct {
	Timeout        time.Duration
	FollowRedirect bool
}

// Option is a function that configures the Client.
type Option func(*Client)

// NewClient creates a new HTTP client with the given options.
func NewClient(opts ...Option) *Client {
	client := &Client{
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		config: Config{
			Timeout:        30 * time.Second,
			FollowRedirect: true,
		},
		logger: slog.New(slog.DiscardHandler),
	}

	for _, opt := range opts {
		opt(client)
	}

	return client
}

// WithTimeout sets the request timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.config.Timeout = timeout
		c.httpClient.Timeout = timeout
	}
}

// WithTransport sets a custom round tripper.
func WithTransport(transport http.RoundTripper) Option {
	return func(c *Client) {
		c.httpClient.Transport = transport
	}
}

// WithNoRedirects disables automatic redirect following.
func WithNoRedirects() Option {
	return func(c *Client) {
		c.config.FollowRedirect = false
		c.httpClient.CheckRedirect = func(req *http.Request, via []*http.Request) error {
			return http.ErrUseLastResponse
		}
	}
}

// WithLogger sets the logger used for request tracing.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// Config returns the client configuration.
func (c *Client) Config() Config {
	return c.config
}

// Schemes returns the URI schemes this client serves.
func (c *Client) Schemes() []string {
	return []string{"http", "https"}
}

// Send executes an HTTP request and returns the response.
func (c *Client) Send(ctx context.Context, req *core.Request) (*core.Response, error) {
	startTime := time.Now()

	httpReq, err := c.toHTTPRequest(ctx, req)
	if err != nil {
		return nil, err
	}

	c.logger.Debug("sending request",
		"id", req.ID(),
		"method", httpReq.Method,
		"uri", req.URI(),
	)

	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		c.logger.Warn("request failed", "id", req.ID(), "error", err)
		return nil, err
	}
	defer httpResp.Body.Close()

	bodyBytes, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}

	endTime := time.Now()
	resp := c.fromHTTPResponse(req, httpResp, bodyBytes, startTime, endTime)

	c.logger.Debug("received response",
		"id", req.ID(),
		"status", resp.StatusCode(),
		"bytes", resp.Size(),
		"elapsed", resp.Timing().Total,
	)

	return resp, nil
}

// toHTTPRequest converts a core.Request to an http.Request.
func (c *Client) toHTTPRequest(ctx context.Context, req *core.Request) (*http.Request, error) {
	headers, err := req.ParsedHeaders()
	if err != nil {
		return nil, err
	}

	var bodyReader io.Reader
	body, hasBody := req.Body()
	if hasBody {
		bodyReader = strings.NewReader(body)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method(), strings.TrimSpace(req.URI()), bodyReader)
	if err != nil {
		return nil, err
	}

	if hasBody && !headers.Has("Content-Type") {
		headers.Set("Content-Type", DefaultContentType(body))
	}

	for _, key := range headers.Keys() {
		for _, value := range headers.GetAll(key) {
			httpReq.Header.Add(key, value)
		}
	}

	return httpReq, nil
}

// DefaultContentType picks the Content-Type for a body sent without one.
func DefaultContentType(body string) string {
	if validate.JSON(body) {
		return ContentTypeJSON
	}
	return ContentTypeText
}

// fromHTTPResponse converts an http.Response to a core.Response.
func (c *Client) fromHTTPResponse(req *core.Request, httpResp *http.Response, bodyBytes []byte, startTime, endTime time.Time) *core.Response {
	status := core.NewStatus(httpResp.StatusCode, httpResp.Status)

	headers := core.NewHeaders()
	for key, values := range httpResp.Header {
		for _, value := range values {
			headers.Add(key, value)
		}
	}

	timing := core.TimingInfo{
		StartTime: startTime,
		EndTime:   endTime,
		Total:     endTime.Sub(startTime),
	}

	return core.NewResponse(req.ID(), status).
		WithHeaders(headers).
		WithBody(bodyBytes).
		WithTiming(timing)
}
