package cli_test

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/dhzdhd/curlr/e2e/harness"
	"github.com/dhzdhd/curlr/e2e/testserver"
	"github.com/dhzdhd/curlr/internal/app"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCLI_SendCommand(t *testing.T) {
	handlers := testserver.Handlers{}

	h := harness.New(t, harness.Config{
		ServerHandlers: map[string]http.HandlerFunc{
			"/api/users": handlers.JSON(200, map[string]interface{}{
				"message": "Hello from server",
				"users":   []string{"alice", "bob"},
			}),
			"/api/error": handlers.Error(500, "Internal Server Error"),
			"/api/created": handlers.JSON(201, map[string]string{
				"id": "123",
			}),
			"/api/echo": handlers.Echo(),
			"/api/slow": handlers.Delayed(500*time.Millisecond, 200, "late"),
			"/api/text": handlers.Text(200, "plain hello"),
			"/api/gone": handlers.Status(204),
			"/api/cached": handlers.Headers(200, map[string]string{
				"Cache-Control": "no-store",
				"X-Rate-Limit":  "10",
			}),
		},
		Timeout: 5 * time.Second,
	})

	t.Run("GET request returns 200", func(t *testing.T) {
		result, err := h.CLI().Send(h.ServerURL() + "/api/users")
		require.NoError(t, err)

		assert := harness.NewAssertions(t)
		assert.StatusCode(result.Stdout, 200)
		assert.OutputContains(result.Stdout, "Hello from server")
		assert.NoError(result.Stdout)
	})

	t.Run("JSON output mode", func(t *testing.T) {
		result, err := h.CLI().Send(h.ServerURL()+"/api/users", "--format", "json")
		require.NoError(t, err)

		var out map[string]any
		require.NoError(t, json.Unmarshal([]byte(result.Stdout), &out))
		assert.Equal(t, float64(200), out["status"])
		assert.Contains(t, out["body"], "alice")
	})

	t.Run("body makes the request a POST", func(t *testing.T) {
		result, err := h.CLI().SendWithBody(h.ServerURL()+"/api/created", `{"name":"carol"}`)
		require.NoError(t, err)
		harness.NewAssertions(t).StatusCode(result.Stdout, 201)

		last := h.Server().LastRequest()
		require.NotNil(t, last)
		assert.Equal(t, "POST", last.Method)
		assert.Equal(t, `{"name":"carol"}`, string(last.Body))
		assert.Equal(t, "application/json", last.Headers.Get("Content-Type"))
	})

	t.Run("plain text body", func(t *testing.T) {
		_, err := h.CLI().SendWithBody(h.ServerURL()+"/api/echo", "hello", "X-Mode: text")
		require.NoError(t, err)

		last := h.Server().LastRequest()
		require.NotNil(t, last)
		assert.Equal(t, "hello", string(last.Body))
		assert.Equal(t, "text", last.Headers.Get("X-Mode"))
		assert.Contains(t, last.Headers.Get("Content-Type"), "text/plain")
	})

	t.Run("headers are sent", func(t *testing.T) {
		_, err := h.CLI().SendWithHeaders(h.ServerURL()+"/api/echo",
			"Authorization: Bearer abc", "X-Request-Id: 42")
		require.NoError(t, err)

		last := h.Server().LastRequest()
		require.NotNil(t, last)
		assert.Equal(t, "GET", last.Method)
		assert.Equal(t, "Bearer abc", last.Headers.Get("Authorization"))
		assert.Equal(t, "42", last.Headers.Get("X-Request-Id"))
	})

	t.Run("fixed method overrides auto", func(t *testing.T) {
		_, err := h.CLI().Send(h.ServerURL()+"/api/echo", "--method", "PUT")
		require.NoError(t, err)
		assert.Equal(t, "PUT", h.Server().LastRequest().Method)
	})

	t.Run("plain text response", func(t *testing.T) {
		result, err := h.CLI().Send(h.ServerURL() + "/api/text")
		require.NoError(t, err)
		harness.NewAssertions(t).OutputContains(result.Stdout,
			"HTTP 200 OK", "Content-Type: text/plain", "Body:\nplain hello")
	})

	t.Run("empty response prints no body", func(t *testing.T) {
		result, err := h.CLI().Send(h.ServerURL() + "/api/gone")
		require.NoError(t, err)

		assert := harness.NewAssertions(t)
		assert.StatusCode(result.Stdout, 204)
		assert.OutputNotContains(result.Stdout, "Body:")
	})

	t.Run("response headers are listed", func(t *testing.T) {
		result, err := h.CLI().Send(h.ServerURL() + "/api/cached")
		require.NoError(t, err)
		harness.NewAssertions(t).OutputContains(result.Stdout,
			"Headers:", "  Cache-Control: no-store", "  X-Rate-Limit: 10")
	})

	t.Run("each send is one request", func(t *testing.T) {
		h.Server().ClearRequests()

		_, err := h.CLI().Send(h.ServerURL() + "/api/echo")
		require.NoError(t, err)
		_, err = h.CLI().SendWithBody(h.ServerURL()+"/api/echo", "x")
		require.NoError(t, err)

		requests := h.Server().Requests()
		require.Len(t, requests, 2)
		assert.Equal(t, "GET", requests[0].Method)
		assert.Equal(t, "POST", requests[1].Method)
		assert.Equal(t, "x", string(requests[1].Body))
	})

	t.Run("server error is still a response", func(t *testing.T) {
		result, err := h.CLI().Send(h.ServerURL() + "/api/error")
		require.NoError(t, err)
		harness.NewAssertions(t).StatusCode(result.Stdout, 500)
	})

	t.Run("timeout is a transport error", func(t *testing.T) {
		result, err := h.CLI().Send(h.ServerURL()+"/api/slow", "--timeout", "50ms")
		require.Error(t, err)
		assert.Equal(t, 1, result.ExitCode)

		var tErr *app.TransportError
		assert.ErrorAs(t, err, &tErr)
	})

	t.Run("invalid header is rejected before sending", func(t *testing.T) {
		before := h.Server().RequestCount()
		_, err := h.CLI().SendWithHeaders(h.ServerURL()+"/api/echo", "no colon here")

		var vErr *app.ValidationError
		require.ErrorAs(t, err, &vErr)
		assert.Equal(t, before, h.Server().RequestCount())
	})
}

func TestCLI_DryRun(t *testing.T) {
	h := harness.New(t, harness.Config{})

	t.Run("curl output", func(t *testing.T) {
		result, err := h.CLI().DryRun("https://api.example.com/users", "", "-d", `{"a":1}`, "-H", "Accept: application/json")
		require.NoError(t, err)
		assert.Equal(t,
			"curl -X POST -H 'Accept: application/json' -H 'Content-Type: application/json' --data-raw '{\"a\":1}' https://api.example.com/users\n",
			result.Stdout)
	})

	t.Run("json document", func(t *testing.T) {
		result, err := h.CLI().DryRun("https://api.example.com/users", "json")
		require.NoError(t, err)

		var doc map[string]any
		require.NoError(t, json.Unmarshal([]byte(result.Stdout), &doc))
		assert.Equal(t, "GET", doc["method"])
		assert.Equal(t, "https://api.example.com/users", doc["uri"])
	})

	t.Run("invalid URI fails without network", func(t *testing.T) {
		_, err := h.CLI().DryRun("notaurl", "")
		var vErr *app.ValidationError
		assert.ErrorAs(t, err, &vErr)
	})

	t.Run("invalid URI allowed by flag", func(t *testing.T) {
		result, err := h.CLI().DryRun("notaurl", "", "--allow-invalid-uri")
		require.NoError(t, err)
		assert.Equal(t, "curl notaurl\n", result.Stdout)
	})
}

func TestCLI_DryRunDoesNotSend(t *testing.T) {
	handlers := testserver.Handlers{}
	h := harness.New(t, harness.Config{
		ServerHandlers: map[string]http.HandlerFunc{
			"/api/echo": handlers.Echo(),
		},
	})

	for _, format := range []string{"", "json", "yaml", "postman"} {
		t.Run("format "+format, func(t *testing.T) {
			h.Server().ClearRequests()

			result, err := h.CLI().DryRun(h.ServerURL()+"/api/echo", format, "-d", "hi")
			require.NoError(t, err)

			assert.Empty(t, h.Server().Requests())
			harness.NewAssertions(t).OutputNotContains(result.Stdout, "HTTP ", "Headers:", "Body:")
		})
	}

	t.Run("pretty curl", func(t *testing.T) {
		result, err := h.CLI().DryRun(h.ServerURL()+"/api/echo", "curl", "--pretty")
		require.NoError(t, err)
		assert.Equal(t, "curl \\\n  "+h.ServerURL()+"/api/echo\n", result.Stdout)
		assert.Zero(t, h.Server().RequestCount())
	})
}
