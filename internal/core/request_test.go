package core

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRequest(t *testing.T) {
	t.Run("creates request with all parts", func(t *testing.T) {
		req := NewRequest("POST", "https://api.example.com/users", "Accept: */*", `{"a":1}`)
		assert.NotEmpty(t, req.ID())
		assert.Equal(t, "POST", req.Method())
		assert.Equal(t, "https://api.example.com/users", req.URI())

		headers, ok := req.Headers()
		assert.True(t, ok)
		assert.Equal(t, "Accept: */*", headers)

		body, ok := req.Body()
		assert.True(t, ok)
		assert.Equal(t, `{"a":1}`, body)
	})

	t.Run("empty headers and body are absent", func(t *testing.T) {
		req := NewRequest("GET", "https://example.com", "", "")
		_, ok := req.Headers()
		assert.False(t, ok)
		_, ok = req.Body()
		assert.False(t, ok)
		assert.False(t, req.HasBody())
	})

	t.Run("whitespace-only body is present", func(t *testing.T) {
		req := NewRequest("GET", "https://example.com", " ", "\n ")
		body, ok := req.Body()
		assert.True(t, ok)
		assert.Equal(t, "\n ", body)

		headers, ok := req.Headers()
		assert.True(t, ok)
		assert.Equal(t, " ", headers)

		parsed, err := req.ParsedHeaders()
		require.NoError(t, err)
		assert.Equal(t, 0, parsed.Len())
	})

	t.Run("generates unique IDs", func(t *testing.T) {
		req1 := NewRequest("GET", "https://example.com", "", "")
		req2 := NewRequest("GET", "https://example.com", "", "")
		assert.NotEqual(t, req1.ID(), req2.ID())
	})
}

func TestRequest_Scheme(t *testing.T) {
	tests := []struct {
		uri  string
		want string
	}{
		{"http://a", "http"},
		{"HTTPS://example.com", "https"},
		{"ftp://host/path", "ftp"},
		{"notaurl", ""},
		{"://nothing", ""},
		{" http://x", "http"},
		{"\tHTTPS://x ", "https"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.uri, func(t *testing.T) {
			req := NewRequest("GET", tt.uri, "", "")
			assert.Equal(t, tt.want, req.Scheme())
		})
	}
}

func TestParseHeaders(t *testing.T) {
	t.Run("empty text yields no headers", func(t *testing.T) {
		h, err := ParseHeaders("  \n ")
		require.NoError(t, err)
		assert.Equal(t, 0, h.Len())
	})

	t.Run("parses name value lines", func(t *testing.T) {
		h, err := ParseHeaders("Content-Type: application/json\n\nAuthorization: Bearer abc")
		require.NoError(t, err)
		assert.Equal(t, []string{"Content-Type", "Authorization"}, h.Keys())
		assert.Equal(t, "application/json", h.Get("content-type"))
		assert.Equal(t, "Bearer abc", h.Get("Authorization"))
	})

	t.Run("keeps colons in values", func(t *testing.T) {
		h, err := ParseHeaders("X-Url: http://example.com:8080")
		require.NoError(t, err)
		assert.Equal(t, "http://example.com:8080", h.Get("X-Url"))
	})

	t.Run("repeated lines add values", func(t *testing.T) {
		h, err := ParseHeaders("Accept: a\nAccept: b")
		require.NoError(t, err)
		assert.Equal(t, []string{"a", "b"}, h.GetAll("accept"))
	})

	t.Run("parses JSON object in sorted key order", func(t *testing.T) {
		h, err := ParseHeaders(`{"X-Retry": 3, "Accept": "text/plain", "X-Debug": true}`)
		require.NoError(t, err)
		assert.Equal(t, []string{"Accept", "X-Debug", "X-Retry"}, h.Keys())
		assert.Equal(t, "3", h.Get("X-Retry"))
		assert.Equal(t, "true", h.Get("X-Debug"))
	})

	t.Run("rejects nested JSON values", func(t *testing.T) {
		_, err := ParseHeaders(`{"X-Obj": {"a": 1}}`)
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrInvalidHeader))
	})

	t.Run("rejects malformed JSON", func(t *testing.T) {
		_, err := ParseHeaders(`{"Accept": }`)
		assert.ErrorIs(t, err, ErrInvalidHeader)
	})

	t.Run("rejects line without colon", func(t *testing.T) {
		_, err := ParseHeaders("Accept application/json")
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrInvalidHeader)
		assert.Contains(t, err.Error(), "line 1")
	})

	t.Run("rejects invalid header name", func(t *testing.T) {
		_, err := ParseHeaders("Bad Name: x")
		assert.ErrorIs(t, err, ErrInvalidHeader)
	})

	t.Run("rejects control characters in value", func(t *testing.T) {
		_, err := ParseHeaders(`{"X-Test": "a\u0000b"}`)
		assert.ErrorIs(t, err, ErrInvalidHeader)
	})
}

func TestRequest_ParsedHeaders(t *testing.T) {
	t.Run("absent headers parse to empty set", func(t *testing.T) {
		req := NewRequest("GET", "https://example.com", "", "")
		h, err := req.ParsedHeaders()
		require.NoError(t, err)
		assert.Equal(t, 0, h.Len())
	})

	t.Run("present headers are parsed", func(t *testing.T) {
		req := NewRequest("GET", "https://example.com", "Accept: text/html", "")
		h, err := req.ParsedHeaders()
		require.NoError(t, err)
		assert.Equal(t, "text/html", h.Get("Accept"))
	})
}

func TestHeaders(t *testing.T) {
	t.Run("set replaces value and updates casing", func(t *testing.T) {
		h := NewHeaders()
		h.Set("content-type", "text/plain")
		h.Set("Content-Type", "application/json")

		assert.Equal(t, []string{"Content-Type"}, h.Keys())
		assert.Equal(t, []string{"application/json"}, h.GetAll("CONTENT-TYPE"))
	})

	t.Run("has is case-insensitive", func(t *testing.T) {
		h := NewHeaders()
		h.Add("Accept", "*/*")
		assert.True(t, h.Has("accept"))
		assert.False(t, h.Has("Authorization"))
	})

	t.Run("get all on missing key returns empty slice", func(t *testing.T) {
		h := NewHeaders()
		assert.Equal(t, []string{}, h.GetAll("X-Missing"))
		assert.Equal(t, "", h.Get("X-Missing"))
	})

	t.Run("to map copies values", func(t *testing.T) {
		h := NewHeaders()
		h.Add("Accept", "a")
		m := h.ToMap()
		m["Accept"][0] = "changed"
		assert.Equal(t, "a", h.Get("Accept"))
	})
}
