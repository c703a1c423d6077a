package exporter

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/dhzdhd/curlr/internal/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

// Test Registry

func TestRegistry_Register(t *testing.T) {
	registry := NewRegistry()

	exp := NewCurlExporter()
	registry.Register(exp)

	got, ok := registry.Get(FormatCurl)
	assert.True(t, ok)
	assert.Equal(t, exp, got)

	_, ok = registry.Get(FormatYAML)
	assert.False(t, ok)
}

func TestRegistry_Export(t *testing.T) {
	registry := NewDefaultRegistry()
	ctx := context.Background()
	req := core.NewRequest("GET", "https://api.example.com/users", "", "")

	t.Run("exports with registered format", func(t *testing.T) {
		result, err := registry.Export(ctx, FormatCurl, req)
		require.NoError(t, err)
		assert.Equal(t, FormatCurl, result.Format)
		assert.Equal(t, ".sh", result.FileExtension)
		assert.Equal(t, "curl https://api.example.com/users", string(result.Content))
	})

	t.Run("unknown format", func(t *testing.T) {
		_, err := registry.Export(ctx, Format("har"), req)
		assert.ErrorIs(t, err, ErrUnknownFormat)
	})
}

func TestRegistry_ListFormats(t *testing.T) {
	formats := NewDefaultRegistry().ListFormats()
	assert.Equal(t, []Format{FormatCurl, FormatJSON, FormatPostman, FormatYAML}, formats)
}

func TestRegistry_Describe(t *testing.T) {
	t.Run("default registry", func(t *testing.T) {
		desc := NewDefaultRegistry().Describe()
		assert.True(t, strings.HasPrefix(desc, "curl (curl command), json (JSON document)"), desc)
		assert.True(t, strings.HasSuffix(desc, "yaml (YAML document)"), desc)
	})

	t.Run("empty registry", func(t *testing.T) {
		assert.Empty(t, NewRegistry().Describe())
	})
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat(" YAML ")
	require.NoError(t, err)
	assert.Equal(t, FormatYAML, f)

	_, err = ParseFormat("xml")
	assert.ErrorIs(t, err, ErrUnknownFormat)
}

// Test curl

func TestCurlExporter_Export(t *testing.T) {
	ctx := context.Background()

	t.Run("simple GET", func(t *testing.T) {
		req := core.NewRequest("GET", "https://api.example.com/users", "", "")
		out, err := NewCurlExporter().Export(ctx, req)
		require.NoError(t, err)
		assert.Equal(t, "curl https://api.example.com/users", string(out))
	})

	t.Run("method, headers and JSON body", func(t *testing.T) {
		req := core.NewRequest("POST", "https://api.example.com/users", "Accept: application/json", `{"a":1}`)
		out, err := NewCurlExporter().Export(ctx, req)
		require.NoError(t, err)
		assert.Equal(t,
			`curl -X POST -H 'Accept: application/json' -H 'Content-Type: application/json' --data-raw '{"a":1}' https://api.example.com/users`,
			string(out))
	})

	t.Run("explicit content type is not duplicated", func(t *testing.T) {
		req := core.NewRequest("PUT", "http://h/x", "Content-Type: text/csv", "a,b")
		out, err := NewCurlExporter().Export(ctx, req)
		require.NoError(t, err)
		assert.Equal(t, `curl -X PUT -H 'Content-Type: text/csv' --data-raw a,b http://h/x`, string(out))
	})

	t.Run("pretty output", func(t *testing.T) {
		exp := NewCurlExporter()
		exp.Pretty = true
		req := core.NewRequest("POST", "http://h/x", "", "hi")
		out, err := exp.Export(ctx, req)
		require.NoError(t, err)
		assert.Equal(t, "curl \\\n  -X POST \\\n  -H 'Content-Type: text/plain; charset=utf-8' \\\n  --data-raw hi \\\n  http://h/x", string(out))
	})

	t.Run("invalid headers", func(t *testing.T) {
		req := core.NewRequest("GET", "http://h", "garbage", "")
		_, err := NewCurlExporter().Export(ctx, req)
		assert.ErrorIs(t, err, ErrInvalidRequest)
	})

	t.Run("nil request", func(t *testing.T) {
		_, err := NewCurlExporter().Export(ctx, nil)
		assert.ErrorIs(t, err, ErrInvalidRequest)
	})
}

// Test documents

func TestJSONExporter_Export(t *testing.T) {
	req := core.NewRequest("POST", "http://h/x", `{"X-A": "1"}`, `{"k":true}`)
	out, err := NewJSONExporter().Export(context.Background(), req)
	require.NoError(t, err)

	var doc map[string]any
	require.NoError(t, json.Unmarshal(out, &doc))
	assert.Equal(t, req.ID(), doc["id"])
	assert.Equal(t, "POST", doc["method"])
	assert.Equal(t, "http://h/x", doc["uri"])
	assert.Equal(t, `{"k":true}`, doc["body"])

	headers := doc["headers"].([]any)
	require.Len(t, headers, 1)
	assert.Equal(t, map[string]any{"name": "X-A", "value": "1"}, headers[0])
}

func TestJSONExporter_OmitsAbsentParts(t *testing.T) {
	out, err := NewJSONExporter().Export(context.Background(), core.NewRequest("GET", "http://h", "", ""))
	require.NoError(t, err)
	assert.NotContains(t, string(out), "headers")
	assert.NotContains(t, string(out), "body")
}

func TestYAMLExporter_Export(t *testing.T) {
	req := core.NewRequest("GET", "http://h/x", "A: 1\nB: 2", "")
	out, err := NewYAMLExporter().Export(context.Background(), req)
	require.NoError(t, err)
	assert.Contains(t, string(out), "method: GET")

	var doc Document
	require.NoError(t, yaml.Unmarshal(out, &doc))
	assert.Equal(t, []Header{{Name: "A", Value: "1"}, {Name: "B", Value: "2"}}, doc.Headers)
	assert.Nil(t, doc.Body)
}

// Test postman

func TestPostmanExporter_Export(t *testing.T) {
	req := core.NewRequest("POST", "https://api.example.com/users", "Accept: application/json", `{"a":1}`)
	out, err := NewPostmanExporter().Export(context.Background(), req)
	require.NoError(t, err)

	var pm map[string]any
	require.NoError(t, json.Unmarshal(out, &pm))

	info := pm["info"].(map[string]any)
	assert.Equal(t, postmanSchema, info["schema"])
	assert.NotEmpty(t, info["_postman_id"])

	items := pm["item"].([]any)
	require.Len(t, items, 1)
	request := items[0].(map[string]any)["request"].(map[string]any)
	assert.Equal(t, "POST", request["method"])
	assert.Equal(t, "https://api.example.com/users", request["url"])

	body := request["body"].(map[string]any)
	assert.Equal(t, "raw", body["mode"])
	assert.Equal(t, `{"a":1}`, body["raw"])
	assert.Equal(t, "json", body["options"].(map[string]any)["raw"].(map[string]any)["language"])
}

func TestPostmanExporter_FileExtension(t *testing.T) {
	assert.Equal(t, ".postman_collection.json", NewPostmanExporter().FileExtension())
}

// Test shell quoting

func TestShellQuote(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"simple", "simple"},
		{"", "''"},
		{"with space", "'with space'"},
		{"with$var", "'with$var'"},
		{`with"quote`, `'with"quote'`},
		{"with'single", "'" + `with'"'"'single` + "'"},
	}

	for _, tc := range tests {
		t.Run(tc.input, func(t *testing.T) {
			assert.Equal(t, tc.expected, shellQuote(tc.input))
		})
	}
}
