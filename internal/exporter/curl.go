package exporter

import (
	"context"
	"fmt"
	"strings"

	"github.com/dhzdhd/curlr/internal/core"
	httpclient "github.com/dhzdhd/curlr/internal/protocol/http"
)

// CurlExporter exports requests to curl commands.
type CurlExporter struct {
	Pretty bool // Use line continuations for readability
}

// NewCurlExporter creates a new curl exporter producing a single line.
func NewCurlExporter() *CurlExporter {
	return &CurlExporter{}
}

func (c *CurlExporter) Name() string {
	return "curl command"
}

func (c *CurlExporter) Format() Format {
	return FormatCurl
}

func (c *CurlExporter) FileExtension() string {
	return ".sh"
}

// Export renders req as a curl command. A body without an explicit
// Content-Type gets the same default the HTTP client would send.
func (c *CurlExporter) Export(ctx context.Context, req *core.Request) ([]byte, error) {
	headers, err := requestHeaders(req)
	if err != nil {
		return nil, err
	}

	parts := []string{"curl"}

	// Method (only if not GET)
	if req.Method() != "GET" {
		parts = append(parts, "-X", req.Method())
	}

	hasContentType := false
	for _, h := range headers {
		if strings.EqualFold(h.Name, "Content-Type") {
			hasContentType = true
		}
		parts = append(parts, "-H", fmt.Sprintf("%s: %s", h.Name, h.Value))
	}

	if body, ok := req.Body(); ok {
		if !hasContentType {
			parts = append(parts, "-H", "Content-Type: "+httpclient.DefaultContentType(body))
		}
		parts = append(parts, "--data-raw", body)
	}

	// URL (always last)
	parts = append(parts, strings.TrimSpace(req.URI()))

	if c.Pretty {
		return []byte(formatPrettyCurl(parts)), nil
	}
	return []byte(formatInlineCurl(parts)), nil
}

func formatInlineCurl(parts []string) string {
	var result strings.Builder
	for i, part := range parts {
		if i > 0 {
			result.WriteString(" ")
		}
		result.WriteString(shellQuote(part))
	}
	return result.String()
}

func formatPrettyCurl(parts []string) string {
	var result strings.Builder
	result.WriteString("curl")

	last := len(parts) - 1
	for i := 1; i < last; i += 2 {
		result.WriteString(" \\\n  ")
		result.WriteString(shellQuote(parts[i]))
		result.WriteString(" ")
		result.WriteString(shellQuote(parts[i+1]))
	}

	// URL on its own line
	result.WriteString(" \\\n  ")
	result.WriteString(shellQuote(parts[last]))

	return result.String()
}

func shellQuote(s string) string {
	if s == "" {
		return "''"
	}

	needsQuote := false
	for _, r := range s {
		if r == ' ' || r == '\t' || r == '\n' || r == '"' || r == '\'' ||
			r == '$' || r == '`' || r == '\\' || r == '!' || r == '*' ||
			r == '?' || r == '[' || r == ']' || r == '{' || r == '}' ||
			r == '(' || r == ')' || r == '<' || r == '>' || r == '|' ||
			r == '&' || r == ';' || r == '#' || r == '~' {
			needsQuote = true
			break
		}
	}

	if !needsQuote {
		return s
	}

	// Use single quotes and escape any single quotes in the string
	escaped := strings.ReplaceAll(s, "'", "'\"'\"'")
	return "'" + escaped + "'"
}

var _ Exporter = (*CurlExporter)(nil)
