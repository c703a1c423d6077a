package exporter

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/dhzdhd/curlr/internal/core"
)

// Common errors
var (
	ErrInvalidRequest = errors.New("invalid request")
	ErrUnknownFormat  = errors.New("unknown export format")
)

// Format represents a supported export format.
type Format string

const (
	FormatJSON    Format = "json"
	FormatYAML    Format = "yaml"
	FormatCurl    Format = "curl"
	FormatPostman Format = "postman"
)

// ParseFormat parses a format name case-insensitively. Only formats with a
// built-in exporter are accepted.
func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := NewDefaultRegistry().Get(f); !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
	}
	return f, nil
}

// Exporter renders a single assembled request in an external format.
type Exporter interface {
	// Name returns the name of this exporter.
	Name() string

	// Format returns the format this exporter produces.
	Format() Format

	// FileExtension returns the file extension for exported files.
	FileExtension() string

	// Export converts the request to the target format.
	Export(ctx context.Context, req *core.Request) ([]byte, error)
}

// ExportResult contains the result of an export operation.
type ExportResult struct {
	Content       []byte
	Format        Format
	FileExtension string
}

// Registry holds all registered exporters.
type Registry struct {
	exporters map[Format]Exporter
}

// NewRegistry creates a new exporter registry.
func NewRegistry() *Registry {
	return &Registry{
		exporters: make(map[Format]Exporter),
	}
}

// NewDefaultRegistry creates a registry with every built-in exporter.
func NewDefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(NewJSONExporter())
	r.Register(NewYAMLExporter())
	r.Register(NewCurlExporter())
	r.Register(NewPostmanExporter())
	return r
}

// Register adds an exporter to the registry.
func (r *Registry) Register(exp Exporter) {
	r.exporters[exp.Format()] = exp
}

// Get returns an exporter by format.
func (r *Registry) Get(format Format) (Exporter, bool) {
	exp, ok := r.exporters[format]
	return exp, ok
}

// Export exports the request using the specified format.
func (r *Registry) Export(ctx context.Context, format Format, req *core.Request) (*ExportResult, error) {
	exp, ok := r.exporters[format]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}

	content, err := exp.Export(ctx, req)
	if err != nil {
		return nil, err
	}

	return &ExportResult{
		Content:       content,
		Format:        format,
		FileExtension: exp.FileExtension(),
	}, nil
}

// ListFormats returns all registered formats, sorted.
func (r *Registry) ListFormats() []Format {
	formats := make([]Format, 0, len(r.exporters))
	for f := range r.exporters {
		formats = append(formats, f)
	}
	sort.Slice(formats, func(i, j int) bool { return formats[i] < formats[j] })
	return formats
}

// Describe lists the registered formats with their exporter names, e.g.
// "curl (curl command), json (JSON document)".
func (r *Registry) Describe() string {
	formats := r.ListFormats()
	parts := make([]string, 0, len(formats))
	for _, f := range formats {
		exp, _ := r.Get(f)
		parts = append(parts, fmt.Sprintf("%s (%s)", f, exp.Name()))
	}
	return strings.Join(parts, ", ")
}

// Header is one exported header line.
type Header struct {
	Name  string `json:"name" yaml:"name"`
	Value string `json:"value" yaml:"value"`
}

// requestHeaders flattens the parsed request headers in insertion order.
func requestHeaders(req *core.Request) ([]Header, error) {
	if req == nil {
		return nil, ErrInvalidRequest
	}
	parsed, err := req.ParsedHeaders()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}

	var out []Header
	for _, key := range parsed.Keys() {
		for _, value := range parsed.GetAll(key) {
			out = append(out, Header{Name: key, Value: value})
		}
	}
	return out, nil
}
