package exporter

import (
	"context"
	"encoding/json"

	"github.com/dhzdhd/curlr/internal/core"
	"gopkg.in/yaml.v3"
)

// Document is the structured form of a request used by the JSON and YAML exporters.
type Document struct {
	ID      string   `json:"id" yaml:"id"`
	Method  string   `json:"method" yaml:"method"`
	URI     string   `json:"uri" yaml:"uri"`
	Headers []Header `json:"headers,omitempty" yaml:"headers,omitempty"`
	Body    *string  `json:"body,omitempty" yaml:"body,omitempty"`
}

// NewDocument builds the structured form of req.
func NewDocument(req *core.Request) (*Document, error) {
	headers, err := requestHeaders(req)
	if err != nil {
		return nil, err
	}

	doc := &Document{
		ID:      req.ID(),
		Method:  req.Method(),
		URI:     req.URI(),
		Headers: headers,
	}
	if body, ok := req.Body(); ok {
		doc.Body = &body
	}
	return doc, nil
}

// JSONExporter exports a request as an indented JSON document.
type JSONExporter struct{}

func NewJSONExporter() *JSONExporter {
	return &JSONExporter{}
}

func (e *JSONExporter) Name() string          { return "JSON document" }
func (e *JSONExporter) Format() Format        { return FormatJSON }
func (e *JSONExporter) FileExtension() string { return ".json" }

func (e *JSONExporter) Export(ctx context.Context, req *core.Request) ([]byte, error) {
	doc, err := NewDocument(req)
	if err != nil {
		return nil, err
	}
	return json.MarshalIndent(doc, "", "  ")
}

// YAMLExporter exports a request as a YAML document.
type YAMLExporter struct{}

func NewYAMLExporter() *YAMLExporter {
	return &YAMLExporter{}
}

func (e *YAMLExporter) Name() string          { return "YAML document" }
func (e *YAMLExporter) Format() Format        { return FormatYAML }
func (e *YAMLExporter) FileExtension() string { return ".yaml" }

func (e *YAMLExporter) Export(ctx context.Context, req *core.Request) ([]byte, error) {
	doc, err := NewDocument(req)
	if err != nil {
		return nil, err
	}
	return yaml.Marshal(doc)
}

var (
	_ Exporter = (*JSONExporter)(nil)
	_ Exporter = (*YAMLExporter)(nil)
)
