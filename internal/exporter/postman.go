package exporter

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/dhzdhd/curlr/internal/core"
	"github.com/dhzdhd/curlr/internal/validate"
	"github.com/google/uuid"
)

const postmanSchema = "https://schema.getpostman.com/json/collection/v2.1.0/collection.json"

// PostmanExporter exports a request as a Postman v2.1 collection holding one item.
type PostmanExporter struct{}

// NewPostmanExporter creates a new Postman exporter.
func NewPostmanExporter() *PostmanExporter {
	return &PostmanExporter{}
}

func (p *PostmanExporter) Name() string {
	return "Postman Collection"
}

func (p *PostmanExporter) Format() Format {
	return FormatPostman
}

func (p *PostmanExporter) FileExtension() string {
	return ".postman_collection.json"
}

func (p *PostmanExporter) Export(ctx context.Context, req *core.Request) ([]byte, error) {
	headers, err := requestHeaders(req)
	if err != nil {
		return nil, err
	}

	name := req.Method() + " " + strings.TrimSpace(req.URI())
	item := postmanItem{
		Name: name,
		Request: &postmanRequest{
			Method: req.Method(),
			Header: make([]postmanHeader, 0, len(headers)),
			URL:    strings.TrimSpace(req.URI()),
		},
	}

	for _, h := range headers {
		item.Request.Header = append(item.Request.Header, postmanHeader{
			Key:   h.Name,
			Value: h.Value,
		})
	}

	if body, ok := req.Body(); ok {
		item.Request.Body = &postmanBody{
			Mode: "raw",
			Raw:  body,
		}
		if validate.JSON(body) {
			item.Request.Body.Options = &postmanBodyOptions{}
			item.Request.Body.Options.Raw.Language = "json"
		}
	}

	pm := postmanCollection{
		Info: postmanInfo{
			PostmanID: uuid.New().String(),
			Name:      name,
			Schema:    postmanSchema,
		},
		Item: []postmanItem{item},
	}

	return json.MarshalIndent(pm, "", "  ")
}

// Postman format structures for export

type postmanCollection struct {
	Info postmanInfo   `json:"info"`
	Item []postmanItem `json:"item"`
}

type postmanInfo struct {
	PostmanID string `json:"_postman_id"`
	Name      string `json:"name"`
	Schema    string `json:"schema"`
}

type postmanItem struct {
	Name    string          `json:"name"`
	Request *postmanRequest `json:"request,omitempty"`
}

type postmanRequest struct {
	Method string          `json:"method"`
	Header []postmanHeader `json:"header"`
	Body   *postmanBody    `json:"body,omitempty"`
	URL    string          `json:"url"`
}

type postmanHeader struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

type postmanBody struct {
	Mode    string              `json:"mode"`
	Raw     string              `json:"raw,omitempty"`
	Options *postmanBodyOptions `json:"options,omitempty"`
}

type postmanBodyOptions struct {
	Raw struct {
		Language string `json:"language,omitempty"`
	} `json:"raw,omitempty"`
}

var _ Exporter = (*PostmanExporter)(nil)
