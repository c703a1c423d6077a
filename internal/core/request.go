package core

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/net/http/httpguts"
)

// Request is an assembled outbound request. It is immutable once assembled.
type Request struct {
	id      string
	method  string
	uri     string
	headers *string
	body    *string
}

// NewRequest creates a request. Empty headers or body strings are treated as absent.
func NewRequest(method, uri, headers, body string) *Request {
	return &Request{
		id:      uuid.New().String(),
		method:  method,
		uri:     uri,
		headers: optional(headers),
		body:    optional(body),
	}
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func (r *Request) ID() string {
	return r.id
}

func (r *Request) Method() string {
	return r.method
}

func (r *Request) URI() string {
	return r.uri
}

// Headers returns the raw headers text and whether it is present.
func (r *Request) Headers() (string, bool) {
	if r.headers == nil {
		return "", false
	}
	return *r.headers, true
}

// Body returns the raw body text and whether it is present.
func (r *Request) Body() (string, bool) {
	if r.body == nil {
		return "", false
	}
	return *r.body, true
}

// HasBody reports whether a body is present.
func (r *Request) HasBody() bool {
	return r.body != nil
}

// Scheme returns the lower-cased URI scheme, or "" when the URI has none.
// Surrounding whitespace is ignored, as it is when the request is sent.
func (r *Request) Scheme() string {
	uri := strings.TrimSpace(r.uri)
	idx := strings.Index(uri, "://")
	if idx <= 0 {
		return ""
	}
	return strings.ToLower(uri[:idx])
}

// ParsedHeaders parses the headers text. An absent headers text yields empty headers.
func (r *Request) ParsedHeaders() (*Headers, error) {
	text, ok := r.Headers()
	if !ok {
		return NewHeaders(), nil
	}
	return ParseHeaders(text)
}

// ErrInvalidHeader is returned for header names or values that cannot be sent.
var ErrInvalidHeader = errors.New("invalid header")

// ParseHeaders parses header text in one of two shapes: a JSON object of
// scalar values, or "Name: value" lines. Blank lines are skipped.
func ParseHeaders(text string) (*Headers, error) {
	headers := NewHeaders()
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return headers, nil
	}

	if strings.HasPrefix(trimmed, "{") {
		if err := parseJSONHeaders(trimmed, headers); err != nil {
			return nil, err
		}
		return headers, nil
	}

	for i, line := range strings.Split(trimmed, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		idx := strings.Index(line, ":")
		if idx <= 0 {
			return nil, fmt.Errorf("%w: line %d: expected \"Name: value\"", ErrInvalidHeader, i+1)
		}
		key := strings.TrimSpace(line[:idx])
		value := strings.TrimSpace(line[idx+1:])
		if err := checkHeader(key, value); err != nil {
			return nil, err
		}
		headers.Add(key, value)
	}
	return headers, nil
}

func parseJSONHeaders(text string, headers *Headers) error {
	var fields map[string]any
	if err := json.Unmarshal([]byte(text), &fields); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidHeader, err)
	}

	// Map iteration order is random; sort so the wire order is stable.
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, key := range keys {
		var value string
		switch v := fields[key].(type) {
		case string:
			value = v
		case float64, bool:
			value = fmt.Sprint(v)
		default:
			return fmt.Errorf("%w: %q must be a string, number or boolean", ErrInvalidHeader, key)
		}
		if err := checkHeader(key, value); err != nil {
			return err
		}
		headers.Add(key, value)
	}
	return nil
}

func checkHeader(key, value string) error {
	if !httpguts.ValidHeaderFieldName(key) {
		return fmt.Errorf("%w: bad name %q", ErrInvalidHeader, key)
	}
	if !httpguts.ValidHeaderFieldValue(value) {
		return fmt.Errorf("%w: bad value for %q", ErrInvalidHeader, key)
	}
	return nil
}

// Headers implements a case-insensitive HTTP header store.
type Headers struct {
	data     map[string][]string
	keyOrder []string // Preserves original casing for keys
}

// NewHeaders creates an empty headers collection.
func NewHeaders() *Headers {
	return &Headers{
		data:     make(map[string][]string),
		keyOrder: make([]string, 0),
	}
}

func (h *Headers) normalize(key string) string {
	return strings.ToLower(key)
}

func (h *Headers) Set(key, value string) {
	normalized := h.normalize(key)
	if _, exists := h.data[normalized]; !exists {
		h.keyOrder = append(h.keyOrder, key)
	} else {
		for i, k := range h.keyOrder {
			if h.normalize(k) == normalized {
				h.keyOrder[i] = key
				break
			}
		}
	}
	h.data[normalized] = []string{value}
}

func (h *Headers) Add(key, value string) {
	normalized := h.normalize(key)
	if _, exists := h.data[normalized]; !exists {
		h.keyOrder = append(h.keyOrder, key)
	}
	h.data[normalized] = append(h.data[normalized], value)
}

func (h *Headers) Get(key string) string {
	values := h.data[h.normalize(key)]
	if len(values) > 0 {
		return values[0]
	}
	return ""
}

func (h *Headers) GetAll(key string) []string {
	values := h.data[h.normalize(key)]
	if values == nil {
		return []string{}
	}
	result := make([]string, len(values))
	copy(result, values)
	return result
}

func (h *Headers) Has(key string) bool {
	_, ok := h.data[h.normalize(key)]
	return ok
}

func (h *Headers) Keys() []string {
	result := make([]string, len(h.keyOrder))
	copy(result, h.keyOrder)
	return result
}

func (h *Headers) Len() int {
	return len(h.keyOrder)
}

func (h *Headers) ToMap() map[string][]string {
	result := make(map[string][]string)
	for _, key := range h.keyOrder {
		normalized := h.normalize(key)
		result[key] = make([]string, len(h.data[normalized]))
		copy(result[key], h.data[normalized])
	}
	return result
}
