package core

import (
	"time"

	"github.com/google/uuid"
)

// TimingInfo contains request/response timing information.
type TimingInfo struct {
	StartTime time.Time
	EndTime   time.Time
	Total     time.Duration
}

// Status represents an HTTP status code and text.
type Status struct {
	code int
	text string
}

// NewStatus creates a new status.
func NewStatus(code int, text string) *Status {
	return &Status{
		code: code,
		text: text,
	}
}

func (s *Status) Code() int    { return s.code }
func (s *Status) Text() string { return s.text }

func (s *Status) IsError() bool {
	return s.code >= 400
}

// Response is the result of submitting a Request.
type Response struct {
	id        string
	requestID string
	status    *Status
	headers   *Headers
	body      []byte
	timing    TimingInfo
}

// NewResponse creates a new response with the given parameters.
func NewResponse(requestID string, status *Status) *Response {
	return &Response{
		id:        uuid.New().String(),
		requestID: requestID,
		status:    status,
		headers:   NewHeaders(),
	}
}

func (r *Response) ID() string {
	return r.id
}

func (r *Response) RequestID() string {
	return r.requestID
}

func (r *Response) Status() *Status {
	return r.status
}

// StatusCode is a shortcut for Status().Code().
func (r *Response) StatusCode() int {
	return r.status.Code()
}

func (r *Response) Headers() *Headers {
	return r.headers
}

func (r *Response) Body() string {
	return string(r.body)
}

func (r *Response) Size() int {
	return len(r.body)
}

func (r *Response) Timing() TimingInfo {
	return r.timing
}

// WithHeaders sets the response headers and returns the response for chaining.
func (r *Response) WithHeaders(h *Headers) *Response {
	r.headers = h
	return r
}

// WithBody sets the response body and returns the response for chaining.
func (r *Response) WithBody(b []byte) *Response {
	r.body = b
	return r
}

// WithTiming sets the timing info and returns the response for chaining.
func (r *Response) WithTiming(t TimingInfo) *Response {
	r.timing = t
	return r
}
