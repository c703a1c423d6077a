package core

import (
	"fmt"
	"strings"
)

// MethodAuto picks POST when a body is present and GET otherwise.
const MethodAuto MethodPolicy = "AUTO"

// MethodPolicy decides the HTTP method of an assembled request.
type MethodPolicy string

// ParseMethodPolicy accepts "auto" or a method token such as "get" or "PATCH".
func ParseMethodPolicy(s string) (MethodPolicy, error) {
	m := strings.ToUpper(strings.TrimSpace(s))
	if m == "" {
		return "", fmt.Errorf("method cannot be empty")
	}
	for _, r := range m {
		if r < 'A' || r > 'Z' {
			return "", fmt.Errorf("invalid method: %q", s)
		}
	}
	return MethodPolicy(m), nil
}

// Resolve returns the method for a request with or without a body.
func (p MethodPolicy) Resolve(hasBody bool) string {
	if p == "" || p == MethodAuto {
		if hasBody {
			return "POST"
		}
		return "GET"
	}
	return string(p)
}

// FieldReader exposes the joined text of each editable field.
type FieldReader interface {
	Text(slot Slot) string
}

// Fields is a FieldReader backed by plain strings.
type Fields map[Slot]string

// Text returns the text for slot, or "" when unset.
func (f Fields) Text(slot Slot) string {
	return f[slot]
}

// Assembler turns field contents into a Request.
type Assembler struct {
	policy MethodPolicy
}

// NewAssembler creates an assembler using the given method policy.
func NewAssembler(policy MethodPolicy) *Assembler {
	return &Assembler{policy: policy}
}

// Policy returns the method policy.
func (a *Assembler) Policy() MethodPolicy {
	return a.policy
}

// Assemble reads the URI, headers and body fields. It performs no validation.
func (a *Assembler) Assemble(fields FieldReader) *Request {
	headers := fields.Text(SlotHeaders)
	body := fields.Text(SlotBody)

	req := NewRequest("", fields.Text(SlotURI), headers, body)
	req.method = a.policy.Resolve(req.HasBody())
	return req
}
