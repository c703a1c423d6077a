// Package validate holds the content checks run against field text.
// They never fail editing; callers decide what an invalid result means.
package validate

import (
	"encoding/json"
	"errors"
	"regexp"
	"strings"
)

// uriPattern matches an http, https or ftp scheme followed by a
// whitespace-free host and path.
var uriPattern = regexp.MustCompile(`^(https?|ftp)://\S+$`)

// ErrEmpty is returned by JSONError for blank input.
var ErrEmpty = errors.New("empty input")

// URI reports whether text is a non-blank http, https or ftp URI.
func URI(text string) bool {
	if strings.TrimSpace(text) == "" {
		return false
	}
	return uriPattern.MatchString(text)
}

// JSON reports whether text parses as a single JSON value.
func JSON(text string) bool {
	return JSONError(text) == nil
}

// JSONError returns nil if text parses as a single JSON value, or the parse error.
func JSONError(text string) error {
	if strings.TrimSpace(text) == "" {
		return ErrEmpty
	}
	var v any
	return json.Unmarshal([]byte(text), &v)
}
