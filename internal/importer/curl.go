// Package importer reads a curl command line back into composer fields.
package importer

import (
	"encoding/base64"
	"errors"
	"strings"

	"github.com/dhzdhd/curlr/internal/core"
)

var (
	// ErrNotCurl is returned when the command does not start with curl.
	ErrNotCurl = errors.New("not a curl command")
	// ErrNoURL is returned when the command names no URL.
	ErrNoURL = errors.New("no URL found in curl command")
)

// Imported is a curl command split into field texts.
type Imported struct {
	// Method is set only when the command forces one with -X, -I or -G.
	Method string
	Fields core.Fields
}

type header struct {
	name  string
	value string
}

type parsedCurl struct {
	method  string
	url     string
	headers []header
	body    string
	hasBody bool
}

func (p *parsedCurl) setHeader(name, value string) {
	for i, h := range p.headers {
		if strings.EqualFold(h.name, name) {
			p.headers[i].value = value
			return
		}
	}
	p.headers = append(p.headers, header{name: name, value: value})
}

// ParseCurl parses a curl command. Headers keep their order, one
// "Name: value" line each, so the result assembles to the same request.
func ParseCurl(cmd string) (*Imported, error) {
	parsed, err := parseCurlCommand(strings.TrimSpace(cmd))
	if err != nil {
		return nil, err
	}

	lines := make([]string, len(parsed.headers))
	for i, h := range parsed.headers {
		lines[i] = h.name + ": " + h.value
	}

	fields := core.Fields{
		core.SlotURI:     parsed.url,
		core.SlotHeaders: strings.Join(lines, "\n"),
	}
	if parsed.hasBody {
		fields[core.SlotBody] = parsed.body
	}
	return &Imported{Method: parsed.method, Fields: fields}, nil
}

func parseCurlCommand(cmd string) (*parsedCurl, error) {
	result := &parsedCurl{}

	// Line continuations
	cmd = strings.ReplaceAll(cmd, "\\\r\n", " ")
	cmd = strings.ReplaceAll(cmd, "\\\n", " ")

	tokens := tokenize(cmd)
	if len(tokens) == 0 || tokens[0] != "curl" {
		return nil, ErrNotCurl
	}

	// value returns the argument of the option at i and advances past it.
	i := 1
	value := func() (string, bool) {
		if i+1 < len(tokens) {
			v := tokens[i+1]
			i += 2
			return v, true
		}
		i++
		return "", false
	}

	for i < len(tokens) {
		token := tokens[i]

		switch token {
		case "-X", "--request":
			if v, ok := value(); ok {
				result.method = strings.ToUpper(v)
			}

		case "-H", "--header":
			if v, ok := value(); ok {
				if idx := strings.Index(v, ":"); idx > 0 {
					result.setHeader(strings.TrimSpace(v[:idx]), strings.TrimSpace(v[idx+1:]))
				}
			}

		case "-d", "--data", "--data-raw", "--data-binary":
			if v, ok := value(); ok {
				result.body = v
				result.hasBody = true
			}

		case "--data-urlencode":
			if v, ok := value(); ok {
				if result.body != "" {
					result.body += "&"
				}
				result.body += v
				result.hasBody = true
			}

		case "--json":
			if v, ok := value(); ok {
				result.body = v
				result.hasBody = true
				result.setHeader("Content-Type", "application/json")
				result.setHeader("Accept", "application/json")
			}

		case "-u", "--user":
			if v, ok := value(); ok {
				if !strings.Contains(v, ":") {
					v += ":"
				}
				result.setHeader("Authorization", "Basic "+base64.StdEncoding.EncodeToString([]byte(v)))
			}

		case "-A", "--user-agent":
			if v, ok := value(); ok {
				result.setHeader("User-Agent", v)
			}

		case "-e", "--referer":
			if v, ok := value(); ok {
				result.setHeader("Referer", v)
			}

		case "-b", "--cookie":
			if v, ok := value(); ok {
				result.setHeader("Cookie", v)
			}

		case "--compressed":
			result.setHeader("Accept-Encoding", "gzip, deflate, br")
			i++

		case "-I", "--head":
			result.method = "HEAD"
			i++

		case "-G", "--get":
			result.method = "GET"
			i++

		case "-L", "--location", "-k", "--insecure",
			"-s", "--silent", "-S", "--show-error", "-v", "--verbose",
			"-O", "--remote-name":
			i++

		case "-o", "--output":
			value()

		default:
			if strings.HasPrefix(token, "-") {
				// Unknown option; assume it takes a value unless the next token is an option.
				if i+1 < len(tokens) && !strings.HasPrefix(tokens[i+1], "-") {
					i += 2
				} else {
					i++
				}
				continue
			}
			if result.url == "" {
				result.url = token
			}
			i++
		}
	}

	if result.url == "" {
		return nil, ErrNoURL
	}
	return result, nil
}

// tokenize splits the command on unquoted whitespace. Quoted text is kept
// verbatim, newlines included.
func tokenize(cmd string) []string {
	var tokens []string
	var current strings.Builder
	var inQuote rune
	var escaped, started bool

	for _, r := range cmd {
		if escaped {
			current.WriteRune(r)
			escaped = false
			continue
		}

		if inQuote != 0 {
			switch {
			case r == inQuote:
				inQuote = 0
			case r == '\\' && inQuote == '"':
				escaped = true
			default:
				current.WriteRune(r)
			}
			continue
		}

		switch r {
		case '\\':
			escaped = true
			started = true
		case '"', '\'':
			inQuote = r
			started = true
		case ' ', '\t', '\n', '\r':
			if started {
				tokens = append(tokens, current.String())
				current.Reset()
				started = false
			}
		default:
			current.WriteRune(r)
			started = true
		}
	}

	if started {
		tokens = append(tokens, current.String())
	}

	return tokens
}
