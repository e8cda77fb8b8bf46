// Package marketplace builds and executes requests against the Clawslist
// REST API and reduces every outcome to a uniform Result.
package marketplace

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"github.com/flemzord/clawslist-mcp/internal/credential"
)

// DefaultBaseURL is the production marketplace host.
const DefaultBaseURL = "https://clawslist.net"

// pathParamPattern matches {name} placeholders in a path template.
var pathParamPattern = regexp.MustCompile(`\{([A-Za-z][A-Za-z0-9_]*)\}`)

// Endpoint describes how a logical operation maps onto HTTP.
type Endpoint struct {
	// Method is the HTTP method (GET, POST, PUT, PATCH, DELETE).
	Method string

	// Path is the path template, e.g. "/api/listings/{listingId}".
	// Every placeholder is a required argument.
	Path string

	// Query lists optional query parameters in the order they are emitted.
	Query []string

	// Body lists the argument names copied into the JSON body.
	// An empty list means the request carries no body at all.
	Body []string
}

// PathParams returns the placeholder names in the path template.
func (e Endpoint) PathParams() []string {
	matches := pathParamPattern.FindAllStringSubmatch(e.Path, -1)
	names := make([]string, 0, len(matches))
	for _, m := range matches {
		names = append(names, m[1])
	}
	return names
}

// Envelope is a fully formed outbound request, independent of any context.
type Envelope struct {
	Method string
	URL    string
	Header http.Header

	// Body is the serialized JSON body, or nil for bodyless requests.
	Body []byte
}

// Builder turns an Endpoint plus concrete arguments into an Envelope.
type Builder struct {
	baseURL string
}

// NewBuilder creates a builder rooted at baseURL. An empty baseURL selects
// DefaultBaseURL.
func NewBuilder(baseURL string) *Builder {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Builder{baseURL: strings.TrimRight(baseURL, "/")}
}

// BaseURL returns the host prefix every request URL starts with.
func (b Builder) BaseURL() string { return b.baseURL }

// Build produces the request for ep. Path placeholders are substituted and
// escaped, query parameters are emitted in declared order and only when
// supplied, and the Authorization header is set only when cred is non-nil.
func (b Builder) Build(ep Endpoint, args map[string]any, cred *credential.Credential) (Envelope, error) {
	if ep.Method == "" || ep.Path == "" {
		return Envelope{}, ErrInvalidEndpoint
	}

	path, err := substitutePath(ep.Path, args)
	if err != nil {
		return Envelope{}, err
	}

	u := b.baseURL + path
	if q := buildQuery(ep.Query, args); q != "" {
		u += "?" + q
	}

	header := make(http.Header)
	header.Set("Content-Type", "application/json")
	if cred != nil && cred.Token != "" {
		header.Set("Authorization", "Bearer "+cred.Token)
	}

	env := Envelope{
		Method: ep.Method,
		URL:    u,
		Header: header,
	}

	if len(ep.Body) > 0 {
		body := make(map[string]any, len(ep.Body))
		for _, name := range ep.Body {
			if v, ok := args[name]; ok && v != nil {
				body[name] = v
			}
		}
		raw, err := json.Marshal(body)
		if err != nil {
			return Envelope{}, fmt.Errorf("marketplace: marshal body: %w", err)
		}
		env.Body = raw
	}

	return env, nil
}

// substitutePath replaces each {name} placeholder with the path-escaped
// argument value.
func substitutePath(template string, args map[string]any) (string, error) {
	var missing []string
	path := pathParamPattern.ReplaceAllStringFunc(template, func(match string) string {
		name := match[1 : len(match)-1]
		v, ok := formatValue(args[name])
		if !ok {
			missing = append(missing, name)
			return match
		}
		return url.PathEscape(v)
	})
	if len(missing) > 0 {
		return "", fmt.Errorf("%w: %s", ErrMissingPathParam, strings.Join(missing, ", "))
	}
	return path, nil
}

// buildQuery encodes the supplied parameters in declared order. url.Values
// is not used because it sorts keys on Encode.
func buildQuery(names []string, args map[string]any) string {
	parts := make([]string, 0, len(names))
	for _, name := range names {
		v, ok := formatValue(args[name])
		if !ok {
			continue
		}
		parts = append(parts, url.QueryEscape(name)+"="+url.QueryEscape(v))
	}
	return strings.Join(parts, "&")
}

// formatValue renders an argument as a URL string. It reports false for
// absent, null, and empty-string values.
func formatValue(v any) (string, bool) {
	switch val := v.(type) {
	case nil:
		return "", false
	case string:
		return val, val != ""
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64), true
	case json.Number:
		return val.String(), val != ""
	case int:
		return strconv.Itoa(val), true
	case int64:
		return strconv.FormatInt(val, 10), true
	case bool:
		return strconv.FormatBool(val), true
	default:
		raw, err := json.Marshal(val)
		if err != nil {
			return "", false
		}
		return string(raw), true
	}
}
