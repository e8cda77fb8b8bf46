// Package marketplacetest provides test helpers and mocks for the marketplace package.
package marketplacetest

import (
	"bytes"
	"io"
	"net/http"
	"sync"

	"github.com/flemzord/clawslist-mcp/internal/marketplace"
)

// Call is a request captured by RecordingDoer.
type Call struct {
	Method string
	URL    string
	Header http.Header
	Body   []byte
}

// RecordingDoer is a marketplace.Doer that records every request and
// answers with DoFunc, or with a 200 "{}" response when DoFunc is nil.
type RecordingDoer struct {
	DoFunc func(req *http.Request) (*http.Response, error)

	mu    sync.Mutex
	calls []Call
}

// Do implements marketplace.Doer.
func (d *RecordingDoer) Do(req *http.Request) (*http.Response, error) {
	var body []byte
	if req.Body != nil {
		body, _ = io.ReadAll(req.Body)
		_ = req.Body.Close()
		req.Body = io.NopCloser(bytes.NewReader(body))
	}

	d.mu.Lock()
	d.calls = append(d.calls, Call{
		Method: req.Method,
		URL:    req.URL.String(),
		Header: req.Header.Clone(),
		Body:   body,
	})
	d.mu.Unlock()

	if d.DoFunc != nil {
		return d.DoFunc(req)
	}
	return JSONResponse(http.StatusOK, `{}`), nil
}

// Calls returns a copy of the recorded requests.
func (d *RecordingDoer) Calls() []Call {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]Call, len(d.calls))
	copy(out, d.calls)
	return out
}

// CallCount returns the number of requests issued so far.
func (d *RecordingDoer) CallCount() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.calls)
}

// JSONResponse builds an *http.Response with the given status and body.
func JSONResponse(status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Status:     http.StatusText(status),
		Header:     http.Header{"Content-Type": []string{"application/json"}},
		Body:       io.NopCloser(bytes.NewBufferString(body)),
	}
}

// Respond returns a DoFunc that always answers with status and body.
func Respond(status int, body string) func(*http.Request) (*http.Response, error) {
	return func(*http.Request) (*http.Response, error) {
		return JSONResponse(status, body), nil
	}
}

// Interface guard.
var _ marketplace.Doer = (*RecordingDoer)(nil)
