package marketplace

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

// maxResponseSize is the maximum response body size (10 MB).
// Larger bodies are truncated and fail JSON parsing.
const maxResponseSize = 10 * 1024 * 1024

// DefaultTimeout bounds a single request when the caller's HTTP client has none.
const DefaultTimeout = 30 * time.Second

const tracerName = "github.com/flemzord/clawslist-mcp/internal/marketplace"

// Doer executes HTTP requests. *http.Client satisfies it.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Observer receives one notification per executed request. status is 0
// when the request failed before a response arrived.
type Observer interface {
	ObserveRequest(method string, status int, elapsed time.Duration)
}

// Client executes envelopes and normalizes their outcome.
// It holds no per-request state and is safe for concurrent use.
type Client struct {
	doer       Doer
	observer   Observer
	tracer     trace.Tracer
	propagator propagation.TextMapPropagator
}

// Option configures a Client.
type Option func(*Client)

// WithObserver attaches a request observer (metrics).
func WithObserver(o Observer) Option {
	return func(c *Client) { c.observer = o }
}

// WithTracer overrides the tracer taken from the global provider.
func WithTracer(t trace.Tracer) Option {
	return func(c *Client) { c.tracer = t }
}

// WithPropagator injects trace context headers into outgoing requests.
// Without it, requests to the marketplace carry no tracing headers.
func WithPropagator(p propagation.TextMapPropagator) Option {
	return func(c *Client) { c.propagator = p }
}

// NewClient creates a client sending requests through doer. A nil doer
// selects an *http.Client with DefaultTimeout.
func NewClient(doer Doer, opts ...Option) *Client {
	if doer == nil {
		doer = &http.Client{Timeout: DefaultTimeout}
	}
	c := &Client{doer: doer}
	for _, opt := range opts {
		opt(c)
	}
	if c.tracer == nil {
		c.tracer = otel.Tracer(tracerName)
	}
	return c
}

// Execute sends env and reduces the outcome to a Success or a Failure:
//   - transport errors and unparsable bodies become Failure without details;
//   - non-2xx responses become Failure with the body's "error" field (or
//     "HTTP <status>") as message and the parsed body as details;
//   - everything else becomes Success with the parsed body.
func (c *Client) Execute(ctx context.Context, env Envelope) Result {
	ctx, span := c.tracer.Start(ctx, "marketplace "+env.Method,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("http.request.method", env.Method),
			attribute.String("url.full", env.URL),
		),
	)
	defer span.End()

	start := time.Now()
	body, status, err := c.do(ctx, env)
	c.observe(env.Method, status, time.Since(start))

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "transport failure")
		return Failure{Message: "Request failed: " + err.Error()}
	}
	span.SetAttributes(attribute.Int("http.response.status_code", status))

	if !json.Valid(body) {
		span.SetStatus(codes.Error, "invalid JSON response")
		return Failure{Message: fmt.Sprintf("Request failed: invalid JSON in response (HTTP %d)", status)}
	}

	if status < 200 || status >= 300 {
		span.SetStatus(codes.Error, fmt.Sprintf("HTTP %d", status))
		return Failure{
			Message: errorMessage(status, body),
			Details: json.RawMessage(body),
		}
	}

	return Success{Payload: json.RawMessage(body)}
}

// do issues the request and returns the size-limited body and status code.
func (c *Client) do(ctx context.Context, env Envelope) ([]byte, int, error) {
	var reader io.Reader
	if env.Body != nil {
		reader = bytes.NewReader(env.Body)
	}

	httpReq, err := http.NewRequestWithContext(ctx, env.Method, env.URL, reader)
	if err != nil {
		return nil, 0, err
	}
	for k, vs := range env.Header {
		for _, v := range vs {
			httpReq.Header.Add(k, v)
		}
	}
	if c.propagator != nil {
		c.propagator.Inject(ctx, propagation.HeaderCarrier(httpReq.Header))
	}

	resp, err := c.doer.Do(httpReq)
	if err != nil {
		return nil, 0, err
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, resp.StatusCode, fmt.Errorf("reading response: %w", err)
	}
	return body, resp.StatusCode, nil
}

func (c *Client) observe(method string, status int, elapsed time.Duration) {
	if c.observer != nil {
		c.observer.ObserveRequest(method, status, elapsed)
	}
}

// errorMessage picks the remote "error" string when the body carries one,
// otherwise "HTTP <status>".
func errorMessage(status int, body []byte) string {
	var apiErr struct {
		Error any `json:"error"`
	}
	if json.Unmarshal(body, &apiErr) == nil {
		if s, ok := apiErr.Error.(string); ok && s != "" {
			return s
		}
	}
	return fmt.Sprintf("HTTP %d", status)
}
