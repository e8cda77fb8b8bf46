package security

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
)

// RedactingHandler scrubs credentials from records before inner sees them.
//
// String values and the message go through the Redactor. Raw JSON payloads
// ([]byte or json.RawMessage, such as marketplace error bodies) are redacted
// as text. Tool argument maps are copied and passed through RedactMap so an
// apiKey argument never reaches the log, while the caller's map is left
// untouched.
type RedactingHandler struct {
	inner    slog.Handler
	redactor *Redactor
}

var _ slog.Handler = (*RedactingHandler)(nil)

// NewRedactingHandler wraps inner with redactor.
func NewRedactingHandler(inner slog.Handler, redactor *Redactor) *RedactingHandler {
	return &RedactingHandler{inner: inner, redactor: redactor}
}

func (h *RedactingHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.inner.Enabled(ctx, level)
}

func (h *RedactingHandler) Handle(ctx context.Context, record slog.Record) error {
	out := slog.NewRecord(record.Time, record.Level, h.redactor.Redact(record.Message), record.PC)
	record.Attrs(func(a slog.Attr) bool {
		out.AddAttrs(h.scrub(a))
		return true
	})
	return h.inner.Handle(ctx, out)
}

func (h *RedactingHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	scrubbed := make([]slog.Attr, len(attrs))
	for i, a := range attrs {
		scrubbed[i] = h.scrub(a)
	}
	return &RedactingHandler{inner: h.inner.WithAttrs(scrubbed), redactor: h.redactor}
}

func (h *RedactingHandler) WithGroup(name string) slog.Handler {
	return &RedactingHandler{inner: h.inner.WithGroup(name), redactor: h.redactor}
}

func (h *RedactingHandler) scrub(a slog.Attr) slog.Attr {
	v := a.Value.Resolve()
	switch v.Kind() {
	case slog.KindString:
		v = slog.StringValue(h.redactor.Redact(v.String()))
	case slog.KindGroup:
		group := v.Group()
		scrubbed := make([]slog.Attr, len(group))
		for i, ga := range group {
			scrubbed[i] = h.scrub(ga)
		}
		v = slog.GroupValue(scrubbed...)
	case slog.KindAny:
		v = h.scrubAny(v.Any())
	}
	return slog.Attr{Key: a.Key, Value: v}
}

func (h *RedactingHandler) scrubAny(x any) slog.Value {
	switch val := x.(type) {
	case json.RawMessage:
		return slog.StringValue(h.redactor.Redact(string(val)))
	case []byte:
		return slog.StringValue(h.redactor.Redact(string(val)))
	case map[string]any:
		args := cloneArgs(val)
		h.redactor.RedactMap(args)
		return slog.AnyValue(args)
	}

	// errors, panics and anything else formatted by fmt.
	s := fmt.Sprint(x)
	if redacted := h.redactor.Redact(s); redacted != s {
		return slog.StringValue(redacted)
	}
	return slog.AnyValue(x)
}

// cloneArgs deep-copies the map and slice structure of decoded JSON.
func cloneArgs(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = cloneValue(v)
	}
	return out
}

func cloneValue(v any) any {
	switch val := v.(type) {
	case map[string]any:
		return cloneArgs(val)
	case []any:
		items := make([]any, len(val))
		for i, item := range val {
			items[i] = cloneValue(item)
		}
		return items
	default:
		return v
	}
}
