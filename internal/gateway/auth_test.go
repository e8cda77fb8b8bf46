package gateway

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/flemzord/clawslist-mcp/internal/security"
	"github.com/flemzord/clawslist-mcp/internal/security/securitytest"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
}

func TestAuthMiddleware(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		header string
		want   int
	}{
		{"valid bearer", "Bearer secret-token", http.StatusOK},
		{"wrong bearer", "Bearer wrong-token", http.StatusUnauthorized},
		{"missing header", "", http.StatusUnauthorized},
		{"lowercase scheme", "bearer secret-token", http.StatusUnauthorized},
		{"basic scheme", "Basic c2VjcmV0LXRva2Vu", http.StatusUnauthorized},
		{"token prefix only", "Bearer secret", http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			handler := authMiddleware(AuthConfig{BearerToken: "secret-token"}, nil)(okHandler())
			req := httptest.NewRequest(http.MethodPost, "/mcp", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rr := httptest.NewRecorder()
			handler.ServeHTTP(rr, req)

			if rr.Code != tt.want {
				t.Errorf("status = %d, want %d", rr.Code, tt.want)
			}
		})
	}
}

func TestAuthMiddleware_AuditEvents(t *testing.T) {
	t.Parallel()

	audit, events := securitytest.NewTestAuditLogger()
	handler := authMiddleware(AuthConfig{BearerToken: "secret-token"}, audit)(okHandler())

	for _, header := range []string{"Bearer secret-token", "Bearer nope", ""} {
		req := httptest.NewRequest(http.MethodPost, "/mcp", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		handler.ServeHTTP(httptest.NewRecorder(), req)
	}

	got := events()
	want := []security.EventType{security.EventAuthSuccess, security.EventAuthFailure, security.EventAuthFailure}
	if len(got) != len(want) {
		t.Fatalf("got %d events, want %d", len(got), len(want))
	}
	for i, e := range got {
		if e.Type != want[i] {
			t.Errorf("event[%d].Type = %q, want %q", i, e.Type, want[i])
		}
		if e.Metadata["path"] != "/mcp" {
			t.Errorf("event[%d] path = %q", i, e.Metadata["path"])
		}
	}
	if got[2].Detail != "missing authorization header" {
		t.Errorf("detail = %q", got[2].Detail)
	}
}

func TestAuthConfig_IsConfigured(t *testing.T) {
	t.Parallel()

	if (AuthConfig{}).IsConfigured() {
		t.Error("empty config should not be configured")
	}
	if !(AuthConfig{BearerToken: "tok"}).IsConfigured() {
		t.Error("bearer config should be configured")
	}
}

func TestConstantTimeEqual(t *testing.T) {
	t.Parallel()

	if !constantTimeEqual("abc", "abc") {
		t.Error("equal strings should match")
	}
	if constantTimeEqual("abc", "abd") || constantTimeEqual("abc", "abcd") {
		t.Error("different strings should not match")
	}
}
