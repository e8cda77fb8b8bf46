package gateway

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func echoHandler(body string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, body)
	})
}

func newTestGateway(t *testing.T, cfg Config) *Gateway {
	t.Helper()

	g, err := New(cfg, Options{
		MCP:       echoHandler("mcp"),
		Metrics:   echoHandler("metrics"),
		ToolCount: 3,
	})
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	return g
}

func TestNew_Validation(t *testing.T) {
	t.Parallel()

	if _, err := New(Config{}, Options{}); err == nil {
		t.Error("expected error without MCP handler")
	}
	if _, err := New(Config{Bind: "not an address"}, Options{MCP: echoHandler("")}); err == nil {
		t.Error("expected error for invalid bind")
	}

	g, err := New(Config{}, Options{MCP: echoHandler("")})
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	if g.config.Bind != "127.0.0.1:8080" || g.config.ShutdownTimeout != 10*time.Second {
		t.Errorf("defaults not applied: %+v", g.config)
	}
}

func TestRouter_Routes(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		auth     AuthConfig
		path     string
		header   string
		wantCode int
		wantBody string
	}{
		{"mcp open", AuthConfig{}, "/mcp", "", http.StatusOK, "mcp"},
		{"metrics open", AuthConfig{}, "/metrics", "", http.StatusOK, "metrics"},
		{"mcp needs token", AuthConfig{BearerToken: "t0k"}, "/mcp", "", http.StatusUnauthorized, ""},
		{"metrics needs token", AuthConfig{BearerToken: "t0k"}, "/metrics", "", http.StatusUnauthorized, ""},
		{"mcp with token", AuthConfig{BearerToken: "t0k"}, "/mcp", "Bearer t0k", http.StatusOK, "mcp"},
		{"health stays public", AuthConfig{BearerToken: "t0k"}, "/health", "", http.StatusOK, ""},
		{"unknown path", AuthConfig{}, "/nope", "", http.StatusNotFound, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			g := newTestGateway(t, Config{Auth: tt.auth})
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rr := httptest.NewRecorder()
			g.Handler().ServeHTTP(rr, req)

			if rr.Code != tt.wantCode {
				t.Errorf("status = %d, want %d", rr.Code, tt.wantCode)
			}
			if tt.wantBody != "" && rr.Body.String() != tt.wantBody {
				t.Errorf("body = %q, want %q", rr.Body.String(), tt.wantBody)
			}
		})
	}
}

func TestRouter_NoMetricsHandler(t *testing.T) {
	t.Parallel()

	g, err := New(Config{}, Options{MCP: echoHandler("mcp")})
	if err != nil {
		t.Fatal(err)
	}
	rr := httptest.NewRecorder()
	g.Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rr.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rr.Code)
	}
}

func TestGateway_StartStop(t *testing.T) {
	t.Parallel()

	g := newTestGateway(t, Config{Bind: "127.0.0.1:0"})
	if g.Addr() != nil {
		t.Error("Addr() should be nil before Start")
	}
	if err := g.Stop(context.Background()); err != nil {
		t.Errorf("Stop() before Start: %v", err)
	}

	ctx := context.Background()
	if err := g.Start(ctx); err != nil {
		t.Fatalf("Start() error: %v", err)
	}
	if err := g.Start(ctx); err == nil {
		t.Error("second Start() should fail")
	}

	resp, err := http.Get("http://" + g.Addr().String() + "/mcp")
	if err != nil {
		t.Fatalf("GET /mcp: %v", err)
	}
	body, _ := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	if string(body) != "mcp" {
		t.Errorf("body = %q, want mcp", body)
	}

	if err := g.Stop(ctx); err != nil {
		t.Errorf("Stop() error: %v", err)
	}
	if _, err := http.Get("http://" + g.Addr().String() + "/health"); err == nil {
		t.Error("expected connection error after Stop")
	}
}

func TestGateway_MCPOutlivesWriteTimeout(t *testing.T) {
	t.Parallel()

	slow := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		time.Sleep(300 * time.Millisecond)
		_, _ = io.WriteString(w, "late")
	})
	g, err := New(Config{
		Bind:         "127.0.0.1:0",
		ReadTimeout:  50 * time.Millisecond,
		WriteTimeout: 50 * time.Millisecond,
	}, Options{MCP: slow, Metrics: slow})
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	if err := g.Start(context.Background()); err != nil {
		t.Fatalf("Start() error: %v", err)
	}
	defer func() { _ = g.Stop(context.Background()) }()
	base := "http://" + g.Addr().String()

	resp, err := http.Get(base + "/mcp")
	if err != nil {
		t.Fatalf("GET /mcp: %v", err)
	}
	body, _ := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	if string(body) != "late" {
		t.Errorf("/mcp body = %q, want late", body)
	}

	// Other routes keep the server-wide deadline.
	resp, err = http.Get(base + "/metrics")
	if err == nil {
		body, _ = io.ReadAll(resp.Body)
		_ = resp.Body.Close()
		if string(body) == "late" {
			t.Error("/metrics should be cut off by the write timeout")
		}
	}
}
