// Package gateway serves the MCP endpoint over streamable HTTP, next to
// health and metrics endpoints.
package gateway

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/flemzord/clawslist-mcp/internal/security"
)

// Options holds the handlers and collaborators mounted by the gateway.
type Options struct {
	// MCP serves the protocol endpoint. Required.
	MCP http.Handler

	// Metrics serves the Prometheus exposition. Optional.
	Metrics http.Handler

	// ToolCount is reported by /health.
	ToolCount int

	Audit  *security.AuditLogger
	Logger *slog.Logger
}

// Gateway is the HTTP front of the MCP server.
type Gateway struct {
	config    Config
	opts      Options
	logger    *slog.Logger
	startedAt time.Time

	mu     sync.Mutex
	server *http.Server
	addr   net.Addr
}

// New creates a gateway. It does not listen until Start is called.
func New(cfg Config, opts Options) (*Gateway, error) {
	if opts.MCP == nil {
		return nil, errors.New("gateway: MCP handler is required")
	}
	cfg.defaults()
	if _, err := net.ResolveTCPAddr("tcp", cfg.Bind); err != nil {
		return nil, fmt.Errorf("gateway: invalid bind address %q: %w", cfg.Bind, err)
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Gateway{config: cfg, opts: opts, logger: logger}, nil
}

// Handler returns the routed handler without starting a listener.
func (g *Gateway) Handler() http.Handler {
	return g.buildRouter()
}

// Start listens on the configured address and serves in the background.
func (g *Gateway) Start(ctx context.Context) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.server != nil {
		return errors.New("gateway: already started")
	}

	g.startedAt = time.Now()
	srv := &http.Server{
		Addr:         g.config.Bind,
		Handler:      g.buildRouter(),
		ReadTimeout:  g.config.ReadTimeout,
		WriteTimeout: g.config.WriteTimeout,
	}

	var lc net.ListenConfig
	ln, err := lc.Listen(ctx, "tcp", g.config.Bind)
	if err != nil {
		return fmt.Errorf("gateway: listen failed: %w", err)
	}
	g.server = srv
	g.addr = ln.Addr()

	go func() {
		g.logger.Info("gateway listening", "addr", ln.Addr().String(), "auth", g.config.Auth.IsConfigured())
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			g.logger.Error("gateway serve error", "error", err)
		}
	}()

	return nil
}

// Addr returns the bound address once started, or nil.
func (g *Gateway) Addr() net.Addr {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.addr
}

// Stop shuts down gracefully within the configured timeout.
func (g *Gateway) Stop(ctx context.Context) error {
	g.mu.Lock()
	srv := g.server
	g.mu.Unlock()

	if srv == nil {
		return nil
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, g.config.ShutdownTimeout)
	defer cancel()

	g.logger.Info("gateway shutting down")
	return srv.Shutdown(shutdownCtx)
}
