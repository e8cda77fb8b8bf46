// Package app provides the shared entry point for the clawslist-mcp binary.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/flemzord/clawslist-mcp/internal/config"
	"github.com/flemzord/clawslist-mcp/internal/gateway"
	"github.com/flemzord/clawslist-mcp/internal/reload"
	"github.com/flemzord/clawslist-mcp/internal/telemetry"
)

// RunParams configures the main application loop.
type RunParams struct {
	// ConfigPath is an explicit path to the YAML configuration file.
	// If empty, the standard search paths are tried and defaults are used
	// when none exists.
	ConfigPath string

	// Transport overrides server.transport when non-empty.
	Transport string

	// Version, Commit, and Date are injected at build time via ldflags.
	Version string
	Commit  string
	Date    string

	// Stdin and Stdout carry the stdio transport. Default to os.Stdin/os.Stdout.
	Stdin  io.Reader
	Stdout io.Writer
}

// LoadConfig resolves, loads, overlays and validates the effective
// configuration. The path actually read is returned, empty when defaults
// and environment alone were used.
func LoadConfig(explicit string) (*config.Config, string, error) {
	cfg, used, err := config.LoadEffective(explicit)
	if err != nil {
		return nil, "", err
	}
	if err := config.Validate(cfg); err != nil {
		return nil, used, err
	}
	return cfg, used, nil
}

// Run loads configuration, serves MCP on the configured transport, and blocks
// until ctx is cancelled or SIGINT/SIGTERM is received.
func Run(ctx context.Context, params RunParams) error {
	cfg, used, err := config.LoadEffective(params.ConfigPath)
	if err != nil {
		return err
	}
	// Reloads compare against the file and environment, not the flag override.
	loaded := *cfg
	if params.Transport != "" {
		cfg.Server.Transport = params.Transport
	}
	if err := config.Validate(cfg); err != nil {
		return err
	}

	c, err := Wire(cfg, params.Version, nil)
	if err != nil {
		return err
	}
	defer func() { _ = c.Close() }()
	logger := c.Logger

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := telemetry.SetupTracing(ctx, telemetry.TracingConfig{
		Endpoint:       cfg.Telemetry.OTLPEndpoint,
		ServiceName:    cfg.Telemetry.ServiceName,
		ServiceVersion: params.Version,
	})
	if err != nil {
		return err
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		if err := shutdownTracing(shutdownCtx); err != nil {
			logger.Warn("tracing shutdown failed", "error", err)
		}
	}()

	logger.Info("starting clawslist-mcp",
		"version", params.Version,
		"commit", params.Commit,
		"config", used,
		"transport", cfg.Server.Transport,
		"api", cfg.API.BaseURL,
		"tools", c.Dispatcher.Catalog().Len(),
	)
	if _, ok := c.Resolver.Resolve(); !ok {
		logger.Warn("no API key found; authenticated tools will fail until one is configured",
			"env", c.Resolver.EnvVar(), "path", c.Resolver.Path())
	}

	startReload(ctx, c, &loaded, used)

	switch cfg.Server.Transport {
	case config.TransportHTTP:
		return serveHTTP(ctx, c)
	default:
		in, out := params.Stdin, params.Stdout
		if in == nil {
			in = os.Stdin
		}
		if out == nil {
			out = os.Stdout
		}
		err := c.Server.ServeStdio(ctx, in, out)
		logger.Info("shutdown complete")
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	}
}

// startReload re-applies the log level on SIGHUP and, when a config file is
// in use, whenever it changes. It stops with ctx.
func startReload(ctx context.Context, c *Components, loaded *config.Config, cfgPath string) {
	handler := reload.NewHandler(cfgPath, loaded, c.Level, c.Logger)

	hup := make(chan os.Signal, 1)
	signal.Notify(hup, syscall.SIGHUP)

	var watcher *reload.Watcher
	if cfgPath != "" {
		watcher = reload.NewWatcher(cfgPath, 0)
		watcher.Start(ctx)
	}

	go func() {
		defer signal.Stop(hup)
		if watcher != nil {
			defer watcher.Stop()
		}
		reload.Loop(ctx, handler, watcher, hup, c.Logger)
	}()
}

// serveHTTP runs the gateway until ctx is done, then drains it.
func serveHTTP(ctx context.Context, c *Components) error {
	srv := c.Config.Server
	gw, err := gateway.New(gateway.Config{
		Bind:            srv.Bind,
		Auth:            gateway.AuthConfig{BearerToken: srv.Auth.BearerToken},
		ReadTimeout:     srv.ReadTimeout,
		WriteTimeout:    srv.WriteTimeout,
		ShutdownTimeout: srv.ShutdownTimeout,
	}, gateway.Options{
		MCP:       c.Server.HTTPHandler(),
		Metrics:   c.Metrics.Handler(),
		ToolCount: c.Dispatcher.Catalog().Len(),
		Audit:     c.Audit,
		Logger:    c.Logger,
	})
	if err != nil {
		return err
	}
	if err := gw.Start(ctx); err != nil {
		return err
	}

	<-ctx.Done()
	c.Logger.Info("shutdown signal received")
	// ctx is already cancelled; Stop derives its own deadline.
	if err := gw.Stop(context.Background()); err != nil {
		return fmt.Errorf("app: gateway shutdown: %w", err)
	}
	c.Logger.Info("shutdown complete")
	return nil
}
