package app

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"

	"github.com/flemzord/clawslist-mcp/internal/config"
	"github.com/flemzord/clawslist-mcp/internal/credential"
	"github.com/flemzord/clawslist-mcp/internal/marketplace"
	"github.com/flemzord/clawslist-mcp/internal/mcpserver"
	"github.com/flemzord/clawslist-mcp/internal/security"
	"github.com/flemzord/clawslist-mcp/internal/telemetry"
	"github.com/flemzord/clawslist-mcp/internal/tool"
)

// ServerName is advertised to MCP clients during initialization.
const ServerName = "clawslist"

// Components is the wired object graph shared by every entry point.
type Components struct {
	Config     *config.Config
	Logger     *slog.Logger
	Level      *slog.LevelVar
	Redactor   *security.Redactor
	Resolver   *credential.Resolver
	Metrics    *telemetry.Metrics
	Audit      *security.AuditLogger
	Validator  *tool.Validator
	Dispatcher *tool.Dispatcher
	Server     *mcpserver.Server

	closers []io.Closer
}

// Close releases files opened during wiring.
func (c *Components) Close() error {
	var errs []error
	for _, cl := range c.closers {
		errs = append(errs, cl.Close())
	}
	return errors.Join(errs...)
}

// NewLogger builds the root logger: text on w, filtered by level, with
// secrets known to redactor scrubbed from every record.
func NewLogger(w io.Writer, level slog.Leveler, redactor *security.Redactor) *slog.Logger {
	inner := slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})
	return slog.New(security.NewRedactingHandler(inner, redactor))
}

// Wire builds the dispatcher, validator and MCP server from a validated
// configuration. Logs go to logOut, os.Stderr when nil, at the configured level.
func Wire(cfg *config.Config, version string, logOut io.Writer) (*Components, error) {
	level, err := config.ParseLevel(cfg.Log.Level)
	if err != nil {
		return nil, err
	}
	if logOut == nil {
		logOut = os.Stderr
	}
	levelVar := new(slog.LevelVar)
	levelVar.Set(level)
	redactor := security.NewRedactor()
	logger := NewLogger(logOut, levelVar, redactor)

	c := &Components{
		Config:   cfg,
		Logger:   logger,
		Level:    levelVar,
		Redactor: redactor,
		Resolver: credential.NewResolver(cfg.Credentials.Env, cfg.Credentials.Path),
		Metrics:  telemetry.NewMetrics(),
	}

	// Secrets known at startup are scrubbed by literal value as well.
	if cred, ok := c.Resolver.Resolve(); ok {
		redactor.AddLiteral(cred.Token)
	}
	redactor.AddLiteral(cfg.Server.Auth.BearerToken)

	audit, err := c.openAudit(cfg.Security.AuditFile)
	if err != nil {
		return nil, err
	}
	c.Audit = audit

	catalog := tool.Builtin()
	c.Validator, err = tool.NewValidator(catalog)
	if err != nil {
		_ = c.Close()
		return nil, err
	}

	clientOpts := []marketplace.Option{marketplace.WithObserver(c.Metrics)}
	if cfg.Telemetry.OTLPEndpoint != "" {
		clientOpts = append(clientOpts, marketplace.WithPropagator(telemetry.Propagator()))
	}
	client := marketplace.NewClient(&http.Client{Timeout: cfg.API.Timeout}, clientOpts...)

	c.Dispatcher, err = tool.NewDispatcher(tool.DispatcherConfig{
		Catalog:  catalog,
		Resolver: c.Resolver,
		Builder:  marketplace.NewBuilder(cfg.API.BaseURL),
		Executor: client,
		Logger:   logger,
		Observer: c.Metrics,
		Audit:    audit,
	})
	if err != nil {
		_ = c.Close()
		return nil, err
	}

	c.Server = mcpserver.New(mcpserver.Info{Name: ServerName, Version: version}, c.Dispatcher, c.Validator, logger)
	return c, nil
}

// openAudit returns an audit logger writing JSONL to path, or one that only
// feeds the redactor pipeline when path is empty.
func (c *Components) openAudit(path string) (*security.AuditLogger, error) {
	cfg := security.AuditLoggerConfig{Redactor: c.Redactor}
	if path == "" {
		return security.NewAuditLogger(cfg), nil
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("app: creating audit directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
	if err != nil {
		return nil, fmt.Errorf("app: opening audit file: %w", err)
	}
	c.closers = append(c.closers, f)
	cfg.Writer = f
	return security.NewAuditLogger(cfg), nil
}
