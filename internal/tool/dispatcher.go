package tool

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"runtime/debug"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/flemzord/clawslist-mcp/internal/credential"
	"github.com/flemzord/clawslist-mcp/internal/marketplace"
	"github.com/flemzord/clawslist-mcp/internal/security"
)

// NoCredentialMessage is returned, prefixed with "Error: ", when an
// authenticated tool is invoked and no credential can be resolved.
const NoCredentialMessage = "No API key found. Set CLAWSLIST_API_KEY or save to ~/.config/clawslist/credentials.json"

const tracerName = "github.com/flemzord/clawslist-mcp/internal/tool"

// Outcome classifies a finished invocation for logs and metrics.
type Outcome string

// Invocation outcomes.
const (
	OutcomeSuccess         Outcome = "success"
	OutcomeFailure         Outcome = "failure"
	OutcomeUnknownTool     Outcome = "unknown_tool"
	OutcomeUnauthenticated Outcome = "unauthenticated"
	OutcomeInvalidRequest  Outcome = "invalid_request"
	OutcomePanic           Outcome = "panic"
)

// UnknownToolLabel replaces unrecognized tool names in metrics.
const UnknownToolLabel = "unknown"

// CredentialResolver yields the caller's credential, if any.
// *credential.Resolver satisfies it.
type CredentialResolver interface {
	Resolve() (credential.Credential, bool)
}

// Executor sends an envelope and normalizes the outcome.
// *marketplace.Client satisfies it.
type Executor interface {
	Execute(ctx context.Context, env marketplace.Envelope) marketplace.Result
}

// Observer receives one notification per invocation.
type Observer interface {
	ObserveInvocation(tool string, outcome Outcome, elapsed time.Duration)
}

// DispatcherConfig holds the dependencies of a Dispatcher. Catalog,
// Resolver, Builder and Executor are required.
type DispatcherConfig struct {
	Catalog  *Catalog
	Resolver CredentialResolver
	Builder  *marketplace.Builder
	Executor Executor

	Logger   *slog.Logger
	Observer Observer
	Audit    *security.AuditLogger
	Tracer   trace.Tracer
}

// Dispatcher routes tool invocations to marketplace operations.
// It is stateless between invocations and safe for concurrent use.
type Dispatcher struct {
	catalog  *Catalog
	resolver CredentialResolver
	builder  *marketplace.Builder
	executor Executor
	logger   *slog.Logger
	observer Observer
	audit    *security.AuditLogger
	tracer   trace.Tracer
}

// NewDispatcher validates cfg and returns a Dispatcher.
func NewDispatcher(cfg DispatcherConfig) (*Dispatcher, error) {
	switch {
	case cfg.Catalog == nil:
		return nil, errors.New("tool: dispatcher requires a catalog")
	case cfg.Resolver == nil:
		return nil, errors.New("tool: dispatcher requires a credential resolver")
	case cfg.Builder == nil:
		return nil, errors.New("tool: dispatcher requires an envelope builder")
	case cfg.Executor == nil:
		return nil, errors.New("tool: dispatcher requires an executor")
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	tracer := cfg.Tracer
	if tracer == nil {
		tracer = otel.Tracer(tracerName)
	}

	return &Dispatcher{
		catalog:  cfg.Catalog,
		resolver: cfg.Resolver,
		builder:  cfg.Builder,
		executor: cfg.Executor,
		logger:   logger,
		observer: cfg.Observer,
		audit:    cfg.Audit,
		tracer:   tracer,
	}, nil
}

// Catalog returns the catalog the dispatcher routes against.
func (d *Dispatcher) Catalog() *Catalog { return d.catalog }

// Invoke runs the named tool with args and renders the outcome. It never
// panics: any failure, including one recovered from a panic, is rendered
// as text starting with "Error: ".
func (d *Dispatcher) Invoke(ctx context.Context, name string, args map[string]any) (resp Response) {
	start := time.Now()
	invocationID := uuid.NewString()

	ctx, span := d.tracer.Start(ctx, "tool.invoke", trace.WithAttributes(
		attribute.String("tool.name", name),
		attribute.String("tool.invocation_id", invocationID),
	))
	defer span.End()

	logger := d.logger.With("tool", name, "invocation_id", invocationID)

	var outcome Outcome
	defer func() {
		if r := recover(); r != nil {
			outcome = OutcomePanic
			logger.Error("tool invocation panicked", "panic", r, "stack", string(debug.Stack()))
			resp = errorResponse(fmt.Sprintf("internal error: %v", r))
		}
		d.finish(span, logger, invocationID, name, outcome, resp, time.Since(start))
	}()

	resp, outcome = d.invoke(ctx, logger, invocationID, name, args)
	return resp
}

func (d *Dispatcher) invoke(
	ctx context.Context,
	logger *slog.Logger,
	invocationID, name string,
	args map[string]any,
) (Response, Outcome) {
	desc, err := d.catalog.Lookup(name)
	if err != nil {
		return errorResponse("Unknown tool: " + name), OutcomeUnknownTool
	}

	d.audit.Log(security.AuditEvent{
		Type:         security.EventToolCall,
		InvocationID: invocationID,
		ToolName:     name,
		Detail:       truncateForAudit(argsForAudit(args)),
	})
	logger.Debug("tool arguments", "arguments", args)

	cred, ok := d.credentialFor(desc, args)
	if desc.RequiresAuth() && !ok {
		d.audit.Log(security.AuditEvent{
			Type:         security.EventAuthFailure,
			InvocationID: invocationID,
			ToolName:     name,
			Detail:       "no credential resolved",
		})
		return errorResponse(NoCredentialMessage), OutcomeUnauthenticated
	}
	if ok {
		logger.Debug("credential resolved", "source", cred.Source, "token", cred.Masked())
	}

	var credPtr *credential.Credential
	if ok {
		credPtr = &cred
	}
	env, err := d.builder.Build(desc.Endpoint, args, credPtr)
	if err != nil {
		return errorResponse(err.Error()), OutcomeInvalidRequest
	}

	res := d.executor.Execute(ctx, env)
	if f, failed := res.(marketplace.Failure); failed {
		logger.Debug("marketplace request failed", "message", f.Message, "details", f.Details)
		return Render(res), OutcomeFailure
	}
	return Render(res), OutcomeSuccess
}

// credentialFor returns the credential to attach for desc. The resolver is
// consulted only for tools that require authentication.
func (d *Dispatcher) credentialFor(desc Descriptor, args map[string]any) (credential.Credential, bool) {
	switch desc.Auth {
	case AuthRequired:
		return d.resolver.Resolve()
	case AuthArgument:
		token, _ := args[desc.CredentialArg].(string)
		if token == "" {
			return credential.Credential{}, false
		}
		return credential.Credential{Token: token, Source: credential.SourceArgument}, true
	default:
		return credential.Credential{}, false
	}
}

func (d *Dispatcher) finish(
	span trace.Span,
	logger *slog.Logger,
	invocationID, name string,
	outcome Outcome,
	resp Response,
	elapsed time.Duration,
) {
	span.SetAttributes(attribute.String("tool.outcome", string(outcome)))
	if resp.IsError {
		span.SetStatus(codes.Error, string(outcome))
	}

	label := name
	if outcome == OutcomeUnknownTool {
		label = UnknownToolLabel
	}
	if d.observer != nil {
		d.observer.ObserveInvocation(label, outcome, elapsed)
	}

	if outcome != OutcomeUnknownTool {
		d.audit.Log(security.AuditEvent{
			Type:         security.EventToolResult,
			InvocationID: invocationID,
			ToolName:     name,
			Detail:       truncateForAudit(resp.Text),
			Metadata:     map[string]string{"outcome": string(outcome)},
		})
	}

	level := slog.LevelInfo
	if outcome == OutcomePanic {
		level = slog.LevelError
	} else if resp.IsError {
		level = slog.LevelWarn
	}
	logger.Log(context.Background(), level, "tool invocation finished",
		"outcome", outcome,
		"elapsed", elapsed,
	)
}

// maxAuditDetailLen is the maximum length of audit detail strings.
const maxAuditDetailLen = 4096

// truncateForAudit truncates s to maxAuditDetailLen on a rune boundary.
func truncateForAudit(s string) string {
	if len(s) <= maxAuditDetailLen {
		return s
	}
	i := maxAuditDetailLen
	for i > 0 && !utf8.RuneStart(s[i]) {
		i--
	}
	return s[:i] + "...(truncated)"
}

func argsForAudit(args map[string]any) string {
	raw, err := json.Marshal(nonNil(args))
	if err != nil {
		return fmt.Sprintf("unencodable arguments: %v", err)
	}
	return string(raw)
}
