// Package mcpserver exposes the marketplace tool catalog over the Model
// Context Protocol, on stdio or streamable HTTP.
package mcpserver

import (
	"context"
	"io"
	"log"
	"log/slog"
	"net/http"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/flemzord/clawslist-mcp/internal/tool"
)

// Info identifies the server to protocol clients.
type Info struct {
	Name    string
	Version string
}

// Server adapts a tool.Dispatcher to an MCP server.
type Server struct {
	mcp        *server.MCPServer
	dispatcher *tool.Dispatcher
	validator  *tool.Validator
	logger     *slog.Logger
}

// New registers every tool of the dispatcher's catalog on a new MCP server.
// validator may be nil, in which case arguments reach the dispatcher unchecked.
func New(info Info, d *tool.Dispatcher, validator *tool.Validator, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}

	s := &Server{
		mcp: server.NewMCPServer(info.Name, info.Version,
			server.WithToolCapabilities(false),
			server.WithRecovery(),
		),
		dispatcher: d,
		validator:  validator,
		logger:     logger,
	}

	for _, desc := range d.Catalog().Descriptors() {
		s.mcp.AddTool(toolFor(desc), s.handler(desc.Name))
	}
	return s
}

// toolFor converts a descriptor to its protocol representation.
func toolFor(desc tool.Descriptor) mcp.Tool {
	t := mcp.NewToolWithRawSchema(desc.Name, desc.Description, desc.InputSchema)
	t.Annotations = mcp.ToolAnnotation{
		ReadOnlyHint:    mcp.ToBoolPtr(desc.ReadOnly()),
		DestructiveHint: mcp.ToBoolPtr(desc.Destructive()),
		IdempotentHint:  mcp.ToBoolPtr(desc.ReadOnly()),
		OpenWorldHint:   mcp.ToBoolPtr(true),
	}
	return t
}

func (s *Server) handler(name string) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args := req.GetArguments()

		if s.validator != nil {
			if err := s.validator.Validate(name, args); err != nil {
				s.logger.Warn("rejected tool arguments", "tool", name, "error", err)
				return mcp.NewToolResultError("Error: " + err.Error()), nil
			}
		}

		resp := s.dispatcher.Invoke(ctx, name, args)
		if resp.IsError {
			return mcp.NewToolResultError(resp.Text), nil
		}
		return mcp.NewToolResultText(resp.Text), nil
	}
}

// MCP returns the underlying protocol server.
func (s *Server) MCP() *server.MCPServer { return s.mcp }

// ServeStdio serves newline-delimited JSON-RPC on in/out until ctx is
// canceled or in is closed.
func (s *Server) ServeStdio(ctx context.Context, in io.Reader, out io.Writer) error {
	stdio := server.NewStdioServer(s.mcp)
	stdio.SetErrorLogger(log.New(slogWriter{s.logger}, "", 0))
	return stdio.Listen(ctx, in, out)
}

// HTTPHandler returns a streamable HTTP handler for the MCP endpoint.
func (s *Server) HTTPHandler() http.Handler {
	return server.NewStreamableHTTPServer(s.mcp)
}

// slogWriter forwards the protocol library's log lines to slog.
type slogWriter struct {
	logger *slog.Logger
}

func (w slogWriter) Write(p []byte) (int, error) {
	msg := string(p)
	if n := len(msg); n > 0 && msg[n-1] == '\n' {
		msg = msg[:n-1]
	}
	w.logger.Error("mcp transport error", "detail", msg)
	return len(p), nil
}
